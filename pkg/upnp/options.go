package upnp

import (
	"github.com/nyxio/upnpcp/internal/logging"
)

const (
	// DefaultSearchMX is the MX value M-SEARCH advertises when Search or
	// SearchTarget is called without an override.
	DefaultSearchMX = 3
	// DefaultDescriptionWorkers is the size of the description-fetch pool,
	// per spec.md §4.8.
	DefaultDescriptionWorkers = 2
	// DefaultReceiverAddr binds the GENA event receiver to an ephemeral
	// port on every local address.
	DefaultReceiverAddr = ":0"
	// DefaultSearchTarget is used by Search(); SearchTarget lets a caller
	// narrow it.
	DefaultSearchTarget = "ssdp:all"
)

// Option configures a ControlPoint at construction time.
type Option func(*ControlPoint)

// WithLogger attaches a structured logger; the zero value is
// logging.Nop().
func WithLogger(l logging.Logger) Option {
	return func(cp *ControlPoint) { cp.logger = l }
}

// WithInterfaceName restricts the ControlPoint to the named network
// interface instead of every usable interface internal/netif.Enumerate
// finds.
func WithInterfaceName(name string) Option {
	return func(cp *ControlPoint) { cp.ifaceName = name }
}

// WithSearchMX overrides DefaultSearchMX.
func WithSearchMX(mx int) Option {
	return func(cp *ControlPoint) { cp.searchMX = mx }
}

// WithDescriptionWorkers overrides DefaultDescriptionWorkers.
func WithDescriptionWorkers(n int) Option {
	return func(cp *ControlPoint) {
		if n > 0 {
			cp.descriptionWorkers = n
		}
	}
}

// WithReceiverAddr overrides the bind address of the local GENA event
// receiver, e.g. ":8058" to pin the port for a firewall rule.
func WithReceiverAddr(addr string) Option {
	return func(cp *ControlPoint) { cp.receiverAddr = addr }
}

// WithReturnFaultAsResult makes Action.Invoke return a well-formed SOAP
// Fault's fields as a normal result map instead of a *SoapFaultError, per
// spec.md §4.6 step 5 / §7.
func WithReturnFaultAsResult(enabled bool) Option {
	return func(cp *ControlPoint) { cp.returnFaultAsResult = enabled }
}
