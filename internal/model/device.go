package model

import (
	"net/url"
	"sync"
	"time"

	"github.com/nyxio/upnpcp/internal/ssdpmsg"
)

// Device is identified by UDN and immutable except for the fields an
// SSDP refresh updates: LastMessage and ExpiresAt. Children are owned by
// their parent; a child's Parent handle is non-owning and must not
// outlive the parent's presence in the ControlPoint's device table.
type Device struct {
	udn          string
	urlBase      *url.URL
	friendlyName string
	manufacturer string
	modelName    string
	deviceType   string
	icons        []Icon

	services []*Service
	children []*Device
	parent   *Device

	mu          sync.Mutex
	lastMessage *ssdpmsg.Message
	expiresAt   time.Time
}

func (d *Device) UDN() string          { return d.udn }
func (d *Device) URLBase() *url.URL    { return d.urlBase }
func (d *Device) FriendlyName() string { return d.friendlyName }
func (d *Device) Manufacturer() string { return d.manufacturer }
func (d *Device) ModelName() string    { return d.modelName }
func (d *Device) DeviceType() string   { return d.deviceType }
func (d *Device) Icons() []Icon        { return d.icons }
func (d *Device) Services() []*Service { return d.services }
func (d *Device) Children() []*Device  { return d.children }
func (d *Device) Parent() *Device      { return d.parent }

// FindService looks up an owned Service by serviceId.
func (d *Device) FindService(id string) (*Service, bool) {
	for _, s := range d.services {
		if s.ServiceID() == id {
			return s, true
		}
	}
	return nil, false
}

// FindServiceByType looks up the first owned Service with the given
// serviceType.
func (d *Device) FindServiceByType(serviceType string) (*Service, bool) {
	for _, s := range d.services {
		if s.ServiceType() == serviceType {
			return s, true
		}
	}
	return nil, false
}

// LastMessage returns the SsdpMessage that most recently refreshed this
// Device.
func (d *Device) LastMessage() *ssdpmsg.Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastMessage
}

// ExpiresAt returns the current expiry timestamp.
func (d *Device) ExpiresAt() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.expiresAt
}

// Refresh records msg as the Device's most recent SSDP message and
// advances ExpiresAt to receivedAt + maxAge, but never backward — the
// expiry timestamp is monotonically non-decreasing per spec.md §3.
func (d *Device) Refresh(msg *ssdpmsg.Message, receivedAt time.Time) {
	next := receivedAt.Add(time.Duration(msg.MaxAge) * time.Second)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastMessage = msg
	if next.After(d.expiresAt) {
		d.expiresAt = next
	}
}

// IsExpired reports whether ExpiresAt is at or before now.
func (d *Device) IsExpired(now time.Time) bool {
	return !d.ExpiresAt().After(now)
}

// DeviceBuilder is the construction-time config for a Device (and,
// recursively, its embedded devices). Build validates every owned
// Service and Argument, fixing them to this Device's identity.
type DeviceBuilder struct {
	UDN          string
	URLBase      *url.URL
	FriendlyName string
	Manufacturer string
	ModelName    string
	DeviceType   string
	Icons        []Icon

	Services []*ServiceBuilder
	Children []*DeviceBuilder
}

// Build constructs the Device tree rooted at b. receivedAt/msg seed the
// initial refresh so a freshly-built Device already has an ExpiresAt.
func (b *DeviceBuilder) Build(msg *ssdpmsg.Message, receivedAt time.Time) (*Device, error) {
	return b.build(nil, msg, receivedAt)
}

func (b *DeviceBuilder) build(parent *Device, msg *ssdpmsg.Message, receivedAt time.Time) (*Device, error) {
	if b.UDN == "" {
		return nil, &BuildError{Entity: "Device", Reason: "missing UDN"}
	}

	d := &Device{
		udn:          b.UDN,
		urlBase:      b.URLBase,
		friendlyName: b.FriendlyName,
		manufacturer: b.Manufacturer,
		modelName:    b.ModelName,
		deviceType:   b.DeviceType,
		icons:        b.Icons,
		parent:       parent,
	}

	for _, sb := range b.Services {
		s, err := sb.build(d)
		if err != nil {
			return nil, err
		}
		d.services = append(d.services, s)
	}

	for _, cb := range b.Children {
		child, err := cb.build(d, msg, receivedAt)
		if err != nil {
			return nil, err
		}
		d.children = append(d.children, child)
	}

	if msg != nil {
		d.Refresh(msg, receivedAt)
	}

	return d, nil
}
