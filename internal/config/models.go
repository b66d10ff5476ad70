package config

import "time"

// Registry is the on-disk shape of the CLI's configuration file. It has
// no relation to a ControlPoint's in-memory device table; it only
// remembers CLI-level preferences and a small cache of previously seen
// devices so commands like "upnpctl invoke" can resolve a nickname
// without a fresh discovery round.
type Registry struct {
	Version     int                    `yaml:"version"`
	Devices     map[string]*DeviceMeta `yaml:"devices,omitempty"` // keyed by UDN
	Preferences *Preferences           `yaml:"preferences,omitempty"`
}

// DeviceMeta is what the CLI remembers about a device between runs.
type DeviceMeta struct {
	Nickname     string    `yaml:"nickname,omitempty"`
	LastLocation string    `yaml:"last_location,omitempty"` // last description URL seen
	LastSeen     time.Time `yaml:"last_seen,omitempty"`
}

// Preferences holds the CLI's default behavior, overridable per command
// by flags.
type Preferences struct {
	// SearchTimeoutSeconds bounds how long "upnpctl discover" waits for
	// M-SEARCH responses before printing what it collected.
	SearchTimeoutSeconds int `yaml:"search_timeout_seconds"`
	// DefaultInterface is the network interface name Search binds to
	// when a command omits --iface. Empty means every usable
	// interface per internal/netif.Enumerate.
	DefaultInterface string `yaml:"default_interface,omitempty"`
	// OutputFormat is either "text" or "json".
	OutputFormat string `yaml:"output_format"`
}

// NewRegistry creates a new Registry with default preferences and an
// empty device cache.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Devices: make(map[string]*DeviceMeta),
		Preferences: &Preferences{
			SearchTimeoutSeconds: 5,
			OutputFormat:         "text",
		},
	}
}

// GetDevice retrieves cached metadata by UDN. Returns nil if unknown.
func (r *Registry) GetDevice(udn string) *DeviceMeta {
	return r.Devices[udn]
}

// EnsureDevice returns the cached entry for udn, creating an empty one
// if it doesn't exist yet.
func (r *Registry) EnsureDevice(udn string) *DeviceMeta {
	if r.Devices == nil {
		r.Devices = make(map[string]*DeviceMeta)
	}
	if device, exists := r.Devices[udn]; exists {
		return device
	}
	device := &DeviceMeta{}
	r.Devices[udn] = device
	return device
}

// UpdateDeviceLastSeen records location as udn's last known description
// URL and stamps LastSeen with now.
func (r *Registry) UpdateDeviceLastSeen(udn, location string, now time.Time) {
	device := r.EnsureDevice(udn)
	device.LastLocation = location
	device.LastSeen = now
}

// SetDeviceNickname assigns a user-friendly name to udn.
func (r *Registry) SetDeviceNickname(udn, nickname string) {
	r.EnsureDevice(udn).Nickname = nickname
}

// FindByNickname returns the UDN registered under nickname, if any.
func (r *Registry) FindByNickname(nickname string) (string, bool) {
	for udn, device := range r.Devices {
		if device.Nickname == nickname {
			return udn, true
		}
	}
	return "", false
}
