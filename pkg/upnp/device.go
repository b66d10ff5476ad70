package upnp

import "github.com/nyxio/upnpcp/internal/model"

// Device is a discovered UPnP device: its identity and description
// fields come straight from internal/model, with Service accessors
// upgraded to return upnp.Service wrappers that can invoke and
// subscribe.
type Device struct {
	*model.Device
	cp *ControlPoint
}

func wrapDevice(cp *ControlPoint, d *model.Device) *Device {
	if d == nil {
		return nil
	}
	return &Device{Device: d, cp: cp}
}

// FindService looks up an owned Service by serviceId.
func (d *Device) FindService(id string) (*Service, bool) {
	s, ok := d.Device.FindService(id)
	if !ok {
		return nil, false
	}
	return wrapService(d.cp, s), true
}

// FindServiceByType looks up the first owned Service with the given
// serviceType.
func (d *Device) FindServiceByType(serviceType string) (*Service, bool) {
	s, ok := d.Device.FindServiceByType(serviceType)
	if !ok {
		return nil, false
	}
	return wrapService(d.cp, s), true
}

// Services returns every owned Service.
func (d *Device) Services() []*Service {
	underlying := d.Device.Services()
	out := make([]*Service, 0, len(underlying))
	for _, s := range underlying {
		out = append(out, wrapService(d.cp, s))
	}
	return out
}

// Children returns embedded devices, recursively wrapped.
func (d *Device) Children() []*Device {
	underlying := d.Device.Children()
	out := make([]*Device, 0, len(underlying))
	for _, c := range underlying {
		out = append(out, wrapDevice(d.cp, c))
	}
	return out
}
