package upnp

// DiscoveryListener is notified as devices come and go from the
// ControlPoint's device table. Per spec.md §5, callbacks for a single
// Device are strictly ordered (OnDiscover before any OnLost) but
// callbacks across different devices may interleave, and a listener must
// not call back into the ControlPoint from either method.
type DiscoveryListener interface {
	OnDiscover(device *Device)
	OnLost(device *Device)
}

// NotifyEventListener is notified once per (name, value) property pair
// carried by a GENA event, in the order they appeared in the event body.
type NotifyEventListener interface {
	OnNotifyEvent(service *Service, seq int, name, value string)
}
