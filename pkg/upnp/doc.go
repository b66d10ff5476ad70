// Package upnp is a UPnP Control Point: it discovers devices over SSDP,
// fetches and parses their descriptions, invokes SOAP actions on their
// services, and subscribes to GENA eventing with automatic renewal.
//
// A ControlPoint moves through a fixed lifecycle:
//
//	cp, err := upnp.NewControlPoint(upnp.WithLogger(logger))
//	err = cp.Initialize(ctx)
//	err = cp.Start(ctx)
//	err = cp.Search()
//	...
//	err = cp.Stop()
//	err = cp.Terminate()
//
// Discovered devices are delivered through a DiscoveryListener; event
// notifications for subscribed services through a NotifyEventListener.
// Both are dispatched synchronously from an internal worker and must not
// call back into the ControlPoint.
package upnp
