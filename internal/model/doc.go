// Package model holds the immutable entity graph a description parse
// produces: Device, Service, Action, Argument, and StateVariable. Every
// type is built once through a *Builder and never mutated afterward,
// except for a Device's SSDP refresh state (Device.Refresh) and a
// Service's subscription (Service.SetSubscription); validation happens at build time so a caller holding a *Device never
// has to null-check a required field.
package model
