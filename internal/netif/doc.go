// Package netif enumerates network interfaces usable for SSDP: up,
// non-loopback, multicast-capable interfaces carrying at least one IPv4
// address. It is the default implementation of the interface enumerator
// spec.md §1 calls out as an external collaborator supplied to the core.
package netif
