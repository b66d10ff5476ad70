package ssdptransport

import (
	"net"

	"github.com/nyxio/upnpcp/internal/ssdpmsg"
)

// sameSubnet reports whether peer belongs to the same IPv4 subnet as
// ifaceNet, the address+mask the receiving socket is bound through. A
// datagram from a different subnet cannot have reached a multicast
// socket honestly and is dropped.
func sameSubnet(ifaceNet *net.IPNet, peer net.IP) bool {
	if ifaceNet == nil {
		return true
	}
	return ifaceNet.Contains(peer)
}

// locationHostMatchesPeer reports whether the message's LOCATION URL
// resolves to the same host that sent the datagram, guarding against a
// compromised or misbehaving device advertising a description URL that
// points at a different machine.
func locationHostMatchesPeer(m *ssdpmsg.Message) bool {
	if m.Location == nil || m.Peer == nil {
		return true
	}
	host := m.Location.Hostname()
	if host == m.Peer.IP.String() {
		return true
	}
	addrs, err := net.LookupIP(host)
	if err != nil {
		return false
	}
	for _, a := range addrs {
		if a.Equal(m.Peer.IP) {
			return true
		}
	}
	return false
}

// validateNotify applies the notify-socket-specific filters: an M-SEARCH
// arriving on the notify socket is a misbehaving peer, and the message
// must pass the subnet and LOCATION checks.
func validateNotify(m *ssdpmsg.Message, ifaceNet *net.IPNet) error {
	if m.IsSearch {
		return &DroppedError{Reason: "M-SEARCH received on notify socket"}
	}
	if m.Peer != nil && !sameSubnet(ifaceNet, m.Peer.IP) {
		return &DroppedError{Reason: "peer " + m.Peer.IP.String() + " outside interface subnet"}
	}
	if !locationHostMatchesPeer(m) {
		return &DroppedError{Reason: "LOCATION host does not match sending peer"}
	}
	return nil
}
