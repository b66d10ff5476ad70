package netif

import "net"

// Interface describes one usable network interface: its OS handle and
// the IPv4 subnet an SSDP socket should bind/join on.
type Interface struct {
	Name string
	Net  *net.Interface
	IPv4 *net.IPNet
}

// Enumerate returns every up, non-loopback, multicast-capable interface
// carrying an IPv4 address, one entry per interface using its first
// IPv4 address.
func Enumerate() ([]Interface, error) {
	ifs, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	var out []Interface
	for i := range ifs {
		ni := ifs[i]
		if !usable(ni) {
			continue
		}
		addrs, err := ni.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ipn, ok := a.(*net.IPNet)
			if !ok || ipn.IP.To4() == nil {
				continue
			}
			out = append(out, Interface{Name: ni.Name, Net: &ni, IPv4: ipn})
			break
		}
	}
	return out, nil
}

// ByName returns the usable interface with the given OS name.
func ByName(name string) (Interface, bool) {
	ifs, err := Enumerate()
	if err != nil {
		return Interface{}, false
	}
	for _, i := range ifs {
		if i.Name == name {
			return i, true
		}
	}
	return Interface{}, false
}

func usable(ni net.Interface) bool {
	if ni.Flags&net.FlagUp == 0 {
		return false
	}
	if ni.Flags&net.FlagLoopback != 0 {
		return false
	}
	if ni.Flags&net.FlagMulticast == 0 {
		return false
	}
	return true
}
