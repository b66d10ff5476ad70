package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/nyxio/upnpcp/internal/config"
	"github.com/nyxio/upnpcp/pkg/upnp"
)

type scanListener struct {
	verbose bool
}

func (l *scanListener) OnDiscover(d *upnp.Device) {
	if l.verbose {
		fmt.Printf("discovered: %s (%s)\n", d.UDN(), d.FriendlyName())
	}
}

func (l *scanListener) OnLost(d *upnp.Device) {
	if l.verbose {
		fmt.Printf("lost: %s\n", d.UDN())
	}
}

// scanDevices runs a search on cp for target, waits the given window for
// responses and descriptions to arrive, and returns every root device
// currently known, refreshing the registry's last-seen record for each.
func scanDevices(cp *upnp.ControlPoint, target string, window time.Duration, reg *config.Registry, verbose bool) ([]*upnp.Device, error) {
	l := &scanListener{verbose: verbose}
	cp.AddDiscoveryListener(l)
	defer cp.RemoveDiscoveryListener(l)

	if err := cp.SearchTarget(target); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	time.Sleep(window)

	devices := cp.GetDeviceList()
	now := time.Now()
	for _, d := range devices {
		reg.UpdateDeviceLastSeen(d.UDN(), "", now)
	}
	return devices, nil
}

// resolveDevice finds a device by exact UDN, nickname (via reg), or a
// case-insensitive substring match against UDN/FriendlyName.
func resolveDevice(devices []*upnp.Device, ref string, reg *config.Registry) (*upnp.Device, error) {
	if udn, ok := reg.FindByNickname(ref); ok {
		for _, d := range devices {
			if d.UDN() == udn {
				return d, nil
			}
		}
	}

	for _, d := range devices {
		if d.UDN() == ref {
			return d, nil
		}
	}

	var matches []*upnp.Device
	lowerRef := strings.ToLower(ref)
	for _, d := range devices {
		if strings.Contains(strings.ToLower(d.UDN()), lowerRef) ||
			strings.Contains(strings.ToLower(d.FriendlyName()), lowerRef) {
			matches = append(matches, d)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no device matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%q matches %d devices, be more specific", ref, len(matches))
	}
}
