package upnp

import (
	"net"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nyxio/upnpcp/internal/model"
	"github.com/nyxio/upnpcp/internal/netif"
	"github.com/nyxio/upnpcp/internal/ssdpmsg"
)

func parseTestURL(raw string) (*url.URL, error) { return url.Parse(raw) }

func itoa(n int) string { return strconv.Itoa(n) }

func fakeAliveMessage(udn, location string) *ssdpmsg.Message {
	loc, _ := url.Parse(location)
	return &ssdpmsg.Message{
		USN:      udn + "::upnp:rootdevice",
		UDN:      udn,
		NTS:      "ssdp:alive",
		Location: loc,
		MaxAge:   ssdpmsg.DefaultMaxAge,
	}
}

func buildDeviceWithControlURL(t *testing.T, control, scpd, eventSub *url.URL) *model.Device {
	t.Helper()
	db := &model.DeviceBuilder{
		UDN:        "uuid:speaker-1",
		DeviceType: "urn:schemas-upnp-org:device:MediaRenderer:1",
		Services: []*model.ServiceBuilder{
			{
				ServiceType: "urn:schemas-upnp-org:service:AVTransport:1",
				ServiceID:   "urn:upnp-org:serviceId:AVTransport",
				SCPDURL:     scpd,
				ControlURL:  control,
				EventSubURL: eventSub,
				Actions: []*model.ActionBuilder{
					{Name: "Stop"},
				},
			},
		},
	}
	device, err := db.Build(nil, time.Time{})
	require.NoError(t, err)
	return device
}

func buildTestDevice(t *testing.T, udn string) *model.Device {
	t.Helper()
	scpd, _ := url.Parse("http://device.example/scpd.xml")
	control, _ := url.Parse("http://device.example/control")
	eventSub, _ := url.Parse("http://device.example/event")

	db := &model.DeviceBuilder{
		UDN:          udn,
		FriendlyName: "Test Speaker",
		DeviceType:   "urn:schemas-upnp-org:device:MediaRenderer:1",
		Services: []*model.ServiceBuilder{
			{
				ServiceType: "urn:schemas-upnp-org:service:AVTransport:1",
				ServiceID:   "urn:upnp-org:serviceId:AVTransport",
				SCPDURL:     scpd,
				ControlURL:  control,
				EventSubURL: eventSub,
				Actions: []*model.ActionBuilder{
					{Name: "Stop"},
				},
			},
		},
	}
	device, err := db.Build(nil, time.Time{})
	require.NoError(t, err)
	return device
}

func buildTestDeviceWithChild(t *testing.T, rootUDN, childUDN string) *model.Device {
	t.Helper()
	control, _ := url.Parse("http://device.example/control")
	scpd, _ := url.Parse("http://device.example/scpd.xml")
	eventSub, _ := url.Parse("http://device.example/event")

	db := &model.DeviceBuilder{
		UDN:        rootUDN,
		DeviceType: "urn:schemas-upnp-org:device:MediaServer:1",
		Children: []*model.DeviceBuilder{
			{
				UDN:        childUDN,
				DeviceType: "urn:schemas-upnp-org:device:TunerZone:1",
				Services: []*model.ServiceBuilder{
					{
						ServiceType: "urn:schemas-upnp-org:service:Tuner:1",
						ServiceID:   "urn:upnp-org:serviceId:Tuner",
						SCPDURL:     scpd,
						ControlURL:  control,
						EventSubURL: eventSub,
					},
				},
			},
		},
	}
	device, err := db.Build(nil, time.Time{})
	require.NoError(t, err)
	return device
}

func testLoopbackInterface(t *testing.T) []netif.Interface {
	t.Helper()
	ipnet := &net.IPNet{IP: net.ParseIP("127.0.0.1").To4(), Mask: net.CIDRMask(8, 32)}
	return []netif.Interface{{Name: "lo0", IPv4: ipnet}}
}
