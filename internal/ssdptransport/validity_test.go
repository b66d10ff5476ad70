package ssdptransport

import (
	"net"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nyxio/upnpcp/internal/ssdpmsg"
)

func TestSameSubnet(t *testing.T) {
	_, ifaceNet, _ := net.ParseCIDR("192.168.1.5/24")

	assert.True(t, sameSubnet(ifaceNet, net.ParseIP("192.168.1.42")))
	assert.False(t, sameSubnet(ifaceNet, net.ParseIP("10.0.0.1")))
	assert.True(t, sameSubnet(nil, net.ParseIP("10.0.0.1")))
}

func TestLocationHostMatchesPeerByIP(t *testing.T) {
	loc, _ := url.Parse("http://192.168.1.42:8080/desc.xml")
	m := &ssdpmsg.Message{
		Location: loc,
		Peer:     &net.UDPAddr{IP: net.ParseIP("192.168.1.42")},
	}
	assert.True(t, locationHostMatchesPeer(m))

	spoofed := &ssdpmsg.Message{
		Location: loc,
		Peer:     &net.UDPAddr{IP: net.ParseIP("10.0.0.99")},
	}
	assert.False(t, locationHostMatchesPeer(spoofed))
}

func TestValidateNotifyDropsMSearch(t *testing.T) {
	m := &ssdpmsg.Message{IsSearch: true}
	err := validateNotify(m, nil)
	assert.Error(t, err)
	var dropped *DroppedError
	assert.ErrorAs(t, err, &dropped)
}

func TestValidateNotifyDropsOutsideSubnet(t *testing.T) {
	_, ifaceNet, _ := net.ParseCIDR("192.168.1.5/24")
	loc, _ := url.Parse("http://10.0.0.99:8080/desc.xml")
	m := &ssdpmsg.Message{
		Peer:     &net.UDPAddr{IP: net.ParseIP("10.0.0.99")},
		Location: loc,
	}
	err := validateNotify(m, ifaceNet)
	assert.Error(t, err)
}

func TestValidateNotifyAcceptsValid(t *testing.T) {
	_, ifaceNet, _ := net.ParseCIDR("192.168.1.5/24")
	loc, _ := url.Parse("http://192.168.1.42:8080/desc.xml")
	m := &ssdpmsg.Message{
		Peer:     &net.UDPAddr{IP: net.ParseIP("192.168.1.42")},
		Location: loc,
	}
	assert.NoError(t, validateNotify(m, ifaceNet))
}
