package netif

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsableExcludesLoopbackAndDown(t *testing.T) {
	assert.False(t, usable(net.Interface{Flags: net.FlagLoopback | net.FlagUp | net.FlagMulticast}))
	assert.False(t, usable(net.Interface{Flags: net.FlagMulticast}))
	assert.False(t, usable(net.Interface{Flags: net.FlagUp}))
	assert.True(t, usable(net.Interface{Flags: net.FlagUp | net.FlagMulticast}))
}

func TestEnumerateReturnsOnlyIPv4Interfaces(t *testing.T) {
	ifs, err := Enumerate()
	assert.NoError(t, err)
	for _, i := range ifs {
		assert.NotNil(t, i.IPv4.IP.To4())
	}
}
