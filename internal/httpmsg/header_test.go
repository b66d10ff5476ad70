package httpmsg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderCaseInsensitiveLookup(t *testing.T) {
	h := NewHeader()
	h.Add("Cache-Control", "max-age=1800")

	assert.Equal(t, "max-age=1800", h.Get("cache-control"))
	assert.Equal(t, "max-age=1800", h.Get("CACHE-CONTROL"))
	assert.True(t, h.Has("Cache-Control"))
}

func TestHeaderPreservesFirstSeenCase(t *testing.T) {
	h := NewHeader()
	h.Add("nt", "upnp:rootdevice")

	assert.Equal(t, []string{"nt"}, h.Names())
}

func TestHeaderSetReplacesAllMatches(t *testing.T) {
	h := NewHeader()
	h.Add("X-Custom", "one")
	h.Add("x-custom", "two")
	h.Set("X-CUSTOM", "three")

	assert.Equal(t, []string{"three"}, h.Values("x-custom"))
}

func TestHeaderLookupDistinguishesAbsentFromEmpty(t *testing.T) {
	h := NewHeader()
	h.Add("Location", "")

	v, ok := h.Lookup("Location")
	assert.True(t, ok)
	assert.Equal(t, "", v)

	_, ok = h.Lookup("Server")
	assert.False(t, ok)
}

func TestHeaderCloneIsIndependent(t *testing.T) {
	h := NewHeader()
	h.Add("USN", "uuid:abc")

	c := h.Clone()
	c.Set("USN", "uuid:def")

	assert.Equal(t, "uuid:abc", h.Get("USN"))
	assert.Equal(t, "uuid:def", c.Get("USN"))
}
