package httpmsg

import "strings"

// Header is an ordered header list that preserves the case a header name
// was first written or received in, while making lookups and
// duplicate-detection case-insensitive — SSDP and GENA devices are
// inconsistent about header casing ("Cache-control" vs "CACHE-CONTROL")
// and UPnP tooling that forwards messages verbatim needs to round-trip the
// case it saw.
type Header struct {
	fields []headerField
}

type headerField struct {
	name  string // as first seen
	value string
}

// NewHeader returns an empty Header.
func NewHeader() *Header {
	return &Header{}
}

func foldEqual(a, b string) bool {
	return strings.EqualFold(a, b)
}

// Get returns the first value stored for name (case-insensitive), or "".
func (h *Header) Get(name string) string {
	for _, f := range h.fields {
		if foldEqual(f.name, name) {
			return f.value
		}
	}
	return ""
}

// Lookup is like Get but reports whether the header was present at all,
// distinguishing an empty value from an absent header.
func (h *Header) Lookup(name string) (string, bool) {
	for _, f := range h.fields {
		if foldEqual(f.name, name) {
			return f.value, true
		}
	}
	return "", false
}

// Values returns every value stored for name, in the order they were added.
func (h *Header) Values(name string) []string {
	var out []string
	for _, f := range h.fields {
		if foldEqual(f.name, name) {
			out = append(out, f.value)
		}
	}
	return out
}

// Has reports whether name is present, case-insensitively.
func (h *Header) Has(name string) bool {
	_, ok := h.Lookup(name)
	return ok
}

// Add appends a header, preserving the case of name as given. Multiple
// calls with the same name (any case) produce multiple wire lines.
func (h *Header) Add(name, value string) {
	h.fields = append(h.fields, headerField{name: name, value: value})
}

// Set removes any existing headers matching name (case-insensitive) and
// adds a single one with the given case and value.
func (h *Header) Set(name, value string) {
	h.Del(name)
	h.Add(name, value)
}

// Del removes every header matching name, case-insensitively.
func (h *Header) Del(name string) {
	out := h.fields[:0]
	for _, f := range h.fields {
		if !foldEqual(f.name, name) {
			out = append(out, f)
		}
	}
	h.fields = out
}

// Names returns the distinct header names in first-seen order, using the
// case each was first added with.
func (h *Header) Names() []string {
	seen := map[string]bool{}
	var out []string
	for _, f := range h.fields {
		key := strings.ToLower(f.name)
		if !seen[key] {
			seen[key] = true
			out = append(out, f.name)
		}
	}
	return out
}

// Clone returns a deep copy.
func (h *Header) Clone() *Header {
	c := &Header{fields: make([]headerField, len(h.fields))}
	copy(c.fields, h.fields)
	return c
}

// Each calls fn for every (name, value) pair in wire order.
func (h *Header) Each(fn func(name, value string)) {
	for _, f := range h.fields {
		fn(f.name, f.value)
	}
}
