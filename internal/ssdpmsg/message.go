package ssdpmsg

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/nyxio/upnpcp/internal/httpmsg"
)

// DefaultMaxAge is used when a NOTIFY/response omits CACHE-CONTROL
// max-age entirely.
const DefaultMaxAge = 1800

// InvalidMessageError reports an SSDP message that parsed as HTTP fine
// but violates the SSDP-level acceptance invariant: every alive
// notification and every search response must carry a LOCATION, and
// every ssdp:byebye must not need one.
type InvalidMessageError struct {
	Reason string
}

func (e *InvalidMessageError) Error() string {
	return "ssdpmsg: " + e.Reason
}

// Message is a decoded SSDP datagram with the header-derived fields the
// control point acts on already pulled out.
type Message struct {
	// SourceInterface is the local interface address the receiving socket
	// was bound to; used for the same-subnet validity check.
	SourceInterface net.Addr

	// Peer is the address the datagram arrived from.
	Peer *net.UDPAddr

	Raw *httpmsg.Message

	// IsSearch is true for an M-SEARCH request, false for a NOTIFY or a
	// search response.
	IsSearch bool

	// NTS is "ssdp:alive", "ssdp:byebye", or "ssdp:update" for a NOTIFY,
	// and empty for M-SEARCH/search-response messages.
	NTS string

	// SearchTarget is ST for a request/response, NT for a NOTIFY.
	SearchTarget string

	USN      string
	UDN      string
	UDNType  string
	MaxAge   int
	Location *url.URL
	Server   string
}

// Parse validates raw as an SSDP datagram and derives Message's fields
// from its headers. srcIface identifies the local interface the datagram
// was received on (nil for outbound M-SEARCH construction); peer is the
// remote address.
func Parse(raw *httpmsg.Message, srcIface net.Addr, peer *net.UDPAddr) (*Message, error) {
	m := &Message{
		SourceInterface: srcIface,
		Peer:            peer,
		Raw:             raw,
		USN:             raw.Header.Get("USN"),
		Server:          raw.Header.Get("SERVER"),
		MaxAge:          parseMaxAge(raw.Header.Get("CACHE-CONTROL")),
	}

	if raw.IsRequest() && strings.EqualFold(raw.Request.Method, "M-SEARCH") {
		m.IsSearch = true
		m.SearchTarget = raw.Header.Get("ST")
	} else if raw.IsRequest() && strings.EqualFold(raw.Request.Method, "NOTIFY") {
		m.NTS = raw.Header.Get("NTS")
		m.SearchTarget = raw.Header.Get("NT")
	} else if !raw.IsRequest() {
		m.SearchTarget = raw.Header.Get("ST")
	} else {
		return nil, &InvalidMessageError{Reason: fmt.Sprintf("unrecognized SSDP method %q", raw.Request.Method)}
	}

	m.UDN, m.UDNType = splitUSN(m.USN)

	if loc := raw.Header.Get("LOCATION"); loc != "" {
		u, err := url.Parse(loc)
		if err != nil {
			return nil, &InvalidMessageError{Reason: "unparsable LOCATION: " + loc}
		}
		m.Location = u
	}

	if !m.IsSearch {
		if m.Location == nil && m.NTS != "ssdp:byebye" {
			return nil, &InvalidMessageError{Reason: "missing LOCATION on non-byebye message"}
		}
	}

	return m, nil
}

func splitUSN(usn string) (udn, typ string) {
	idx := strings.Index(usn, "::")
	if idx < 0 {
		return usn, ""
	}
	return usn[:idx], usn[idx+2:]
}

func parseMaxAge(cacheControl string) int {
	for _, directive := range strings.Split(cacheControl, ",") {
		directive = strings.TrimSpace(directive)
		if !strings.HasPrefix(strings.ToLower(directive), "max-age") {
			continue
		}
		parts := strings.SplitN(directive, "=", 2)
		if len(parts) != 2 {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			continue
		}
		return n
	}
	return DefaultMaxAge
}
