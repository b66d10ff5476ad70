// Package ssdpmsg models a single SSDP datagram — an M-SEARCH request, a
// unicast search response, or a multicast NOTIFY — once it has been
// through internal/httpmsg, deriving the fields the rest of the control
// point actually cares about (UDN, search/notification type, cache
// lifetime, description URL) from the raw headers.
package ssdpmsg
