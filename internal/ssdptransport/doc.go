// Package ssdptransport owns the two raw UDP sockets the control point
// speaks SSDP over: a unicast search socket that sends M-SEARCH and
// collects responses, and a multicast notify socket bound to 1900 that
// receives devices' unsolicited NOTIFY announcements. Both are built on
// the same underlying socket lifecycle (closed -> open -> running ->
// stopping -> closed) and hand parsed internal/ssdpmsg.Message values to
// a caller-supplied handler.
package ssdptransport
