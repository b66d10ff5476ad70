// Package description fetches and parses UPnP device description and
// SCPD documents into internal/model builders. XML is decoded with
// encoding/xml, matching elements by local name only so a document's
// choice of namespace prefix (or lack of one) never matters — the same
// leniency spec.md §4.5 asks for and the pack's own SOAP handlers use.
package description
