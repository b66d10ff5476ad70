// Package httpmsg implements the slice of HTTP/1.x message framing the
// control point needs: start lines (request and response forms), headers
// that preserve first-seen case on the wire but look up case-insensitively,
// and bodies delivered either by Content-Length or chunked transfer
// encoding. It intentionally does not implement everything net/http does —
// no redirects, no cookie jars, no multipart — because SSDP, GENA and SOAP
// messages are all short, single-body HTTP/1.x exchanges.
package httpmsg
