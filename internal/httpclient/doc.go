// Package httpclient sends and receives the httpmsg messages the control
// point exchanges with devices: SOAP action invocations, description and
// SCPD fetches, and SUBSCRIBE/RENEW/UNSUBSCRIBE requests. It keeps its own
// small connection pool instead of using net/http, because SSDP-discovered
// devices are addressed by raw host:port and the wire framing already
// lives in httpmsg.
package httpclient
