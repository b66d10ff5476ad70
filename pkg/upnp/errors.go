package upnp

import (
	"errors"
	"fmt"

	"github.com/nyxio/upnpcp/internal/description"
	"github.com/nyxio/upnpcp/internal/gena"
	"github.com/nyxio/upnpcp/internal/httpclient"
	"github.com/nyxio/upnpcp/internal/model"
	"github.com/nyxio/upnpcp/internal/soapaction"
)

// TransportError reports a socket- or HTTP-level failure: a dial that
// never connected, a read that timed out, or a socket that could not be
// opened.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("upnp: %s: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// MalformedMessageError reports a response or notification that failed
// to parse as well-formed HTTP or XML.
type MalformedMessageError struct {
	Reason string
	Err    error
}

func (e *MalformedMessageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upnp: malformed message: %s: %v", e.Reason, e.Err)
	}
	return "upnp: malformed message: " + e.Reason
}
func (e *MalformedMessageError) Unwrap() error { return e.Err }

// ProtocolError reports a response missing a required UPnP header or
// element, or a RENEW that came back with a mismatched SID.
type ProtocolError struct {
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upnp: protocol error: %s: %v", e.Reason, e.Err)
	}
	return "upnp: protocol error: " + e.Reason
}
func (e *ProtocolError) Unwrap() error { return e.Err }

// SoapFaultError reports a well-formed SOAP Fault returned in place of an
// action's result. Fault exposes the Fault's fields for callers who want
// to inspect errorCode/errorDescription without a type switch.
type SoapFaultError struct {
	Fields map[string]string
}

func (e *SoapFaultError) Error() string {
	if code, ok := e.Fields["UPnPError/errorCode"]; ok {
		return "upnp: soap fault: errorCode=" + code
	}
	return "upnp: soap fault"
}

// Fault returns the Fault's fields, e.g. "UPnPError/errorCode".
func (e *SoapFaultError) Fault() map[string]string { return e.Fields }

// BuildError reports a description document missing a field an Action,
// Argument, Service, or Device requires.
type BuildError struct {
	Reason string
	Err    error
}

func (e *BuildError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upnp: build error: %s: %v", e.Reason, e.Err)
	}
	return "upnp: build error: " + e.Reason
}
func (e *BuildError) Unwrap() error { return e.Err }

// wrapInvokeError maps internal/soapaction and internal/httpclient error
// types onto the exported taxonomy, per spec.md §7.
func wrapInvokeError(err error) error {
	if err == nil {
		return nil
	}
	var fault *soapaction.FaultError
	if errors.As(err, &fault) {
		return &SoapFaultError{Fields: fault.Fields}
	}
	var resp *soapaction.ResponseError
	if errors.As(err, &resp) {
		return &ProtocolError{Reason: resp.Reason}
	}
	return wrapTransportError("invoke", err)
}

// wrapSubscribeError maps internal/gena and internal/httpclient error
// types onto the exported taxonomy.
func wrapSubscribeError(op string, err error) error {
	if err == nil {
		return nil
	}
	var mismatch *gena.MismatchedSIDError
	if errors.As(err, &mismatch) {
		return &ProtocolError{Reason: mismatch.Error()}
	}
	var sub *gena.SubscribeError
	if errors.As(err, &sub) {
		return &ProtocolError{Reason: sub.Reason}
	}
	return wrapTransportError(op, err)
}

func wrapTransportError(op string, err error) error {
	var connErr *httpclient.ConnectError
	if errors.As(err, &connErr) {
		return &TransportError{Op: op, Err: err}
	}
	var timeoutErr *httpclient.TimeoutError
	if errors.As(err, &timeoutErr) {
		return &TransportError{Op: op, Err: err}
	}
	var malformed *httpclient.MalformedResponse
	if errors.As(err, &malformed) {
		return &MalformedMessageError{Reason: "malformed response", Err: err}
	}
	return err
}

// wrapFetchError maps internal/description and internal/model build
// failures onto the exported taxonomy, for logging at the orchestrator.
func wrapFetchError(err error) error {
	if err == nil {
		return nil
	}
	var parseErr *description.ParseError
	if errors.As(err, &parseErr) {
		return &MalformedMessageError{Reason: parseErr.Error()}
	}
	var buildErr *model.BuildError
	if errors.As(err, &buildErr) {
		return &BuildError{Reason: buildErr.Error()}
	}
	return wrapTransportError("description fetch", err)
}
