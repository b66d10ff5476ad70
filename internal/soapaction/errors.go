package soapaction

import "strings"

// FaultError reports a SOAP Fault returned by a device. Fields holds
// faultcode, faultstring, and any UPnPError/<childLocalName> pairs
// collected from the Fault's detail.
type FaultError struct {
	Fields map[string]string
}

func (e *FaultError) Error() string {
	var b strings.Builder
	b.WriteString("soapaction: fault")
	if code, ok := e.Fields["UPnPError/errorCode"]; ok {
		b.WriteString(" errorCode=")
		b.WriteString(code)
	}
	if desc, ok := e.Fields["UPnPError/errorDescription"]; ok {
		b.WriteString(" (")
		b.WriteString(desc)
		b.WriteString(")")
	}
	return b.String()
}

// ResponseError reports a malformed or unexpected SOAP response: a
// non-200/500 status, an empty body, or a Fault missing errorCode.
type ResponseError struct {
	Reason string
}

func (e *ResponseError) Error() string { return "soapaction: " + e.Reason }
