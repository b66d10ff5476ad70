package httpmsg

import (
	"bytes"
	"strconv"
)

// NewRequest builds a request Message with a fresh Header and, if body is
// non-empty, a Content-Length header set to its length. Callers add
// further headers before writing.
func NewRequest(method, target, version string, body []byte) *Message {
	h := NewHeader()
	if len(body) > 0 {
		h.Set("Content-Length", strconv.Itoa(len(body)))
	}
	return &Message{
		Request: &RequestLine{Method: method, Target: target, Version: version},
		Header:  h,
		Body:    body,
	}
}

// NewResponse builds a response Message analogous to NewRequest.
func NewResponse(version string, code int, reason string, body []byte) *Message {
	h := NewHeader()
	if len(body) > 0 {
		h.Set("Content-Length", strconv.Itoa(len(body)))
	}
	return &Message{
		Status: &StatusLine{Version: version, Code: code, Reason: reason},
		Header: h,
		Body:   body,
	}
}

// Bytes serializes the message to its wire form: start line, headers, a
// blank line, then the body verbatim. It does not apply chunked encoding —
// callers that need chunked framing write the head with Bytes and stream
// the body separately with WriteChunked.
func (m *Message) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString(m.StartLine())
	buf.WriteString("\r\n")
	m.Header.Each(func(name, value string) {
		buf.WriteString(name)
		buf.WriteString(": ")
		buf.WriteString(value)
		buf.WriteString("\r\n")
	})
	buf.WriteString("\r\n")
	buf.Write(m.Body)
	return buf.Bytes()
}
