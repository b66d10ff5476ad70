package httpmsg

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// RequestLine is the "<METHOD> <URI> HTTP/<ver>" form of a start line.
type RequestLine struct {
	Method  string
	Target  string
	Version string
}

// StatusLine is the "HTTP/<ver> <code> <reason>" form of a start line.
type StatusLine struct {
	Version string
	Code    int
	Reason  string
}

// Message is a parsed HTTP/1.x message: exactly one of Request or Status is
// set, describing which start-line form was seen. Header preserves
// first-seen case; Body has already had chunked/Content-Length framing
// removed.
type Message struct {
	Request *RequestLine
	Status  *StatusLine
	Header  *Header
	Body    []byte
}

// IsRequest reports whether the message carries a request start line.
func (m *Message) IsRequest() bool { return m.Request != nil }

// StartLine renders the start line the way it appeared (or would appear)
// on the wire.
func (m *Message) StartLine() string {
	if m.Request != nil {
		return fmt.Sprintf("%s %s HTTP/%s", m.Request.Method, m.Request.Target, m.Request.Version)
	}
	if m.Status != nil {
		return fmt.Sprintf("HTTP/%s %d %s", m.Status.Version, m.Status.Code, m.Status.Reason)
	}
	return ""
}

// KeepAlive reports whether the connection should be kept open per
// spec.md §4.1: HTTP/1.0 requires an explicit "Connection: keep-alive";
// HTTP/1.1 defaults to keep-alive unless "Connection: close" is present.
func (m *Message) KeepAlive() bool {
	version := "1.1"
	if m.Request != nil {
		version = m.Request.Version
	} else if m.Status != nil {
		version = m.Status.Version
	}
	conn := strings.ToLower(m.Header.Get("Connection"))
	if strings.HasPrefix(version, "1.0") {
		return conn == "keep-alive"
	}
	return conn != "close"
}

// ParseDatagram parses a complete, unframed HTTP message from a single
// buffer — the form SSDP messages arrive in, since UDP delivers whole
// datagrams with no Content-Length/chunked framing to strip.
func ParseDatagram(data []byte) (*Message, error) {
	br := bufio.NewReader(newLimitedReader(data))
	msg, err := parseHeadPortion(br)
	if err != nil {
		return nil, err
	}
	rest, _ := io.ReadAll(br)
	msg.Body = rest
	return msg, nil
}

// ReadMessage reads one framed HTTP message from r: start line, headers,
// then a body sized by Content-Length or unwound from chunked encoding.
// Used for TCP-carried messages (GENA NOTIFY, SOAP requests/responses).
func ReadMessage(r *bufio.Reader) (*Message, error) {
	msg, err := parseHeadPortion(r)
	if err != nil {
		return nil, err
	}

	body, err := readBody(r, msg.Header)
	if err != nil {
		return nil, err
	}
	msg.Body = body
	return msg, nil
}

func newLimitedReader(data []byte) io.Reader {
	return &sliceReader{data: data}
}

type sliceReader struct {
	data []byte
	pos  int
}

func (s *sliceReader) Read(p []byte) (int, error) {
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}
	n := copy(p, s.data[s.pos:])
	s.pos += n
	return n, nil
}

func parseHeadPortion(r *bufio.Reader) (*Message, error) {
	line, err := readLine(r)
	if err != nil {
		return nil, err
	}
	if line == "" {
		return nil, malformed("missing start line")
	}

	msg := &Message{Header: NewHeader()}
	if strings.HasPrefix(line, "HTTP/") {
		status, err := parseStatusLine(line)
		if err != nil {
			return nil, err
		}
		msg.Status = status
	} else {
		req, err := parseRequestLine(line)
		if err != nil {
			return nil, err
		}
		msg.Request = req
	}

	for {
		hline, err := readLine(r)
		if err != nil {
			return nil, err
		}
		if hline == "" {
			break
		}
		name, value, err := splitHeaderLine(hline)
		if err != nil {
			return nil, err
		}
		msg.Header.Add(name, value)
	}

	return msg, nil
}

func parseRequestLine(line string) (*RequestLine, error) {
	parts := strings.Fields(line)
	if len(parts) < 3 {
		return nil, malformed("request line has fewer than 3 tokens: " + line)
	}
	version := strings.TrimPrefix(parts[2], "HTTP/")
	return &RequestLine{Method: parts[0], Target: parts[1], Version: version}, nil
}

func parseStatusLine(line string) (*StatusLine, error) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 3 {
		// Reason phrase may be legitimately absent; require at least code.
		if len(parts) < 2 {
			return nil, malformed("status line has fewer than 3 tokens: " + line)
		}
		parts = append(parts, "")
	}
	version := strings.TrimPrefix(parts[0], "HTTP/")
	code, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, malformed("status line has unparsable status code: " + line)
	}
	return &StatusLine{Version: version, Code: code, Reason: strings.TrimSpace(parts[2])}, nil
}

func splitHeaderLine(line string) (name, value string, err error) {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return "", "", malformed("header line has no colon: " + line)
	}
	name = strings.TrimSpace(line[:idx])
	value = strings.TrimSpace(line[idx+1:])
	return name, value, nil
}

// readLine reads a CRLF- or LF-terminated line, with the terminator
// stripped, returning io.EOF only if no bytes at all were read.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
