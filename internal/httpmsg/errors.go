package httpmsg

import "fmt"

// MalformedMessageError is returned when an HTTP/1.x message cannot be
// framed: a missing or short start line, an unparsable chunk size, or an
// unexpected EOF while reading a body whose length was declared up front.
type MalformedMessageError struct {
	Reason string
	Offset int64
}

func (e *MalformedMessageError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("httpmsg: malformed message at offset %d: %s", e.Offset, e.Reason)
	}
	return fmt.Sprintf("httpmsg: malformed message: %s", e.Reason)
}

func malformed(reason string) error {
	return &MalformedMessageError{Reason: reason, Offset: -1}
}

func malformedAt(reason string, offset int64) error {
	return &MalformedMessageError{Reason: reason, Offset: offset}
}
