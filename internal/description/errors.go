package description

// ParseError reports a description or SCPD document missing a required
// field or failing to decode as XML.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string { return "description: " + e.Reason }
