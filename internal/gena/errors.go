package gena

import "fmt"

// SubscribeError reports a failed SUBSCRIBE/RENEW/UNSUBSCRIBE exchange:
// a non-200 response, or a response missing a required header.
type SubscribeError struct {
	Op     string
	Reason string
}

func (e *SubscribeError) Error() string {
	return fmt.Sprintf("gena: %s: %s", e.Op, e.Reason)
}

// MismatchedSIDError reports a RENEW response whose SID does not match
// the subscription being renewed, per spec.md §4.7.
type MismatchedSIDError struct {
	Want, Got string
}

func (e *MismatchedSIDError) Error() string {
	return fmt.Sprintf("gena: renew returned SID %q, want %q", e.Got, e.Want)
}

// UnknownSubscriptionError is returned by an EventHandler when a NOTIFY
// arrives for a SID the caller does not recognize; the receiver reports
// this to the device as 412 Precondition Failed.
type UnknownSubscriptionError struct {
	SID string
}

func (e *UnknownSubscriptionError) Error() string {
	return "gena: unknown subscription " + e.SID
}

// MalformedNotifyError reports a NOTIFY request missing a required
// header or carrying an unparsable body.
type MalformedNotifyError struct {
	Reason string
}

func (e *MalformedNotifyError) Error() string { return "gena: " + e.Reason }
