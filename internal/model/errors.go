package model

import "fmt"

// BuildError reports a description document missing a required field, or
// an Argument whose relatedStateVariable does not exist in its Service.
type BuildError struct {
	Entity string
	Reason string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("model: cannot build %s: %s", e.Entity, e.Reason)
}
