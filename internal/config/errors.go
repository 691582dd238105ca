package config

import "fmt"

// StructuralError reports an operation attempted on a node whose tree
// position forbids it, such as adding a child to a site.
type StructuralError struct {
	Reason string
}

func (e *StructuralError) Error() string {
	return e.Reason
}

// LookupError reports a collection lookup miss. The message carries the
// offending id for diagnosability.
type LookupError struct {
	Key string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("collection not found by %q", e.Key)
}
