package models

import "fmt"

// ValidationError reports input that breaks a grid or stats invariant
type ValidationError struct {
	Field  string
	Row    int // Offending row index, -1 when not row specific
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("invalid %s: row %d: %s", e.Field, e.Row, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
