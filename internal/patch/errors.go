package patch

import (
	"errors"
	"fmt"
)

var (
	// ErrTargetMissing is returned when a patch's target file does not exist.
	ErrTargetMissing = errors.New("target file not found")
	// ErrUnmatched is returned in strict mode when a rule matched fewer times
	// than it expects.
	ErrUnmatched = errors.New("rule did not match")
)

// RuleError reports a rule that could not be compiled.
type RuleError struct {
	Patch string
	Rule  string
	Err   error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("patch %q rule %q: %v", e.Patch, e.Rule, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}
