package types

import (
	"errors"
	"fmt"
)

// ErrUnknownToken is returned by the token registry when a symbol or
// address has no registered token.
var ErrUnknownToken = errors.New("unknown token")

// ProviderError wraps a failed exchange contract query with the method and
// trading pair that produced it. Provider failures propagate to the caller
// unrecovered; only missing data degrades to an absent result.
type ProviderError struct {
	Method string
	Pair   string
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Pair != "" {
		return fmt.Sprintf("dx %s (%s): %v", e.Method, e.Pair, e.Err)
	}
	return fmt.Sprintf("dx %s: %v", e.Method, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
