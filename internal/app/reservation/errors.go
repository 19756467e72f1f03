package reservation

import (
	"errors"
	"fmt"
)

type InfraKind string

const (
	InfraTimeout     InfraKind = "TIMEOUT"
	InfraUnavailable InfraKind = "UNAVAILABLE"
)

// InfraError marks a transient infrastructure failure: the scope could not be
// acquired in time or the store misbehaved. It is the only failure category a
// caller should retry; every conflict outcome is terminal for its request.
type InfraError struct {
	Kind InfraKind
	Err  error
}

func (e *InfraError) Error() string {
	return fmt.Sprintf("reservation: infrastructure failure (%s): %v", e.Kind, e.Err)
}

func (e *InfraError) Unwrap() error { return e.Err }

func infraTimeout(err error) error {
	return &InfraError{Kind: InfraTimeout, Err: err}
}

func infraUnavailable(err error) error {
	return &InfraError{Kind: InfraUnavailable, Err: err}
}

// MinStayError rejects bounded requests shorter than the property's minimum.
type MinStayError struct {
	MinimumDays int
	Nights      int
}

func (e MinStayError) Error() string {
	return fmt.Sprintf("reservation: stay of %d nights is below the %d-night minimum", e.Nights, e.MinimumDays)
}

// IsRetryable reports whether the caller may retry the attempt from scratch.
func IsRetryable(err error) bool {
	var infra *InfraError
	return errors.As(err, &infra)
}
