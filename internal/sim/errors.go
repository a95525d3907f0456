package sim

import (
	"errors"
	"fmt"
)

// Domain errors for simulation requests.
var (
	// ErrInvalidParameters indicates a parameter set that cannot be simulated.
	ErrInvalidParameters = errors.New("sim: invalid parameters")

	// ErrUnknownModel indicates a model identifier outside the supported set.
	ErrUnknownModel = errors.New("sim: unknown model")
)

// ParamError describes the offending field of a rejected parameter set.
type ParamError struct {
	Model  string
	Field  string
	Value  float64
	Reason string
}

func (e *ParamError) Error() string {
	prefix := "invalid parameters"
	if e.Model != "" {
		prefix = fmt.Sprintf("invalid %s parameters", e.Model)
	}
	if e.Reason == "missing" || e.Reason == "unknown field" {
		return fmt.Sprintf("%s: %s: %s", prefix, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s=%g: %s", prefix, e.Field, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParameters
}
