package optics

import "fmt"

// InvalidParameterError reports a camera parameter that is out of domain.
// Callers should treat it as a bug on their side: the contract is to pass
// fully validated, same-unit-system values, not to recover a guessed one.
type InvalidParameterError struct {
	Field  string  // which CameraSettings field was invalid
	Value  float64 // the offending value, zero when not applicable
	Reason string
}

func (e *InvalidParameterError) Error() string {
	if e.Value != 0 {
		return fmt.Sprintf("invalid parameter %s=%v: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Reason)
}
