package lockbank

import (
	"github.com/iov-one/lockbank/errors"
)

// Fraction represents a rational number, ie. a penalty rate.
type Fraction struct {
	Numerator   uint32 `json:"numerator"`
	Denominator uint32 `json:"denominator"`
}

// Validate returns an error if this fraction represents an invalid value.
func (f Fraction) Validate() error {
	if f.Denominator == 0 {
		return errors.Wrap(errors.ErrState, "zero division")
	}
	return nil
}

// IsProper returns true if the fraction value is within [0, 1].
func (f Fraction) IsProper() bool {
	return f.Denominator != 0 && f.Numerator <= f.Denominator
}
