package referenceframe

import (
	"github.com/pkg/errors"
)

// ErrNoModelInformation is used when there is no model information.
var ErrNoModelInformation = errors.New("no model information")

// NewIncorrectDoFError returns an error indicating that a joint vector does not have one value per degree of freedom.
func NewIncorrectDoFError(actual, expected int) error {
	return errors.Errorf("number of inputs does not match degrees of freedom. Expected %d, got %d", expected, actual)
}

// NewBadLimitError returns an error indicating that the limit for degree of freedom i has no usable range.
func NewBadLimitError(i int, limit Limit) error {
	return errors.Errorf("limit %d is invalid, min %.5f must be strictly less than max %.5f", i, limit.Min, limit.Max)
}

// NewUnsupportedJointTypeError returns an error indicating that a joint type is not known.
func NewUnsupportedJointTypeError(jointType string) error {
	return errors.Errorf("unsupported joint type detected: %q", jointType)
}

// NewZeroAxisError returns an error for a joint whose axis has no direction.
func NewZeroAxisError(jointID string) error {
	return errors.Errorf("joint %q has a zero length axis", jointID)
}
