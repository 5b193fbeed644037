package ik

import (
	"github.com/pkg/errors"
)

var (
	errNilModel         = errors.New("snapshot requires a robot model")
	errMissingPredictor = errors.New("self collision objective requires a collision predictor in the snapshot")
	errNoArms           = errors.New("objective set requires at least one arm")
)

// NewArmIndexError is returned when an objective refers to an arm the model does not have.
func NewArmIndexError(idx, numArms int) error {
	return errors.Errorf("arm index %d out of range, model has %d arm(s)", idx, numArms)
}

// NewArmCountError is returned when an objective set is used with a model that has more arms than it was built for.
func NewArmCountError(expected, actual int) error {
	return errors.Errorf("objective set expects %d arm(s), model has %d arm(s)", expected, actual)
}

// NewBadGrooveParamsError is returned when the shaping parameters named name cannot produce a usable groove.
func NewBadGrooveParamsError(name, reason string) error {
	return errors.Errorf("invalid groove parameters for %s: %s", name, reason)
}

// NewHistoryLengthError is returned when a temporal history entry does not match the degrees of freedom.
func NewHistoryLengthError(which string, actual, expected int) error {
	return errors.Errorf("history %s has %d values, expected %d", which, actual, expected)
}

// NewGoalCountError is returned when the number of goals does not match the number of arms.
func NewGoalCountError(which string, actual, expected int) error {
	return errors.Errorf("got %d goal %s for %d arm(s)", actual, which, expected)
}

// NewPredictorInputError is returned when a collision predictor takes a different number of inputs than the model
// has degrees of freedom.
func NewPredictorInputError(inputs, dof int) error {
	return errors.Errorf("collision predictor takes %d input(s), model has %d degree(s) of freedom", inputs, dof)
}
