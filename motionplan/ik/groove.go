// Package ik scores candidate joint configurations for an inverse kinematics solver. Every cost term maps a raw
// error onto the same "groove" shape and reports either a finite difference or an analytic gradient.
package ik

import (
	"math"

	"go.uber.org/multierr"

	"go.viam.com/grooveik/utils"
)

// GrooveParams parameterizes the groove loss
//
//	loss(x) = -exp(-(x-T)^D / (2*C^2)) + F*(x-T)^G
//
// With F = 0 the minimum is exactly -1 at x = T. The polynomial term keeps the slope informative far from T.
type GrooveParams struct {
	T float64 `json:"t"`
	D int     `json:"d"`
	C float64 `json:"c"`
	F float64 `json:"f"`
	G int     `json:"g"`
}

// Shaping tuples for each family of cost term.
var (
	GoalGroove       = GrooveParams{T: 0, D: 2, C: 0.1, F: 10, G: 2}
	CollisionGroove  = GrooveParams{T: 0, D: 2, C: 2.1, F: 0.0002, G: 4}
	JointLimitGroove = GrooveParams{T: 0, D: 2, C: 0.3295, F: 0.1, G: 2}
)

// Loss evaluates the groove at x.
func (p GrooveParams) Loss(x float64) float64 {
	return GrooveLoss(x, p.T, p.D, p.C, p.F, p.G)
}

// Derivative evaluates d(Loss)/dx at x.
func (p GrooveParams) Derivative(x float64) float64 {
	return GrooveLossDerivative(x, p.T, p.D, p.C, p.F, p.G)
}

// Min is the value of the groove at its target.
func (p GrooveParams) Min() float64 {
	return p.Loss(p.T)
}

// Validate checks that the exponents are non-negative and the width is a non-zero finite number.
func (p GrooveParams) Validate(name string) error {
	var err error
	if p.D < 0 || p.G < 0 {
		err = multierr.Append(err, NewBadGrooveParamsError(name, "exponents d and g must be non-negative"))
	}
	if p.C == 0 || !utils.IsFinite(p.C) {
		err = multierr.Append(err, NewBadGrooveParamsError(name, "width c must be a non-zero finite number"))
	}
	if !utils.IsFinite(p.T) || !utils.IsFinite(p.F) {
		err = multierr.Append(err, NewBadGrooveParamsError(name, "target t and trend f must be finite"))
	}
	return err
}

// GrooveLoss is -exp(-(x-t)^d / (2c^2)) + f*(x-t)^g.
func GrooveLoss(x, t float64, d int, c, f float64, g int) float64 {
	e := x - t
	return -math.Exp(-utils.Powi(e, d)/(2*c*c)) + f*utils.Powi(e, g)
}

// GrooveLossDerivative is the closed form derivative of GrooveLoss with respect to x,
//
//	-exp(-(x-t)^d / (2c^2)) * (-d*(x-t)^(d-1) / (2c^2)) + g*f*(x-t)^(g-1)
//
// A zero exponent contributes a constant and so nothing to the slope.
func GrooveLossDerivative(x, t float64, d int, c, f float64, g int) float64 {
	e := x - t
	var bowl, trend float64
	if d > 0 {
		bowl = -math.Exp(-utils.Powi(e, d)/(2*c*c)) * (-float64(d) * utils.Powi(e, d-1) / (2 * c * c))
	}
	if g > 0 {
		trend = float64(g) * f * utils.Powi(e, g-1)
	}
	return bowl + trend
}
