package ik

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/grooveik/referenceframe"
	"go.viam.com/grooveik/spatialmath"
	"go.viam.com/grooveik/utils"
)

// The functions below produce the raw, unshaped error of each objective. Lower is better and zero means the term is
// fully satisfied.

// PositionError is the Euclidean distance between an end effector position and its goal.
func PositionError(pos, goal r3.Vector) float64 {
	return pos.Sub(goal).Norm()
}

// OrientationError is the angle in radians between an orientation and its goal. Both q and -q are tried and the
// smaller angle is kept so the error does not jump when the sign of q flips.
func OrientationError(q, goal quat.Number) float64 {
	return spatialmath.ShortestAngleBetween(goal, q)
}

// JointLimitPenalty sums a*n^power over every joint, where n in [-1, 1] is the joint's position within its range
// (0 at the midpoint) and a = scale/cutoff^power. The penalty is negligible inside cutoff and climbs steeply beyond
// it.
func JointLimitPenalty(x []float64, limits []referenceframe.Limit, scale, cutoff float64, power int) float64 {
	a := scale / utils.Powi(cutoff, power)
	sum := 0.
	for i, l := range limits {
		r := (x[i] - l.Min) / l.Range()
		n := 2 * (r - 0.5)
		sum += a * utils.Powi(n, power)
	}
	return sum
}

// EnvCollisionPenalty returns the worst per-obstacle barrier over one arm's links. For each obstacle it sums
// a/dist^power over every consecutive pair of frames, where dist is the clearance between the obstacle and the link
// capsule clamped below at minDist. Each per-obstacle sum is capped at maxPenalty.
func EnvCollisionPenalty(frames referenceframe.LinkFrames, env Environment, cfg EnvCollisionConfig) float64 {
	cutoff := env.LinkRadius * cfg.CutoffFraction
	a := cfg.PenaltyScale * utils.Powi(cutoff, cfg.Power)

	worst := 0.
	for _, obstacle := range env.Obstacles {
		sum := 0.
		for j := 0; j+1 < frames.Len(); j++ {
			dist := obstacle.SegmentDistance(frames.Positions[j], frames.Positions[j+1]) - env.LinkRadius
			dist = math.Max(dist, cfg.MinDistance)
			sum += a / utils.Powi(dist, cfg.Power)
		}
		worst = math.Max(worst, math.Min(sum, cfg.MaxPenalty))
	}
	return worst
}

// VelocityError is |x - xopt|.
func VelocityError(x []float64, h History) float64 {
	return floats.Distance(x, h.XOpt, 2)
}

// AccelerationError is |(x - xopt) - (xopt - prev)|.
func AccelerationError(x []float64, h History) float64 {
	sum := 0.
	for i := range x {
		sum += utils.Square(x[i] - 2*h.XOpt[i] + h.Prev[i])
	}
	return math.Sqrt(sum)
}

// JerkError is the norm of the third difference across x, xopt, prev and prev2.
func JerkError(x []float64, h History) float64 {
	sum := 0.
	for i := range x {
		sum += utils.Square(x[i] - 3*h.XOpt[i] + 3*h.Prev[i] - h.Prev2[i])
	}
	return math.Sqrt(sum)
}
