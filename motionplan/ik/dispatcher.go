package ik

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/grooveik/logging"
	"go.viam.com/grooveik/referenceframe"
	"go.viam.com/grooveik/utils"
)

// Dispatcher produces gradients for any Objective. Objectives that report Analytic supply their own; every other
// objective is differentiated by forward differences, re-running the kinematics once per joint.
type Dispatcher struct {
	cfg    GradientConfig
	logger logging.Logger
}

// NewDispatcher returns a dispatcher using the step sizes and parallelism of cfg.
func NewDispatcher(cfg GradientConfig, logger logging.Logger) *Dispatcher {
	return &Dispatcher{cfg: cfg, logger: logger}
}

// Config returns the gradient settings in use.
func (d *Dispatcher) Config() GradientConfig {
	return d.cfg
}

// Gradient returns the cost of obj at x and its gradient along the full path. frames must be the link frames of x.
func (d *Dispatcher) Gradient(obj Objective, x []float64, snap *Snapshot, frames []referenceframe.LinkFrames) CostSample {
	var sample CostSample
	if aobj, ok := obj.(AnalyticObjective); ok && obj.GradientKind() == Analytic {
		sample = aobj.AnalyticGradient(x, snap, frames)
	} else {
		sample = d.FiniteDifferenceGradient(obj, x, snap, frames)
	}
	d.checkFinite(obj, sample, "full")
	return sample
}

// GradientLite returns the cost of obj at x and its gradient along the lite path. poses must be the end effector
// poses of x.
func (d *Dispatcher) GradientLite(
	obj Objective, x []float64, snap *Snapshot, poses []referenceframe.EndEffectorPose,
) CostSample {
	var sample CostSample
	if aobj, ok := obj.(AnalyticObjective); ok && obj.GradientKind() == Analytic {
		sample = aobj.AnalyticGradientLite(x, snap, poses)
	} else {
		sample = d.FiniteDifferenceGradientLite(obj, x, snap, poses)
	}
	d.checkFinite(obj, sample, "lite")
	return sample
}

// FiniteDifferenceGradient differentiates obj along the full path regardless of its GradientKind. Each step moves
// one joint by FullStep and recomputes the link frames.
func (d *Dispatcher) FiniteDifferenceGradient(
	obj Objective, x []float64, snap *Snapshot, frames []referenceframe.LinkFrames,
) CostSample {
	base := obj.Evaluate(x, snap, frames)
	return d.forwardDifferences(base, x, d.cfg.FullStep, func(shifted []float64) float64 {
		return obj.Evaluate(shifted, snap, snap.Model().Frames(shifted))
	})
}

// FiniteDifferenceGradientLite differentiates obj along the lite path regardless of its GradientKind. Each step
// moves one joint by LiteStep and recomputes the end effector poses.
func (d *Dispatcher) FiniteDifferenceGradientLite(
	obj Objective, x []float64, snap *Snapshot, poses []referenceframe.EndEffectorPose,
) CostSample {
	base := obj.EvaluateLite(x, snap, poses)
	return d.forwardDifferences(base, x, d.cfg.LiteStep, func(shifted []float64) float64 {
		return obj.EvaluateLite(shifted, snap, snap.Model().EndEffectorPoses(shifted))
	})
}

func (d *Dispatcher) forwardDifferences(base float64, x []float64, step float64, eval func([]float64) float64) CostSample {
	grad := make([]float64, len(x))
	if d.cfg.Parallelism <= 1 || len(x) <= 1 {
		shifted := append([]float64(nil), x...)
		for i := range shifted {
			shifted[i] += step
			grad[i] = (eval(shifted) - base) / step
			shifted[i] = x[i]
		}
		return CostSample{Cost: base, Gradient: grad}
	}

	// Each perturbation owns its copy of x and writes a distinct element of grad.
	runInParallel(len(x), d.cfg.Parallelism, func(i int) {
		shifted := append([]float64(nil), x...)
		shifted[i] += step
		grad[i] = (eval(shifted) - base) / step
	})
	return CostSample{Cost: base, Gradient: grad}
}

// runInParallel calls f for every index in [0, n). If any call panics, the first captured panic value is raised
// again on the calling goroutine once every call has finished.
func runInParallel(n, limit int, f func(i int)) {
	err := utils.ForEachInParallel(n, limit, func(i int) error {
		f(i)
		return nil
	})
	if err == nil {
		return
	}
	for _, e := range multierr.Errors(err) {
		var pe *utils.PanicError
		if errors.As(e, &pe) {
			panic(pe.Value)
		}
	}
	panic(err)
}

func (d *Dispatcher) checkFinite(obj Objective, sample CostSample, path string) {
	if utils.IsFinite(sample.Cost) && utils.AllFinite(sample.Gradient) {
		return
	}
	d.logger.Warnw("objective produced a non-finite value",
		"objective", obj.Name(),
		"path", path,
		"gradient_kind", obj.GradientKind().String(),
		"cost", sample.Cost,
	)
}
