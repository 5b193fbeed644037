package ik

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"go.viam.com/grooveik/logging"
	"go.viam.com/grooveik/utils"
)

// envPrefix namespaces the environment variables read by ApplyEnvironment.
const envPrefix = "GROOVE_"

// GoalConfig tunes a goal matching objective.
type GoalConfig struct {
	Shape GrooveParams `json:"shape"`
}

// SelfCollisionConfig tunes the learned self collision objective.
type SelfCollisionConfig struct {
	Shape GrooveParams `json:"shape"`
}

// EnvCollisionConfig tunes the environment collision barrier. The barrier coefficient is
// PenaltyScale * (LinkRadius*CutoffFraction)^Power.
type EnvCollisionConfig struct {
	Shape          GrooveParams `json:"shape"`
	PenaltyScale   float64      `json:"penalty_scale"`
	CutoffFraction float64      `json:"cutoff_fraction"`
	Power          int          `json:"power"`
	// MinDistance is the smallest clearance fed to the barrier. Contact and penetration are clamped to it.
	MinDistance float64 `json:"min_distance"`
	// MaxPenalty caps the barrier sum of a single obstacle.
	MaxPenalty float64 `json:"max_penalty"`
	// LiteValue is the raw penalty reported by the lite path, which has no link geometry to check.
	LiteValue float64 `json:"lite_value"`
}

// JointLimitsConfig tunes the joint limit barrier. The full and lite paths use different cutoffs.
type JointLimitsConfig struct {
	Shape      GrooveParams `json:"shape"`
	Scale      float64      `json:"scale"`
	FullCutoff float64      `json:"full_cutoff"`
	LiteCutoff float64      `json:"lite_cutoff"`
	Power      int          `json:"power"`
}

// SmoothnessConfig tunes the velocity, acceleration and jerk objectives.
type SmoothnessConfig struct {
	Shape GrooveParams `json:"shape"`
}

// GradientConfig tunes the finite difference dispatcher.
type GradientConfig struct {
	FullStep float64 `json:"full_step" env:"FD_FULL_STEP"`
	LiteStep float64 `json:"lite_step" env:"FD_LITE_STEP"`
	// Parallelism is the maximum number of joint perturbations evaluated at once. 0 and 1 both evaluate serially.
	Parallelism int `json:"parallelism" env:"FD_PARALLELISM"`
}

// Config holds every tunable constant of the objective layer.
type Config struct {
	Position      GoalConfig          `json:"position"`
	Orientation   GoalConfig          `json:"orientation"`
	SelfCollision SelfCollisionConfig `json:"self_collision"`
	EnvCollision  EnvCollisionConfig  `json:"env_collision"`
	JointLimits   JointLimitsConfig   `json:"joint_limits"`
	Smoothness    SmoothnessConfig    `json:"smoothness"`
	Gradient      GradientConfig      `json:"gradient"`

	Logging []logging.LoggerPatternConfig `json:"logging"`
}

// DefaultConfig returns the reference tuning.
func DefaultConfig() Config {
	return Config{
		Position:      GoalConfig{Shape: GoalGroove},
		Orientation:   GoalConfig{Shape: GoalGroove},
		SelfCollision: SelfCollisionConfig{Shape: CollisionGroove},
		EnvCollision: EnvCollisionConfig{
			Shape:          CollisionGroove,
			PenaltyScale:   0.005,
			CutoffFraction: 0.5,
			Power:          10,
			MinDistance:    1e-6,
			MaxPenalty:     1e60,
			LiteValue:      1.0,
		},
		JointLimits: JointLimitsConfig{
			Shape:      JointLimitGroove,
			Scale:      0.05,
			FullCutoff: 0.9,
			LiteCutoff: 0.85,
			Power:      50,
		},
		Smoothness: SmoothnessConfig{Shape: GoalGroove},
		Gradient: GradientConfig{
			FullStep: 1e-9,
			LiteStep: 1e-7,
		},
	}
}

// Validate returns every problem with the config at once.
func (cfg *Config) Validate() error {
	err := multierr.Combine(
		cfg.Position.Shape.Validate("position"),
		cfg.Orientation.Shape.Validate("orientation"),
		cfg.SelfCollision.Shape.Validate("self_collision"),
		cfg.EnvCollision.Shape.Validate("env_collision"),
		cfg.JointLimits.Shape.Validate("joint_limits"),
		cfg.Smoothness.Shape.Validate("smoothness"),
		cfg.EnvCollision.validate(),
		cfg.JointLimits.validate(),
		cfg.Gradient.validate(),
		logging.ValidatePatterns(cfg.Logging),
	)
	return errors.Wrap(err, "invalid objective config")
}

func (cfg *EnvCollisionConfig) validate() error {
	var err error
	if !positive(cfg.PenaltyScale) {
		err = multierr.Append(err, errors.Errorf("env_collision.penalty_scale must be positive, got %v", cfg.PenaltyScale))
	}
	if !positive(cfg.CutoffFraction) {
		err = multierr.Append(err, errors.Errorf("env_collision.cutoff_fraction must be positive, got %v", cfg.CutoffFraction))
	}
	if cfg.Power <= 0 {
		err = multierr.Append(err, errors.Errorf("env_collision.power must be positive, got %d", cfg.Power))
	}
	if !positive(cfg.MinDistance) {
		err = multierr.Append(err, errors.Errorf("env_collision.min_distance must be positive, got %v", cfg.MinDistance))
	}
	if !positive(cfg.MaxPenalty) {
		err = multierr.Append(err, errors.Errorf("env_collision.max_penalty must be positive, got %v", cfg.MaxPenalty))
	}
	if !utils.IsFinite(cfg.LiteValue) {
		err = multierr.Append(err, errors.Errorf("env_collision.lite_value must be finite, got %v", cfg.LiteValue))
	}
	return err
}

func (cfg *JointLimitsConfig) validate() error {
	var err error
	if cfg.Scale < 0 || !utils.IsFinite(cfg.Scale) {
		err = multierr.Append(err, errors.Errorf("joint_limits.scale must be non-negative, got %v", cfg.Scale))
	}
	for name, cutoff := range map[string]float64{"full_cutoff": cfg.FullCutoff, "lite_cutoff": cfg.LiteCutoff} {
		if !(cutoff > 0 && cutoff <= 1) {
			err = multierr.Append(err, errors.Errorf("joint_limits.%s must be in (0, 1], got %v", name, cutoff))
		}
	}
	if cfg.Power <= 0 || cfg.Power%2 != 0 {
		err = multierr.Append(err, errors.Errorf("joint_limits.power must be a positive even number, got %d", cfg.Power))
	}
	return err
}

func (cfg *GradientConfig) validate() error {
	var err error
	if !positive(cfg.FullStep) {
		err = multierr.Append(err, errors.Errorf("gradient.full_step must be positive, got %v", cfg.FullStep))
	}
	if !positive(cfg.LiteStep) {
		err = multierr.Append(err, errors.Errorf("gradient.lite_step must be positive, got %v", cfg.LiteStep))
	}
	if cfg.Parallelism < 0 {
		err = multierr.Append(err, errors.Errorf("gradient.parallelism must not be negative, got %d", cfg.Parallelism))
	}
	return err
}

func positive(v float64) bool {
	return v > 0 && utils.IsFinite(v)
}

// ConfigFromAttributes decodes an attribute map over DefaultConfig. Keys follow the json tags; unknown keys are an
// error.
func ConfigFromAttributes(attrs map[string]interface{}) (Config, error) {
	cfg := DefaultConfig()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      &cfg,
		ErrorUnused: true,
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(attrs); err != nil {
		return Config{}, errors.Wrap(err, "cannot decode objective config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML or JSON tuning file. Files ending in .json are parsed as JSON and everything else as
// YAML.
func LoadConfigFile(path string) (Config, error) {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "cannot read objective config %q", path)
	}
	attrs := map[string]interface{}{}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &attrs)
	} else {
		err = yaml.Unmarshal(data, &attrs)
	}
	if err != nil {
		return Config{}, errors.Wrapf(err, "cannot parse objective config %q", path)
	}
	return ConfigFromAttributes(attrs)
}

// ApplyEnvironment overrides the gradient settings from GROOVE_FD_FULL_STEP, GROOVE_FD_LITE_STEP and
// GROOVE_FD_PARALLELISM. A nil environ reads the process environment.
func (cfg *Config) ApplyEnvironment(environ map[string]string) error {
	if err := env.ParseWithOptions(&cfg.Gradient, env.Options{Environment: environ, Prefix: envPrefix}); err != nil {
		return errors.Wrap(err, "cannot read gradient settings from environment")
	}
	return cfg.Gradient.validate()
}
