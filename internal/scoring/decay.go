package scoring

import (
	"math"
	"time"
)

// Curve maps a segment's age to an importance multiplier in [0,1].
// Multiplier must be non-increasing in age for a fixed curve.
type Curve interface {
	Multiplier(age time.Duration) float64
	Validate() error
}

// Linear decays importance linearly to zero over Horizon.
type Linear struct {
	Horizon time.Duration
}

func (c Linear) Multiplier(age time.Duration) float64 {
	if age < 0 {
		age = 0
	}
	m := 1 - age.Seconds()/c.Horizon.Seconds()
	if m < 0 {
		return 0
	}
	return m
}

func (c Linear) Validate() error {
	if c.Horizon <= 0 {
		return &ConfigError{Field: "decay.horizon", Reason: "must be positive"}
	}
	return nil
}

// Exponential halves importance every HalfLife.
type Exponential struct {
	HalfLife time.Duration
}

func (c Exponential) Multiplier(age time.Duration) float64 {
	if age < 0 {
		age = 0
	}
	return math.Pow(0.5, age.Seconds()/c.HalfLife.Seconds())
}

func (c Exponential) Validate() error {
	if c.HalfLife <= 0 {
		return &ConfigError{Field: "decay.half_life", Reason: "must be positive"}
	}
	return nil
}

// Step keeps full importance until Threshold, then drops to Floor.
type Step struct {
	Threshold time.Duration
	Floor     float64 // [0,1]
}

func (c Step) Multiplier(age time.Duration) float64 {
	if age < 0 {
		age = 0
	}
	if age < c.Threshold {
		return 1
	}
	return c.Floor
}

func (c Step) Validate() error {
	if c.Threshold <= 0 {
		return &ConfigError{Field: "decay.threshold", Reason: "must be positive"}
	}
	if c.Floor < 0 || c.Floor > 1 {
		return &ConfigError{Field: "decay.floor", Reason: "must be in [0,1]"}
	}
	return nil
}

// DecayedImportance applies the curve's multiplier to a base importance.
// Negative age (clock skew) is treated as zero by the curves themselves.
func DecayedImportance(importance float64, age time.Duration, curve Curve) float64 {
	return clamp01(importance * curve.Multiplier(age))
}

// Compile-time interface checks.
var (
	_ Curve = Linear{}
	_ Curve = Exponential{}
	_ Curve = Step{}
)
