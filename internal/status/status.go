// Package status classifies cold-room readings against the fixed storage
// bands and the user's set-point range.
package status

import (
	"errors"
	"fmt"
	"math"
)

// Band is the absolute storage classification of a temperature.
type Band int

const (
	Frozen Band = iota
	OptimalCold
	Caution
	Hot
)

// Band breakpoints in °C. A value on a breakpoint belongs to the lower band.
const (
	FrozenMax  = 0.0
	OptimalMax = 3.0
	CautionMax = 7.0
)

func (b Band) String() string {
	switch b {
	case Frozen:
		return "Frozen"
	case OptimalCold:
		return "Optimal Cold"
	case Caution:
		return "Caution"
	case Hot:
		return "Hot"
	default:
		return "Unknown"
	}
}

// Classify maps a temperature to its storage band.
func Classify(temp float64) Band {
	switch {
	case temp <= FrozenMax:
		return Frozen
	case temp <= OptimalMax:
		return OptimalCold
	case temp <= CautionMax:
		return Caution
	default:
		return Hot
	}
}

// ── Set-point ────────────────────────────────────────────────────────

// Default set-point range shown before the user edits it.
const (
	DefaultMin = 28.0
	DefaultMax = 33.0
)

// ErrInvalidSetPoint is returned when a set-point range is rejected.
var ErrInvalidSetPoint = errors.New("invalid set-point")

// SetPoint is the user-configured acceptable temperature range.
type SetPoint struct {
	Min float64
	Max float64
}

// DefaultSetPoint returns the factory range.
func DefaultSetPoint() SetPoint {
	return SetPoint{Min: DefaultMin, Max: DefaultMax}
}

// IsDefault reports whether the range is still the factory one.
func (s SetPoint) IsDefault() bool {
	return s == DefaultSetPoint()
}

// Validate rejects non-finite bounds and inverted ranges.
func (s SetPoint) Validate() error {
	if !finite(s.Min) || !finite(s.Max) {
		return fmt.Errorf("%w: bounds must be finite numbers", ErrInvalidSetPoint)
	}
	if s.Min > s.Max {
		return fmt.Errorf("%w: min %.1f is above max %.1f", ErrInvalidSetPoint, s.Min, s.Max)
	}
	return nil
}

// Contains reports whether temp lies within [Min, Max]. An inverted
// range contains nothing.
func (s SetPoint) Contains(temp float64) bool {
	return temp >= s.Min && temp <= s.Max
}

// Midpoint returns the centre of the range.
func (s SetPoint) Midpoint() float64 {
	return (s.Min + s.Max) / 2
}

// Tier is the accent classification of a set-point range.
type Tier int

const (
	TierCool Tier = iota
	TierModerate
	TierWarm
)

func (t Tier) String() string {
	switch t {
	case TierCool:
		return "Cool"
	case TierModerate:
		return "Moderate"
	default:
		return "Warm"
	}
}

// Tier buckets the range midpoint: below 15 is cool, up to 25 moderate.
func (s SetPoint) Tier() Tier {
	mid := s.Midpoint()
	switch {
	case mid < 15:
		return TierCool
	case mid <= 25:
		return TierModerate
	default:
		return TierWarm
	}
}

// ── Humidity ─────────────────────────────────────────────────────────

// Humidity is the relative-humidity classification.
type Humidity int

const (
	Dry Humidity = iota
	Normal
	Humid
)

func (h Humidity) String() string {
	switch h {
	case Dry:
		return "Dry"
	case Normal:
		return "Normal"
	default:
		return "Humid"
	}
}

// Advice returns the one-line hint shown under the humidity card.
func (h Humidity) Advice() string {
	switch h {
	case Dry:
		return "Air is too dry"
	case Normal:
		return "Humidity is optimal"
	default:
		return "Watch for condensation"
	}
}

// ClassifyHumidity buckets relative humidity in percent.
func ClassifyHumidity(pct float64) Humidity {
	switch {
	case pct < 40:
		return Dry
	case pct <= 70:
		return Normal
	default:
		return Humid
	}
}

// ── Room condition ───────────────────────────────────────────────────

// Condition is the coarse comfort reading shown on the main card.
type Condition int

const (
	ConditionCold Condition = iota
	ConditionModerate
	ConditionHot
)

func (c Condition) String() string {
	switch c {
	case ConditionCold:
		return "Cold"
	case ConditionModerate:
		return "Moderate"
	default:
		return "Hot"
	}
}

// Summary is the phrase handed to the chat assistant.
func (c Condition) Summary() string {
	switch c {
	case ConditionCold:
		return "Optimally cold"
	case ConditionModerate:
		return "Moderate, needs attention"
	default:
		return "Hot, danger"
	}
}

// RoomCondition classifies the temperature for the main card.
func RoomCondition(temp float64) Condition {
	switch {
	case temp < 28:
		return ConditionCold
	case temp <= 33:
		return ConditionModerate
	default:
		return ConditionHot
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
