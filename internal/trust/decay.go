package trust

import (
	"math"
	"time"

	"github.com/Veraticus/smsledger/internal/model"
)

// HalfLifeDays is the age at which confidence has halved.
const HalfLifeDays = 365.0

// DefaultValidityThreshold is the effective confidence below which a record
// is no longer considered reliable.
const DefaultValidityThreshold = 0.5

const day = 24 * time.Hour

// Decay returns the decay factor for an age in days. Negative ages clamp to
// 1, NaN maps to 0 and very large ages approach 0.
func Decay(days float64) float64 {
	if math.IsNaN(days) {
		return 0
	}
	if days <= 0 {
		return 1
	}
	return model.Clamp01(math.Exp(-math.Ln2 / HalfLifeDays * days))
}

// EffectiveConfidenceAt decays base by the time elapsed between occurredAt and now.
func EffectiveConfidenceAt(base float64, occurredAt, now time.Time) float64 {
	days := float64(now.Sub(occurredAt)) / float64(day)
	return model.Clamp01(model.Clamp01(base) * Decay(days))
}

// EffectiveConfidence decays base relative to the current time.
func EffectiveConfidence(base float64, occurredAt time.Time) float64 {
	return EffectiveConfidenceAt(base, occurredAt, time.Now())
}

// IsConfidenceValid reports whether the effective confidence is at least threshold.
func IsConfidenceValid(base float64, occurredAt time.Time, threshold float64) bool {
	return EffectiveConfidence(base, occurredAt) >= threshold
}

// IsConfidenceValidAt is IsConfidenceValid against a fixed clock.
func IsConfidenceValidAt(base float64, occurredAt, now time.Time, threshold float64) bool {
	return EffectiveConfidenceAt(base, occurredAt, now) >= threshold
}
