package trust

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestModel_Score(t *testing.T) {
	m := NewModel(nil)

	tests := []struct {
		name   string
		sender string
		want   float64
	}{
		{name: "empty", sender: "", want: UnknownScore},
		{name: "blank", sender: "   ", want: UnknownScore},
		{name: "exact", sender: "HDFCBK", want: 0.95},
		{name: "operator prefix", sender: "VM-HDFCBK", want: 0.95},
		{name: "lower case", sender: "ad-icicib", want: 0.95},
		{name: "wallet", sender: "JD-PAYTMB", want: 0.85},
		{name: "fragment", sender: "BZ-HDFCCC", want: 0.85},
		{name: "generic bank", sender: "TM-FOOBNK", want: 0.70},
		{name: "phone number", sender: "+919876543210", want: UnknownScore},
		{name: "unknown", sender: "VK-SHOPPR", want: UnknownScore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, m.Score(tt.sender), 1e-9)
		})
	}
}

func TestModel_ExactBeatsSubstring(t *testing.T) {
	m := NewModel([]Entry{
		{Key: "BANK", Score: 0.6},
		{Key: "MYBANK", Score: 0.9},
	})

	assert.InDelta(t, 0.9, m.Score("MYBANK"), 1e-9)
	// First contained key wins when nothing matches exactly.
	assert.InDelta(t, 0.6, m.Score("XX-MYBANKX"), 1e-9)
}

func TestNewModel_ClampsAndSkipsBlank(t *testing.T) {
	m := NewModel([]Entry{
		{Key: " ", Score: 1},
		{Key: "over", Score: 4},
	})
	assert.Len(t, m.entries, 1)
	assert.InDelta(t, 1.0, m.Score("OVER"), 1e-9)
}

func TestModel_FinalConfidence(t *testing.T) {
	m := NewModel(nil)

	assert.InDelta(t, 0.91*0.7+0.95*0.3, m.FinalConfidence(0.91, "VM-HDFCBK"), 1e-9)
	assert.InDelta(t, 0.5*0.7+0.5*0.3, m.FinalConfidence(0.5, ""), 1e-9)
	assert.InDelta(t, 0.95*0.3, m.FinalConfidence(-2, "HDFCBK"), 1e-9)
	assert.LessOrEqual(t, m.FinalConfidence(7, "HDFCBK"), 1.0)
}

func TestNormalizeSender(t *testing.T) {
	assert.Equal(t, "HDFCBK", NormalizeSender(" vm-hdfcbk "))
	assert.Equal(t, "HDFCBK", NormalizeSender("HDFCBK"))
	assert.Equal(t, "1-HDFC", NormalizeSender("1-hdfc"))
	assert.Equal(t, "AD-", NormalizeSender("AD-"))
}

func TestDecay(t *testing.T) {
	assert.InDelta(t, 1.0, Decay(0), 1e-9)
	assert.InDelta(t, 0.5, Decay(365), 1e-9)
	assert.InDelta(t, 0.25, Decay(730), 1e-9)
	assert.InDelta(t, 1.0, Decay(-30), 1e-9)
	assert.InDelta(t, 0.0, Decay(math.Inf(1)), 1e-9)
	assert.InDelta(t, 0.0, Decay(1e12), 1e-9)
	assert.InDelta(t, 0.0, Decay(math.NaN()), 1e-9)
}

func TestEffectiveConfidenceAt(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		occurredAt time.Time
		name       string
		base       float64
		want       float64
	}{
		{name: "fresh", base: 0.8, occurredAt: now, want: 0.8},
		{name: "one half life", base: 0.8, occurredAt: now.Add(-365 * day), want: 0.4},
		{name: "future timestamp", base: 0.8, occurredAt: now.Add(30 * day), want: 0.8},
		{name: "ancient", base: 1, occurredAt: time.Date(1800, 1, 1, 0, 0, 0, 0, time.UTC), want: 0},
		{name: "base above one", base: 3, occurredAt: now, want: 1},
		{name: "negative base", base: -1, occurredAt: now, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveConfidenceAt(tt.base, tt.occurredAt, now)
			assert.InDelta(t, tt.want, got, 1e-6)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestIsConfidenceValid(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, IsConfidenceValidAt(0.9, now.Add(-30*day), now, DefaultValidityThreshold))
	assert.False(t, IsConfidenceValidAt(0.9, now.Add(-2*365*day), now, DefaultValidityThreshold))
	assert.True(t, IsConfidenceValid(0.9, time.Now(), DefaultValidityThreshold))
}
