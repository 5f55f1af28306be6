package classification

import (
	"fmt"
	"strings"

	"github.com/Veraticus/smsledger/internal/pattern"
)

// Reason explains why the gate rejected a message.
type Reason string

// Rejection reasons, in the order the gate checks them.
const (
	ReasonBlank           Reason = "blank"
	ReasonNoMoneyMovement Reason = "no_money_movement"
	ReasonOTP             Reason = Reason(NoiseOTP)
	ReasonFailed          Reason = Reason(NoiseFailed)
	ReasonPromotional     Reason = Reason(NoisePromotional)
	ReasonAccountAlert    Reason = Reason(NoiseAccountAlert)
	ReasonBalanceOnly     Reason = Reason(NoiseBalance)
)

// Verdict is the outcome of evaluating one message. Reason and Pattern are
// empty when the message is accepted.
type Verdict struct {
	Reason   Reason
	Pattern  string
	Accepted bool
}

// noiseOrder is the order in which noise families are checked.
var noiseOrder = []NoiseType{
	NoiseOTP,
	NoiseFailed,
	NoisePromotional,
	NoiseAccountAlert,
}

// Gate filters obvious non-transactions. It has no side effects and is safe
// for concurrent use.
type Gate struct {
	detector *Detector
}

// NewGate builds a gate from the default noise patterns plus any extra ones.
func NewGate(extra ...Pattern) (*Gate, error) {
	patterns := append(DefaultPatterns(), extra...)
	detector, err := NewDetector(patterns)
	if err != nil {
		return nil, fmt.Errorf("failed to build gate: %w", err)
	}
	return &Gate{detector: detector}, nil
}

// DefaultGate returns a gate over the built-in patterns.
func DefaultGate() *Gate {
	gate, err := NewGate()
	if err != nil {
		panic(err)
	}
	return gate
}

// ShouldAccept reports whether text looks like a real money movement.
// Acceptance does not guarantee that extraction will succeed.
func (g *Gate) ShouldAccept(text string) bool {
	return g.Evaluate(text).Accepted
}

// Evaluate runs the gate and reports the first rule that rejected text.
func (g *Gate) Evaluate(text string) Verdict {
	if strings.TrimSpace(text) == "" {
		return Verdict{Reason: ReasonBlank}
	}

	if !pattern.TransactionVerbs.Matches(text) && !pattern.RailKeywords.Matches(text) {
		return Verdict{Reason: ReasonNoMoneyMovement}
	}

	for _, noiseType := range noiseOrder {
		if m := g.detector.DetectType(text, noiseType); m != nil {
			return Verdict{Reason: Reason(m.Type), Pattern: m.PatternName}
		}
	}

	// Balance mentions alone never imply a transaction.
	if m := g.detector.DetectType(text, NoiseBalance); m != nil && !pattern.StrongVerbs.Matches(text) {
		return Verdict{Reason: ReasonBalanceOnly, Pattern: m.PatternName}
	}

	return Verdict{Accepted: true}
}
