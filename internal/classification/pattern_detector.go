// Package classification decides whether a message describes real money movement
// before any field extraction is attempted.
package classification

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// NoiseType names a family of non-transactional messages.
type NoiseType string

const (
	// NoiseOTP represents one-time passcode and verification messages.
	NoiseOTP NoiseType = "otp"
	// NoiseFailed represents failed, declined or reversed payments.
	NoiseFailed NoiseType = "failed"
	// NoisePromotional represents offers and marketing.
	NoisePromotional NoiseType = "promotional"
	// NoiseAccountAlert represents credit-limit and statement notices.
	NoiseAccountAlert NoiseType = "account_alert"
	// NoiseBalance represents balance announcements.
	NoiseBalance NoiseType = "balance_only"
)

// Pattern describes one kind of noise message.
type Pattern struct {
	Name     string
	Type     NoiseType
	Regex    string
	Priority int // Higher priority patterns are checked first
}

// CompiledPattern holds a compiled regex pattern with metadata.
type CompiledPattern struct {
	compiledRegex *regexp.Regexp
	Pattern
}

// Detector matches text against noise patterns in priority order.
// It is immutable after construction and safe for concurrent use.
type Detector struct {
	patterns []CompiledPattern
}

// NewDetector compiles patterns into a Detector. Patterns are case-insensitive
// unless they already carry flags.
func NewDetector(patterns []Pattern) (*Detector, error) {
	compiled := make([]CompiledPattern, 0, len(patterns))

	for _, p := range patterns {
		regexStr := p.Regex
		if !strings.HasPrefix(regexStr, "(?") {
			regexStr = "(?i)" + regexStr
		}

		regex, err := regexp.Compile(regexStr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern %s: %w", p.Name, err)
		}

		compiled = append(compiled, CompiledPattern{
			Pattern:       p,
			compiledRegex: regex,
		})
	}

	sort.SliceStable(compiled, func(i, j int) bool {
		return compiled[i].Priority > compiled[j].Priority
	})

	return &Detector{patterns: compiled}, nil
}

// Match represents a pattern match result.
type Match struct {
	PatternName string
	Type        NoiseType
}

// Detect returns the highest priority pattern matching text, or nil.
func (d *Detector) Detect(text string) *Match {
	for _, p := range d.patterns {
		if p.compiledRegex.MatchString(text) {
			return &Match{PatternName: p.Name, Type: p.Type}
		}
	}
	return nil
}

// DetectType is Detect restricted to patterns of the given type.
func (d *Detector) DetectType(text string, noiseType NoiseType) *Match {
	for _, p := range d.patterns {
		if p.Type != noiseType {
			continue
		}
		if p.compiledRegex.MatchString(text) {
			return &Match{PatternName: p.Name, Type: p.Type}
		}
	}
	return nil
}

// PatternCount returns the number of loaded patterns.
func (d *Detector) PatternCount() int {
	return len(d.patterns)
}
