package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stage names used as keys for per-field confidence.
const (
	FieldSender    = "sender"
	FieldAmount    = "amount"
	FieldDirection = "direction"
	FieldMerchant  = "merchant"
	FieldChannel   = "channel"
)

// ConfidenceWeights are the fixed weights combining per-field confidence.
// The sender stage is recorded for explainability but carries no weight.
var ConfidenceWeights = map[string]float64{
	FieldAmount:    0.4,
	FieldMerchant:  0.3,
	FieldDirection: 0.2,
	FieldChannel:   0.1,
}

// WeightedFields is the summation order for ConfidenceWeights.
var WeightedFields = []string{FieldAmount, FieldMerchant, FieldDirection, FieldChannel}

// ParsedTransaction is the immutable result of one pipeline run.
type ParsedTransaction struct {
	Amount          *decimal.Decimal
	FieldConfidence map[string]float64
	Merchant        string
	AccountType     string
	Direction       Direction
	Channel         Channel
	Confidence      float64
}

// HasAmount reports whether an amount was extracted.
func (p ParsedTransaction) HasAmount() bool {
	return p.Amount != nil
}

// Message is one raw SMS as delivered to the ingestion worker.
type Message struct {
	ReceivedAt time.Time
	Body       string
	Sender     string
}

// Clamp01 bounds v to [0,1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
