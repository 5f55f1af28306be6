// Package parser turns one SMS body into a structured transaction.
//
// A parse runs a fixed sequence of field stages over a single Context, folds
// their confidences into an aggregate score and, in the Assembler, applies the
// validation gate, the acceptance threshold and sender trust.
package parser

import (
	"maps"

	"github.com/Veraticus/smsledger/internal/model"
	"github.com/shopspring/decimal"
)

// Context is the mutable state of a single parse. It is owned by one
// goroutine for the duration of the parse.
type Context struct {
	Amount      *decimal.Decimal
	Confidence  map[string]float64
	Text        string
	SenderID    string
	Merchant    string
	AccountType string
	Direction   model.Direction
	Channel     model.Channel
}

// NewContext returns an empty context for text.
func NewContext(text, senderID string) *Context {
	return &Context{
		Text:       text,
		SenderID:   senderID,
		Confidence: make(map[string]float64, len(model.ConfidenceWeights)+1),
	}
}

func (c *Context) record(field string, confidence float64) {
	c.Confidence[field] = model.Clamp01(confidence)
}

// Aggregate returns the weighted sum of field confidences, clamped to [0,1].
func (c *Context) Aggregate() float64 {
	total := 0.0
	for _, field := range model.WeightedFields {
		total += model.ConfidenceWeights[field] * c.Confidence[field]
	}
	return model.Clamp01(total)
}

// Result freezes the context into a ParsedTransaction.
func (c *Context) Result() model.ParsedTransaction {
	var amount *decimal.Decimal
	if c.Amount != nil {
		v := *c.Amount
		amount = &v
	}
	return model.ParsedTransaction{
		Amount:          amount,
		Merchant:        c.Merchant,
		AccountType:     c.AccountType,
		Direction:       c.Direction,
		Channel:         c.Channel,
		Confidence:      c.Aggregate(),
		FieldConfidence: maps.Clone(c.Confidence),
	}
}
