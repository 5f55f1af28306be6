package parser

import (
	"strings"

	"github.com/Veraticus/smsledger/internal/model"
	"github.com/Veraticus/smsledger/internal/pattern"
)

// Stage extracts one field into the context and returns its confidence.
type Stage struct {
	Run  func(*Context) float64
	Name string
}

// Stage confidences.
const (
	directionConfidence          = 0.9
	ambiguousDirectionConfidence = 0.6
	channelConfidence            = 0.9
	defaultChannelConfidence     = 0.5
)

// DefaultStages is the fixed stage order.
func DefaultStages() []Stage {
	return []Stage{
		{Name: model.FieldSender, Run: classifySender},
		{Name: model.FieldAmount, Run: extractAmount},
		{Name: model.FieldDirection, Run: detectDirection},
		{Name: model.FieldMerchant, Run: extractMerchant},
		{Name: model.FieldChannel, Run: detectChannel},
	}
}

// classifySender looks the sender up in the bank and wallet table, falling back
// to the message body when no sender was supplied.
func classifySender(c *Context) float64 {
	source := c.SenderID
	if strings.TrimSpace(source) == "" {
		source = c.Text
	}

	confidence := pattern.DefaultSenderConfidence
	if entry, ok := pattern.LookupSender(source); ok {
		confidence = entry.Confidence
		c.AccountType = entry.AccountType
	}

	if strings.Contains(strings.ToLower(c.Text), "credit card") {
		c.AccountType = pattern.AccountCreditCard
	}
	return confidence
}

func extractAmount(c *Context) float64 {
	value, _, ok := pattern.FindAmount(c.Text)
	if !ok {
		return 0
	}
	c.Amount = &value
	return 1
}

// detectDirection compares raw substring counts of debit and credit keywords.
// A tie with any hits leans DEBIT at reduced confidence.
func detectDirection(c *Context) float64 {
	debits := pattern.CountOccurrences(c.Text, pattern.DebitKeywords)
	credits := pattern.CountOccurrences(c.Text, pattern.CreditKeywords)

	switch {
	case debits > credits:
		c.Direction = model.DirectionDebit
		return directionConfidence
	case credits > debits:
		c.Direction = model.DirectionCredit
		return directionConfidence
	case debits > 0:
		c.Direction = model.DirectionDebit
		return ambiguousDirectionConfidence
	default:
		return 0
	}
}

func extractMerchant(c *Context) float64 {
	name, confidence, ok := pattern.FindMerchant(c.Text)
	if !ok {
		return 0
	}
	c.Merchant = name
	return confidence
}

// detectChannel defaults to UPI, the most common rail, when no keyword matches.
func detectChannel(c *Context) float64 {
	for _, rule := range pattern.ChannelRules {
		if rule.Set.Matches(c.Text) {
			c.Channel = rule.Channel
			return channelConfidence
		}
	}
	c.Channel = model.ChannelUPI
	return defaultChannelConfidence
}
