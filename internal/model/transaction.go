// Package model defines the core data structures for the smsledger application.
package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UnknownMerchant is the merchant recorded when none could be extracted.
const UnknownMerchant = "Unknown"

// Transaction represents a single financial transaction captured from any source.
type Transaction struct {
	OccurredAt      time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Amount          decimal.Decimal
	ID              string
	Hash            string // Content hash of the normalized message text (SMS only)
	Merchant        string // Canonical merchant name
	MerchantRaw     string // Merchant as extracted from the message
	AccountType     string
	SenderID        string
	Category        string
	Notes           string
	Direction       Direction
	Channel         Channel
	Source          Source
	EntryType       EntryType
	Status          Status
	Confidence      float64 // Aggregate content confidence from the parsing pipeline
	FinalConfidence float64 // Content confidence blended with sender trust
	SenderTrust     float64
	Approved        bool
	NeedsReview     bool // Held for human review because of low confidence
}

// NormalizeContent produces the canonical form of message text used for hashing.
func NormalizeContent(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// ContentHash returns a deterministic digest of the normalized message text.
// Two byte-identical messages always hash to the same value.
func ContentHash(text string) string {
	hash := sha256.Sum256([]byte(NormalizeContent(text)))
	return fmt.Sprintf("%x", hash)
}

// NewID generates a new transaction identifier.
func NewID() string {
	return uuid.NewString()
}

// ManualEntry holds the fields a user supplies when recording a transaction by hand.
type ManualEntry struct {
	OccurredAt  time.Time
	Amount      decimal.Decimal
	Merchant    string
	AccountType string
	Category    string
	Notes       string
	Direction   Direction
	Channel     Channel
}

// NewManualTransaction builds a user-entered transaction. It never passes through
// the validation gate or the parsing pipeline. Entries with a category are treated
// as confirmed by the user; entries without one wait in the review inbox.
func NewManualTransaction(entry ManualEntry, now time.Time) (*Transaction, error) {
	if !entry.Amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive, got %s", entry.Amount.String())
	}

	direction := entry.Direction
	if direction == "" {
		direction = DirectionDebit
	}
	if !direction.IsValid() {
		return nil, fmt.Errorf("invalid direction %q", direction)
	}

	channel := entry.Channel
	if channel == "" {
		channel = ChannelCash
	}
	if !channel.IsValid() {
		return nil, fmt.Errorf("invalid channel %q", channel)
	}

	merchant := strings.TrimSpace(entry.Merchant)
	if merchant == "" {
		merchant = UnknownMerchant
	}

	occurredAt := entry.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}

	txn := &Transaction{
		ID:              NewID(),
		Amount:          entry.Amount,
		Merchant:        merchant,
		MerchantRaw:     merchant,
		AccountType:     entry.AccountType,
		Category:        strings.TrimSpace(entry.Category),
		Notes:           entry.Notes,
		Direction:       direction,
		Channel:         channel,
		Source:          SourceManual,
		EntryType:       EntryUserEntered,
		Status:          StatusDetected,
		Confidence:      1.0,
		FinalConfidence: 1.0,
		SenderTrust:     1.0,
		OccurredAt:      occurredAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if txn.Category != "" {
		txn.Status = StatusConfirmed
		txn.Approved = true
	}

	return txn, nil
}
