package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Direction indicates whether money left or entered the account.
type Direction string

// Direction constants.
const (
	DirectionDebit  Direction = "DEBIT"
	DirectionCredit Direction = "CREDIT"
)

// IsValid reports whether d is a known direction.
func (d Direction) IsValid() bool {
	return d == DirectionDebit || d == DirectionCredit
}

// Channel is the payment rail a transaction moved over.
type Channel string

// Channel constants.
const (
	ChannelCash Channel = "CASH"
	ChannelUPI  Channel = "UPI"
	ChannelCard Channel = "CARD"
	ChannelBank Channel = "BANK"
)

// IsValid reports whether c is a known channel.
func (c Channel) IsValid() bool {
	switch c {
	case ChannelCash, ChannelUPI, ChannelCard, ChannelBank:
		return true
	}
	return false
}

// Source indicates where a transaction record came from.
type Source string

// Source constants.
const (
	SourceSMS    Source = "SMS"
	SourceManual Source = "MANUAL"
)

// EntryType indicates who produced the transaction's field values.
type EntryType string

// Entry type constants.
const (
	EntryAutoCaptured EntryType = "AUTO_CAPTURED"
	EntryUserEntered  EntryType = "USER_ENTERED"
	EntryUserModified EntryType = "USER_MODIFIED"
)

// Status is the lifecycle state of a transaction.
type Status string

// Status constants.
const (
	StatusDetected  Status = "DETECTED"
	StatusConfirmed Status = "CONFIRMED"
	StatusModified  Status = "MODIFIED"
	StatusIgnored   Status = "IGNORED"
)

// ParseStatus converts user input into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(s)))
	switch status {
	case StatusDetected, StatusConfirmed, StatusModified, StatusIgnored:
		return status, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// ErrIgnored is returned when a transition is attempted on an ignored transaction.
var ErrIgnored = errors.New("transaction has been ignored")

// Confirm records that a user accepted the transaction as detected.
func (t *Transaction) Confirm(category string, now time.Time) error {
	if t.Status == StatusIgnored {
		return ErrIgnored
	}
	if category = strings.TrimSpace(category); category != "" {
		t.Category = category
	}
	t.Status = StatusConfirmed
	t.Approved = true
	t.NeedsReview = false
	t.UpdatedAt = now
	return nil
}

// Ignore records that a user rejected the transaction.
func (t *Transaction) Ignore(now time.Time) {
	t.Status = StatusIgnored
	t.Approved = false
	t.NeedsReview = false
	t.UpdatedAt = now
}

// Modification carries user corrections. Nil fields are left unchanged.
type Modification struct {
	Merchant  *string
	Category  *string
	Direction *Direction
	Channel   *Channel
}

// Modify applies user corrections and approves the result.
func (t *Transaction) Modify(m Modification, now time.Time) error {
	if t.Status == StatusIgnored {
		return ErrIgnored
	}
	if m.Direction != nil {
		if !m.Direction.IsValid() {
			return fmt.Errorf("invalid direction %q", *m.Direction)
		}
		t.Direction = *m.Direction
	}
	if m.Channel != nil {
		if !m.Channel.IsValid() {
			return fmt.Errorf("invalid channel %q", *m.Channel)
		}
		t.Channel = *m.Channel
	}
	if m.Merchant != nil && strings.TrimSpace(*m.Merchant) != "" {
		t.Merchant = strings.TrimSpace(*m.Merchant)
	}
	if m.Category != nil {
		t.Category = strings.TrimSpace(*m.Category)
	}
	t.Status = StatusModified
	t.EntryType = EntryUserModified
	t.Approved = true
	t.NeedsReview = false
	t.UpdatedAt = now
	return nil
}
