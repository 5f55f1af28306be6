// Package storage provides the data persistence layer for smsledger.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/smsledger/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidDateRange   = errors.New("start date must be before end date")
	ErrInvalidStatus      = errors.New("invalid transaction status")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidMerchant    = errors.New("invalid merchant")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if txn.OccurredAt.IsZero() {
		return fmt.Errorf("%w: missing occurrence time", ErrInvalidTransaction)
	}
	if !txn.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidTransaction)
	}
	if strings.TrimSpace(txn.Merchant) == "" {
		return fmt.Errorf("%w: missing merchant", ErrInvalidTransaction)
	}
	if !txn.Direction.IsValid() {
		return fmt.Errorf("%w: direction %q", ErrInvalidTransaction, txn.Direction)
	}
	if !txn.Channel.IsValid() {
		return fmt.Errorf("%w: channel %q", ErrInvalidTransaction, txn.Channel)
	}
	if txn.Source == model.SourceSMS && txn.Hash == "" {
		return fmt.Errorf("%w: SMS transaction without content hash", ErrInvalidTransaction)
	}
	if _, err := model.ParseStatus(string(txn.Status)); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, txn.Status)
	}
	for name, v := range map[string]float64{
		"confidence":       txn.Confidence,
		"final confidence": txn.FinalConfidence,
		"sender trust":     txn.SenderTrust,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s must be between 0 and 1", ErrInvalidTransaction, name)
		}
	}
	return nil
}

// validateMerchant validates a merchant display mapping.
func validateMerchant(merchant *model.Merchant) error {
	if merchant == nil {
		return fmt.Errorf("%w: merchant", ErrNilParameter)
	}
	if strings.TrimSpace(merchant.OriginalName) == "" {
		return fmt.Errorf("%w: missing original name", ErrInvalidMerchant)
	}
	if strings.TrimSpace(merchant.DisplayName) == "" {
		return fmt.Errorf("%w: missing display name", ErrInvalidMerchant)
	}
	return nil
}
