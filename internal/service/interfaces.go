// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/smsledger/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
// Nil and zero fields do not filter.
type TransactionFilter struct {
	StartDate   *time.Time
	EndDate     *time.Time
	NeedsReview *bool
	Status      model.Status
	Source      model.Source
	Limit       int
	Offset      int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Transaction operations
	SaveTransaction(ctx context.Context, txn *model.Transaction) error
	HashExists(ctx context.Context, hash string) (bool, error)
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	UpdateTransaction(ctx context.Context, txn *model.Transaction) error

	// Merchant operations
	UniqueMerchantNames(ctx context.Context) ([]string, error)
	SaveMerchant(ctx context.Context, merchant *model.Merchant) error
	GetMerchantDisplayName(ctx context.Context, originalName string) (string, error)
	RecordMerchantUse(ctx context.Context, originalName string) error
	ListMerchants(ctx context.Context) ([]model.Merchant, error)
	DeleteMerchant(ctx context.Context, originalName string) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// IngestStats shows the results of an ingestion run.
type IngestStats struct {
	Rejected    map[string]int // Rejection counts keyed by reason
	Total       int
	Saved       int
	Quarantined int
	Duplicates  int
	Failed      int
	Duration    time.Duration
}

// RejectedTotal sums the rejection counts.
func (s IngestStats) RejectedTotal() int {
	total := 0
	for _, n := range s.Rejected {
		total += n
	}
	return total
}
