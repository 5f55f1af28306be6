// Package ingest turns raw SMS messages into stored ledger transactions.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/smsledger/internal/common"
	"github.com/Veraticus/smsledger/internal/merchant"
	"github.com/Veraticus/smsledger/internal/model"
	"github.com/Veraticus/smsledger/internal/parser"
	"github.com/Veraticus/smsledger/internal/service"
)

// Status names what happened to one message.
type Status string

// Outcome statuses.
const (
	StatusSaved       Status = "saved"
	StatusQuarantined Status = "quarantined"
	StatusDuplicate   Status = "duplicate"
	StatusRejected    Status = "rejected"
)

// Outcome is the result of processing one message.
type Outcome struct {
	Transaction *model.Transaction
	Status      Status
	Rejection   parser.Rejection
}

// Config holds configuration options for the worker.
type Config struct {
	Retry           service.RetryOptions
	ReviewThreshold float64 // Saved transactions below this final confidence need review
	Workers         int     // Parallel workers used by ProcessBatch
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Retry:           common.DefaultRetryOptions(),
		ReviewThreshold: 0.7,
		Workers:         1,
	}
}

// Worker runs messages through the assembler and stores the results.
type Worker struct {
	storage   service.Storage
	assembler *parser.Assembler
	resolver  *merchant.Resolver
	config    Config
}

// New creates a worker with the default configuration.
func New(storage service.Storage, assembler *parser.Assembler, resolver *merchant.Resolver) *Worker {
	return NewWithConfig(storage, assembler, resolver, DefaultConfig())
}

// NewWithConfig creates a worker with custom configuration.
func NewWithConfig(storage service.Storage, assembler *parser.Assembler, resolver *merchant.Resolver, config Config) *Worker {
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &Worker{
		storage:   storage,
		assembler: assembler,
		resolver:  resolver,
		config:    config,
	}
}

// Process parses one message and saves it unless it is rejected or already stored.
func (w *Worker) Process(ctx context.Context, msg model.Message) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	result := w.assembler.Evaluate(msg.Body, msg.ReceivedAt, msg.Sender)
	if !result.Accepted() {
		return Outcome{Status: StatusRejected, Rejection: result.Rejection}, nil
	}
	txn := result.Transaction

	exists, err := w.storage.HashExists(ctx, txn.Hash)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to check for duplicate: %w", err)
	}
	if exists {
		slog.Debug("Skipping duplicate message", "hash", txn.Hash)
		return Outcome{Status: StatusDuplicate, Transaction: txn}, nil
	}

	w.resolveMerchant(ctx, txn)
	txn.NeedsReview = txn.FinalConfidence < w.config.ReviewThreshold

	err = common.WithRetry(ctx, func() error {
		return w.storage.SaveTransaction(ctx, txn)
	}, w.config.Retry)
	if errors.Is(err, common.ErrDuplicateEntry) {
		return Outcome{Status: StatusDuplicate, Transaction: txn}, nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to save transaction: %w", err)
	}

	if txn.NeedsReview {
		slog.Info("Transaction needs review",
			"merchant", txn.Merchant,
			"amount", txn.Amount.String(),
			"final_confidence", txn.FinalConfidence)
		return Outcome{Status: StatusQuarantined, Transaction: txn}, nil
	}
	return Outcome{Status: StatusSaved, Transaction: txn}, nil
}

// resolveMerchant canonicalises the merchant and applies any stored display mapping.
func (w *Worker) resolveMerchant(ctx context.Context, txn *model.Transaction) {
	if txn.MerchantRaw == model.UnknownMerchant || w.resolver == nil {
		return
	}
	canonical := w.resolver.Resolve(ctx, txn.MerchantRaw)
	txn.Merchant = canonical

	display, err := w.storage.GetMerchantDisplayName(ctx, canonical)
	switch {
	case errors.Is(err, common.ErrNotFound):
		return
	case err != nil:
		slog.Warn("Failed to look up merchant display name", "merchant", canonical, "error", err)
		return
	}

	txn.Merchant = display
	if err := w.storage.RecordMerchantUse(ctx, canonical); err != nil {
		slog.Warn("Failed to record merchant use", "merchant", canonical, "error", err)
	}
}

// ProcessBatch processes msgs and summarises the outcomes. onOutcome, when
// set, is called once per processed message and may be called concurrently
// when more than one worker is configured.
func (w *Worker) ProcessBatch(ctx context.Context, msgs []model.Message, onOutcome func(Outcome, error)) (*service.IngestStats, error) {
	startTime := time.Now()
	stats := &service.IngestStats{
		Total:    len(msgs),
		Rejected: make(map[string]int),
	}

	workChan := make(chan model.Message)
	resultsChan := make(chan batchResult)

	var wg sync.WaitGroup
	wg.Add(w.config.Workers)
	for i := 0; i < w.config.Workers; i++ {
		go func() {
			defer wg.Done()
			for msg := range workChan {
				outcome, err := w.Process(ctx, msg)
				resultsChan <- batchResult{outcome: outcome, err: err, sender: msg.Sender}
			}
		}()
	}

	go func() {
		defer close(workChan)
		for _, msg := range msgs {
			select {
			case <-ctx.Done():
				return
			case workChan <- msg:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for r := range resultsChan {
		if onOutcome != nil {
			onOutcome(r.outcome, r.err)
		}
		if r.err != nil {
			if ctx.Err() != nil && errors.Is(r.err, ctx.Err()) {
				continue
			}
			stats.Failed++
			common.LogError(r.err, "Failed to ingest message", common.Fields{"sender": r.sender})
			continue
		}
		switch r.outcome.Status {
		case StatusSaved:
			stats.Saved++
		case StatusQuarantined:
			stats.Quarantined++
		case StatusDuplicate:
			stats.Duplicates++
		case StatusRejected:
			stats.Rejected[string(r.outcome.Rejection)]++
		}
	}

	stats.Duration = time.Since(startTime)

	slog.Info("Ingestion complete",
		"total", stats.Total,
		"saved", stats.Saved,
		"quarantined", stats.Quarantined,
		"duplicates", stats.Duplicates,
		"rejected", stats.RejectedTotal(),
		"failed", stats.Failed,
		"duration", stats.Duration)

	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("ingestion interrupted: %w", err)
	}
	return stats, nil
}

type batchResult struct {
	err     error
	outcome Outcome
	sender  string
}
