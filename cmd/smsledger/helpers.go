package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/smsledger/internal/common"
	"github.com/Veraticus/smsledger/internal/config"
	"github.com/Veraticus/smsledger/internal/merchant"
	"github.com/Veraticus/smsledger/internal/model"
	"github.com/Veraticus/smsledger/internal/parser"
	"github.com/Veraticus/smsledger/internal/service"
	"github.com/Veraticus/smsledger/internal/storage"
)

// initStorage opens the configured database and brings its schema up to date.
func initStorage(ctx context.Context) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(settings.DatabasePath)
	if err != nil {
		return nil, common.NewUserError("could not open the ledger database", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func newAssembler() *parser.Assembler {
	return parser.NewAssembler(parser.WithMinConfidence(settings.MinConfidence))
}

// newResolver builds a merchant resolver backed by stored history and the
// configured alias file.
func newResolver(store service.Storage) (*merchant.Resolver, error) {
	aliases, err := config.LoadAliases(settings.AliasesFile)
	if err != nil {
		return nil, common.NewUserError("could not load merchant aliases", err)
	}
	return merchant.NewResolver(store, aliases), nil
}

// findTransaction accepts a full ID or a unique prefix of one, as shown in tables.
func findTransaction(ctx context.Context, store service.Storage, idOrPrefix string) (*model.Transaction, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return nil, common.NewUserError("transaction ID is required", nil)
	}

	txn, err := store.GetTransaction(ctx, idOrPrefix)
	if err == nil {
		return txn, nil
	}

	txns, listErr := store.ListTransactions(ctx, service.TransactionFilter{})
	if listErr != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", listErr)
	}

	var matches []model.Transaction
	for _, t := range txns {
		if strings.HasPrefix(t.ID, idOrPrefix) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return nil, common.NewUserError(fmt.Sprintf("no transaction matches %q", idOrPrefix), common.ErrNotFound)
	case 1:
		return &matches[0], nil
	default:
		return nil, common.NewUserError(fmt.Sprintf("%q matches %d transactions; use more characters", idOrPrefix, len(matches)), nil)
	}
}
