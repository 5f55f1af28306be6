package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/smsledger/internal/common"
	"github.com/Veraticus/smsledger/internal/model"
	"github.com/Veraticus/smsledger/internal/service"
	"github.com/mattn/go-sqlite3"
)

const transactionColumns = `
	id, hash, amount, merchant, merchant_raw, account_type, sender_id,
	category, notes, direction, channel, source, entry_type, status,
	approved, confidence, final_confidence, sender_trust, needs_review,
	occurred_at, created_at, updated_at`

// SaveTransaction inserts a new transaction. A second transaction with the
// same content hash fails with common.ErrDuplicateEntry.
func (s *SQLiteStorage) SaveTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}
	return s.saveTransactionTx(ctx, s.db, txn)
}

func (s *SQLiteStorage) saveTransactionTx(ctx context.Context, q queryable, txn *model.Transaction) error {
	var hash sql.NullString
	if txn.Hash != "" {
		hash = sql.NullString{String: txn.Hash, Valid: true}
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		txn.ID,
		hash,
		txn.Amount.String(),
		txn.Merchant,
		txn.MerchantRaw,
		txn.AccountType,
		txn.SenderID,
		txn.Category,
		txn.Notes,
		string(txn.Direction),
		string(txn.Channel),
		string(txn.Source),
		string(txn.EntryType),
		string(txn.Status),
		txn.Approved,
		txn.Confidence,
		txn.FinalConfidence,
		txn.SenderTrust,
		txn.NeedsReview,
		txn.OccurredAt.UTC(),
		txn.CreatedAt.UTC(),
		txn.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("transaction with hash %s: %w", txn.Hash, common.ErrDuplicateEntry)
		}
		if isBusy(err) {
			return fmt.Errorf("failed to insert transaction %s: %w: %w", txn.ID, common.ErrStorageBusy, err)
		}
		return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
	}
	return nil
}

// HashExists reports whether a transaction with the given content hash is stored.
func (s *SQLiteStorage) HashExists(ctx context.Context, hash string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(hash, "hash"); err != nil {
		return false, err
	}

	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM transactions WHERE hash = ?)
	`, hash).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check hash: %w", err)
	}
	return exists, nil
}

// GetTransaction retrieves a transaction by ID.
func (s *SQLiteStorage) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = ?
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}
	defer func() { _ = rows.Close() }()

	txns, err := scanTransactions(rows)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	return &txns[0], nil
}

// ListTransactions returns transactions matching filter, newest first.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, fmt.Errorf("%w: end date %v is before start date %v", ErrInvalidDateRange, *filter.EndDate, *filter.StartDate)
	}

	var (
		where []string
		args  []any
	)
	if filter.StartDate != nil {
		where = append(where, "occurred_at >= ?")
		args = append(args, filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		where = append(where, "occurred_at <= ?")
		args = append(args, filter.EndDate.UTC())
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Source != "" {
		where = append(where, "source = ?")
		args = append(args, string(filter.Source))
	}
	if filter.NeedsReview != nil {
		where = append(where, "needs_review = ?")
		args = append(args, *filter.NeedsReview)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY occurred_at DESC, created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// UpdateTransaction persists the user-editable fields and lifecycle state of txn.
func (s *SQLiteStorage) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE transactions SET
			merchant = ?,
			category = ?,
			notes = ?,
			direction = ?,
			channel = ?,
			entry_type = ?,
			status = ?,
			approved = ?,
			needs_review = ?,
			updated_at = ?
		WHERE id = ?
	`,
		txn.Merchant,
		txn.Category,
		txn.Notes,
		string(txn.Direction),
		string(txn.Channel),
		string(txn.EntryType),
		string(txn.Status),
		txn.Approved,
		txn.NeedsReview,
		txn.UpdatedAt.UTC(),
		txn.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("transaction %s: %w", txn.ID, common.ErrNotFound)
	}
	return nil
}

// UniqueMerchantNames returns every distinct merchant recorded on a transaction.
func (s *SQLiteStorage) UniqueMerchantNames(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT merchant
		FROM transactions
		WHERE merchant != ?
		ORDER BY merchant
	`, model.UnknownMerchant)
	if err != nil {
		return nil, fmt.Errorf("failed to query merchants: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan merchant: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func scanTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	var txns []model.Transaction
	for rows.Next() {
		var (
			txn                                           model.Transaction
			hash, merchantRaw, accountType, senderID      sql.NullString
			category, notes                               sql.NullString
			direction, channel, source, entryType, status string
		)

		err := rows.Scan(
			&txn.ID,
			&hash,
			&txn.Amount,
			&txn.Merchant,
			&merchantRaw,
			&accountType,
			&senderID,
			&category,
			&notes,
			&direction,
			&channel,
			&source,
			&entryType,
			&status,
			&txn.Approved,
			&txn.Confidence,
			&txn.FinalConfidence,
			&txn.SenderTrust,
			&txn.NeedsReview,
			&txn.OccurredAt,
			&txn.CreatedAt,
			&txn.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		txn.Hash = hash.String
		txn.MerchantRaw = merchantRaw.String
		txn.AccountType = accountType.String
		txn.SenderID = senderID.String
		txn.Category = category.String
		txn.Notes = notes.String
		txn.Direction = model.Direction(direction)
		txn.Channel = model.Channel(channel)
		txn.Source = model.Source(source)
		txn.EntryType = model.EntryType(entryType)
		txn.Status = model.Status(status)

		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func isBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return false
}
