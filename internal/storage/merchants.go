package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/smsledger/internal/common"
	"github.com/Veraticus/smsledger/internal/model"
)

const displayCacheTTL = 5 * time.Minute

// GetMerchantDisplayName returns the display name mapped to originalName, or
// common.ErrNotFound when no mapping exists.
func (s *SQLiteStorage) GetMerchantDisplayName(ctx context.Context, originalName string) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if err := validateString(originalName, "originalName"); err != nil {
		return "", err
	}

	key := strings.TrimSpace(originalName)
	if name, ok := s.getCachedDisplayName(key); ok {
		return name, nil
	}

	var displayName string
	err := s.db.QueryRowContext(ctx, `
		SELECT display_name
		FROM merchants
		WHERE original_name = ?
	`, key).Scan(&displayName)

	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("merchant %s: %w", key, common.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get merchant: %w", err)
	}

	s.cacheDisplayName(key, displayName)
	return displayName, nil
}

// SaveMerchant saves or updates a merchant display mapping.
func (s *SQLiteStorage) SaveMerchant(ctx context.Context, merchant *model.Merchant) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateMerchant(merchant); err != nil {
		return err
	}

	if merchant.LastUpdated.IsZero() {
		merchant.LastUpdated = time.Now()
	}
	merchant.OriginalName = strings.TrimSpace(merchant.OriginalName)
	merchant.DisplayName = strings.TrimSpace(merchant.DisplayName)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO merchants (original_name, display_name, use_count, last_updated)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(original_name) DO UPDATE SET
			display_name = excluded.display_name,
			use_count = excluded.use_count,
			last_updated = excluded.last_updated
	`, merchant.OriginalName, merchant.DisplayName, merchant.UseCount, merchant.LastUpdated.UTC())
	if err != nil {
		return fmt.Errorf("failed to save merchant: %w", err)
	}

	s.cacheDisplayName(merchant.OriginalName, merchant.DisplayName)
	return nil
}

// RecordMerchantUse bumps the use count of an existing mapping.
func (s *SQLiteStorage) RecordMerchantUse(ctx context.Context, originalName string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(originalName, "originalName"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE merchants
		SET use_count = use_count + 1, last_updated = ?
		WHERE original_name = ?
	`, time.Now().UTC(), strings.TrimSpace(originalName))
	if err != nil {
		return fmt.Errorf("failed to record merchant use: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("merchant %s: %w", originalName, common.ErrNotFound)
	}
	return nil
}

// ListMerchants returns every merchant display mapping.
func (s *SQLiteStorage) ListMerchants(ctx context.Context) ([]model.Merchant, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT original_name, display_name, use_count, last_updated
		FROM merchants
		ORDER BY original_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query merchants: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var merchants []model.Merchant
	for rows.Next() {
		var m model.Merchant
		if err := rows.Scan(&m.OriginalName, &m.DisplayName, &m.UseCount, &m.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan merchant: %w", err)
		}
		merchants = append(merchants, m)
	}
	return merchants, rows.Err()
}

// DeleteMerchant removes a merchant display mapping.
func (s *SQLiteStorage) DeleteMerchant(ctx context.Context, originalName string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(originalName, "originalName"); err != nil {
		return err
	}

	key := strings.TrimSpace(originalName)
	result, err := s.db.ExecContext(ctx, `DELETE FROM merchants WHERE original_name = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete merchant: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return common.ErrNotFound
	}

	s.cacheMutex.Lock()
	delete(s.displayCache, key)
	s.cacheMutex.Unlock()

	return nil
}

// getCachedDisplayName reads the display-name cache, clearing it once expired.
func (s *SQLiteStorage) getCachedDisplayName(originalName string) (string, bool) {
	s.cacheMutex.RLock()

	if time.Now().After(s.cacheExpiry) {
		s.cacheMutex.RUnlock()
		s.cacheMutex.Lock()
		defer s.cacheMutex.Unlock()

		// Double-check after acquiring write lock
		if time.Now().After(s.cacheExpiry) {
			s.displayCache = make(map[string]string)
		}
		return "", false
	}

	name, ok := s.displayCache[originalName]
	s.cacheMutex.RUnlock()
	return name, ok
}

func (s *SQLiteStorage) cacheDisplayName(originalName, displayName string) {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()

	if len(s.displayCache) == 0 {
		s.cacheExpiry = time.Now().Add(displayCacheTTL)
	}
	s.displayCache[originalName] = displayName
}
