package ingest

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Veraticus/smsledger/internal/merchant"
	"github.com/Veraticus/smsledger/internal/model"
	"github.com/Veraticus/smsledger/internal/parser"
	"github.com/Veraticus/smsledger/internal/service"
	"github.com/Veraticus/smsledger/internal/testutil"
	"github.com/Veraticus/smsledger/internal/testutil/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)

func newTestWorker(t *testing.T, store service.Storage, config Config) *Worker {
	t.Helper()
	assembler := parser.NewAssembler(parser.WithClock(func() time.Time { return fixedNow }))
	return NewWithConfig(store, assembler, merchant.NewResolver(store, nil), config)
}

func TestWorker_Process(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		sender        string
		wantStatus    Status
		wantRejection parser.Rejection
		wantMerchant  string
		wantReview    bool
	}{
		{
			name:         "confident debit",
			body:         "Rs.250 debited from A/c XX1234 to SWIGGY via UPI",
			sender:       "VM-HDFCBK",
			wantStatus:   StatusSaved,
			wantMerchant: "SWIGGY",
		},
		{
			name:         "confident credit",
			body:         "INR 12,50,000.00 credited to your account via NEFT from ACME CORP",
			sender:       "AD-SBIINB",
			wantStatus:   StatusSaved,
			wantMerchant: "ACME CORP",
		},
		{
			name:         "low final confidence",
			body:         "Rs. 1,234.56 debited",
			wantStatus:   StatusQuarantined,
			wantMerchant: model.UnknownMerchant,
			wantReview:   true,
		},
		{
			name:          "otp",
			body:          "Your OTP is 482910, valid for 10 minutes",
			sender:        "VM-HDFCBK",
			wantStatus:    StatusRejected,
			wantRejection: parser.RejectedByGate,
		},
		{
			name:          "no amount",
			body:          "Your account was debited, please check",
			wantStatus:    StatusRejected,
			wantRejection: parser.RejectedNoAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			w := newTestWorker(t, db.Storage, DefaultConfig())

			outcome, err := w.Process(context.Background(), model.Message{
				Body:       tt.body,
				Sender:     tt.sender,
				ReceivedAt: messages.BaseTime,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, outcome.Status)
			assert.Equal(t, tt.wantRejection, outcome.Rejection)

			stored := db.MustListTransactions(service.TransactionFilter{})
			if tt.wantStatus == StatusRejected {
				assert.Nil(t, outcome.Transaction)
				assert.Empty(t, stored)
				return
			}

			require.Len(t, stored, 1)
			assert.Equal(t, outcome.Transaction.ID, stored[0].ID)
			assert.Equal(t, tt.wantMerchant, stored[0].Merchant)
			assert.Equal(t, tt.wantReview, stored[0].NeedsReview)
			assert.Equal(t, model.StatusDetected, stored[0].Status)
			assert.True(t, messages.BaseTime.Equal(stored[0].OccurredAt))
		})
	}
}

func TestWorker_Process_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	w := newTestWorker(t, db.Storage, DefaultConfig())
	ctx := context.Background()

	msg := model.Message{
		Body:       "Rs.250 debited from A/c XX1234 to SWIGGY via UPI",
		Sender:     "VM-HDFCBK",
		ReceivedAt: messages.BaseTime,
	}

	first, err := w.Process(ctx, msg)
	require.NoError(t, err)
	require.Equal(t, StatusSaved, first.Status)

	msg.ReceivedAt = msg.ReceivedAt.Add(time.Hour)
	msg.Body = "  rs.250 DEBITED from a/c xx1234 to swiggy via upi"
	second, err := w.Process(ctx, msg)
	require.NoError(t, err)
	assert.Equal(t, StatusDuplicate, second.Status)
	assert.Equal(t, first.Transaction.Hash, second.Transaction.Hash)

	assert.Len(t, db.MustListTransactions(service.TransactionFilter{}), 1)
}

func TestWorker_Process_DisplayMapping(t *testing.T) {
	db := testutil.SetupTestDBWithOptions(t, testutil.TestDBOptions{
		Merchants: []model.Merchant{{OriginalName: "SWIGGY", DisplayName: "Swiggy"}},
	})
	w := newTestWorker(t, db.Storage, DefaultConfig())
	ctx := context.Background()

	outcome, err := w.Process(ctx, model.Message{
		Body:       "Rs.250 debited from A/c XX1234 to SWIGGY via UPI",
		Sender:     "VM-HDFCBK",
		ReceivedAt: messages.BaseTime,
	})
	require.NoError(t, err)
	assert.Equal(t, "Swiggy", outcome.Transaction.Merchant)
	assert.Equal(t, "SWIGGY", outcome.Transaction.MerchantRaw)

	merchants, err := db.Storage.ListMerchants(ctx)
	require.NoError(t, err)
	require.Len(t, merchants, 1)
	assert.Equal(t, 1, merchants[0].UseCount)
}

func TestWorker_Process_ReviewThreshold(t *testing.T) {
	db := testutil.SetupTestDB(t)
	config := DefaultConfig()
	config.ReviewThreshold = 0.95
	w := newTestWorker(t, db.Storage, config)

	outcome, err := w.Process(context.Background(), model.Message{
		Body:       "Rs.250 debited from A/c XX1234 to SWIGGY via UPI",
		Sender:     "VM-HDFCBK",
		ReceivedAt: messages.BaseTime,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusQuarantined, outcome.Status)
	assert.True(t, outcome.Transaction.NeedsReview)
}

func TestWorker_ProcessBatch(t *testing.T) {
	for _, workers := range []int{1, 4} {
		db := testutil.SetupTestDB(t)
		config := DefaultConfig()
		config.Workers = workers
		w := newTestWorker(t, db.Storage, config)

		msgs := messages.NewBuilder(t).
			WithFixture(messages.FixtureConfident).
			WithFixture(messages.FixtureDoubtful).
			WithFixture(messages.FixtureNoise).
			WithRepeat(2).
			Build()

		var seen atomic.Int32
		stats, err := w.ProcessBatch(context.Background(), msgs, func(Outcome, error) {
			seen.Add(1)
		})
		require.NoError(t, err)

		assert.Equal(t, 16, stats.Total, "workers=%d", workers)
		assert.Equal(t, 3, stats.Saved, "workers=%d", workers)
		assert.Equal(t, 1, stats.Quarantined, "workers=%d", workers)
		assert.Equal(t, 4, stats.Duplicates, "workers=%d", workers)
		assert.Equal(t, 6, stats.Rejected[string(parser.RejectedByGate)], "workers=%d", workers)
		assert.Equal(t, 2, stats.Rejected[string(parser.RejectedNoAmount)], "workers=%d", workers)
		assert.Equal(t, 8, stats.RejectedTotal())
		assert.Zero(t, stats.Failed)
		assert.Equal(t, int32(16), seen.Load())

		assert.Len(t, db.MustListTransactions(service.TransactionFilter{}), 4)
	}
}

func TestWorker_ProcessBatch_Canceled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	w := newTestWorker(t, db.Storage, DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	msgs := messages.NewBuilder(t).WithFixture(messages.FixtureConfident).Build()
	stats, err := w.ProcessBatch(ctx, msgs, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, stats.Saved)
	assert.Zero(t, stats.Failed)
}

type failingStorage struct {
	service.Storage
	err error
}

func (f *failingStorage) HashExists(context.Context, string) (bool, error) {
	return false, f.err
}

func TestWorker_StorageFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	errDisk := errors.New("disk I/O error")
	store := &failingStorage{Storage: db.Storage, err: errDisk}
	w := newTestWorker(t, store, DefaultConfig())

	_, err := w.Process(context.Background(), model.Message{
		Body:       "Rs.250 debited from A/c XX1234 to SWIGGY via UPI",
		Sender:     "VM-HDFCBK",
		ReceivedAt: messages.BaseTime,
	})
	assert.ErrorIs(t, err, errDisk)

	msgs := messages.NewBuilder(t).
		WithFixture(messages.FixtureConfident).
		WithFixture(messages.FixtureNoise).
		Build()
	stats, err := w.ProcessBatch(context.Background(), msgs, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Failed)
	assert.Equal(t, 4, stats.RejectedTotal())
}
