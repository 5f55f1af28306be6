package parser

import (
	"testing"
	"time"

	"github.com/Veraticus/smsledger/internal/classification"
	"github.com/Veraticus/smsledger/internal/model"
	"github.com/Veraticus/smsledger/internal/trust"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)

func newTestAssembler(opts ...Option) *Assembler {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewAssembler(opts...)
}

func TestAssembler_ParseMessage_EndToEnd(t *testing.T) {
	a := newTestAssembler()
	receivedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	text := "Rs.250 debited from A/c XX1234 to SWIGGY via UPI"

	txn, ok := a.ParseMessage(text, receivedAt, "VM-HDFCBK")
	require.True(t, ok)
	require.NotNil(t, txn)

	assert.True(t, decimal.NewFromInt(250).Equal(txn.Amount))
	assert.Equal(t, model.DirectionDebit, txn.Direction)
	assert.Equal(t, model.ChannelUPI, txn.Channel)
	assert.Contains(t, txn.Merchant, "SWIGGY")
	assert.Equal(t, model.StatusDetected, txn.Status)
	assert.False(t, txn.Approved)
	assert.Equal(t, model.EntryAutoCaptured, txn.EntryType)
	assert.Equal(t, model.SourceSMS, txn.Source)
	assert.NotEmpty(t, txn.Hash)
	assert.NotEmpty(t, txn.ID)
	assert.Equal(t, "VM-HDFCBK", txn.SenderID)
	assert.InDelta(t, 0.91, txn.Confidence, 1e-9)
	assert.InDelta(t, 0.95, txn.SenderTrust, 1e-9)
	assert.InDelta(t, 0.91*0.7+0.95*0.3, txn.FinalConfidence, 1e-9)
	assert.Equal(t, receivedAt, txn.OccurredAt)
	assert.Equal(t, fixedNow, txn.CreatedAt)
	assert.Equal(t, fixedNow, txn.UpdatedAt)

	// A second parse of byte-identical content yields the same hash, which is
	// what the storage dedup check keys on.
	again, ok := a.ParseMessage(text, receivedAt.Add(time.Minute), "VM-HDFCBK")
	require.True(t, ok)
	assert.Equal(t, txn.Hash, again.Hash)
	assert.NotEqual(t, txn.ID, again.ID)
}

func TestAssembler_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		opts       []Option
		wantReason Rejection
	}{
		{
			name:       "otp",
			text:       "Your OTP is 482910, valid for 10 minutes",
			wantReason: RejectedByGate,
		},
		{
			name:       "promotion",
			text:       "Flat 20% cashback on your next order, click here!",
			wantReason: RejectedByGate,
		},
		{
			name:       "no amount",
			text:       "Your account was debited, please check",
			wantReason: RejectedNoAmount,
		},
		{
			name:       "below threshold",
			text:       "Rs.250 debited from A/c XX1234 to SWIGGY via UPI",
			opts:       []Option{WithMinConfidence(0.95)},
			wantReason: RejectedLowConfidence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAssembler(tt.opts...)

			r := a.Evaluate(tt.text, fixedNow, "")
			assert.False(t, r.Accepted())
			assert.Nil(t, r.Transaction)
			assert.Equal(t, tt.wantReason, r.Rejection)

			txn, ok := a.ParseMessage(tt.text, fixedNow, "")
			assert.False(t, ok)
			assert.Nil(t, txn)
		})
	}
}

func TestAssembler_GateVerdictExposed(t *testing.T) {
	r := newTestAssembler().Evaluate("Your UPI payment of Rs 250 to SWIGGY has failed", fixedNow, "")

	assert.Equal(t, RejectedByGate, r.Rejection)
	assert.Equal(t, classification.ReasonFailed, r.Verdict.Reason)
}

func TestAssembler_ParseSMS(t *testing.T) {
	a := newTestAssembler()

	txn, ok := a.ParseSMS("Rs 2,000 credited to your account via NEFT from ACME CORP", 1704067200000, "")
	require.True(t, ok)

	assert.True(t, txn.OccurredAt.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, model.DirectionCredit, txn.Direction)
	assert.Equal(t, model.ChannelBank, txn.Channel)
	assert.Equal(t, "ACME CORP", txn.Merchant)
	assert.InDelta(t, trust.UnknownScore, txn.SenderTrust, 1e-9)
}

func TestAssembler_UnknownMerchantDefault(t *testing.T) {
	txn, ok := newTestAssembler().ParseMessage("Rs. 1,234.56 debited", fixedNow, "")
	require.True(t, ok)

	assert.Equal(t, model.UnknownMerchant, txn.Merchant)
	assert.Equal(t, model.ChannelUPI, txn.Channel)
	assert.InDelta(t, 0.63, txn.Confidence, 1e-9)
}

func TestAssembler_HashNormalization(t *testing.T) {
	a := newTestAssembler()

	first, ok := a.ParseMessage("Rs.250 debited from A/c XX1234 to SWIGGY via UPI", fixedNow, "")
	require.True(t, ok)
	spaced, ok := a.ParseMessage("  rs.250   DEBITED from a/c xx1234 to swiggy via upi ", fixedNow, "")
	require.True(t, ok)
	other, ok := a.ParseMessage("Rs.251 debited from A/c XX1234 to SWIGGY via UPI", fixedNow, "")
	require.True(t, ok)

	assert.Equal(t, first.Hash, spaced.Hash)
	assert.NotEqual(t, first.Hash, other.Hash)
}

func TestAssembler_CustomTrust(t *testing.T) {
	a := newTestAssembler(WithTrust(trust.NewModel([]trust.Entry{{Key: "MYBANK", Score: 0.1}})))

	txn, ok := a.ParseMessage("Rs.250 debited from A/c XX1234 to SWIGGY via UPI", fixedNow, "MYBANK")
	require.True(t, ok)
	assert.InDelta(t, 0.91*0.7+0.1*0.3, txn.FinalConfidence, 1e-9)
}
