package parser

import (
	"testing"

	"github.com/Veraticus/smsledger/internal/model"
	"github.com/Veraticus/smsledger/internal/pattern"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_Parse(t *testing.T) {
	p := NewPipeline()

	tests := []struct {
		wantFields    map[string]float64
		name          string
		text          string
		sender        string
		wantAmount    string
		wantMerchant  string
		wantAccount   string
		wantDirection model.Direction
		wantChannel   model.Channel
		wantAggregate float64
	}{
		{
			name:          "upi debit",
			text:          "Rs.250 debited from A/c XX1234 to SWIGGY via UPI",
			sender:        "VM-HDFCBK",
			wantAmount:    "250",
			wantMerchant:  "SWIGGY",
			wantAccount:   pattern.AccountBank,
			wantDirection: model.DirectionDebit,
			wantChannel:   model.ChannelUPI,
			wantAggregate: 0.91,
			wantFields: map[string]float64{
				model.FieldSender:    0.95,
				model.FieldAmount:    1.0,
				model.FieldDirection: 0.9,
				model.FieldMerchant:  0.8,
				model.FieldChannel:   0.9,
			},
		},
		{
			name:          "amount only",
			text:          "Rs. 1,234.56 debited",
			wantAmount:    "1234.56",
			wantMerchant:  model.UnknownMerchant,
			wantDirection: model.DirectionDebit,
			wantChannel:   model.ChannelUPI,
			wantAggregate: 0.63,
			wantFields: map[string]float64{
				model.FieldSender:    pattern.DefaultSenderConfidence,
				model.FieldAmount:    1.0,
				model.FieldDirection: 0.9,
				model.FieldMerchant:  0,
				model.FieldChannel:   0.5,
			},
		},
		{
			name:          "no amount",
			text:          "no numbers here",
			wantMerchant:  model.UnknownMerchant,
			wantDirection: model.DirectionDebit,
			wantChannel:   model.ChannelUPI,
			wantAggregate: 0.05,
			wantFields: map[string]float64{
				model.FieldAmount:    0,
				model.FieldDirection: 0,
			},
		},
		{
			name:          "neft credit",
			text:          "INR 12,50,000.00 credited to your account via NEFT from ACME CORP",
			sender:        "AD-SBIINB",
			wantAmount:    "1250000",
			wantMerchant:  "ACME CORP",
			wantAccount:   pattern.AccountBank,
			wantDirection: model.DirectionCredit,
			wantChannel:   model.ChannelBank,
			wantAggregate: 0.91,
		},
		{
			name:          "credit card hint from body",
			text:          "Rs 1,200 spent on your ICICI Bank Credit Card XX4321 at MYNTRA",
			wantAmount:    "1200",
			wantMerchant:  "MYNTRA",
			wantAccount:   pattern.AccountCreditCard,
			wantDirection: model.DirectionDebit,
			wantChannel:   model.ChannelCard,
			wantAggregate: 0.4 + 0.24 + 0.12 + 0.09,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Parse(tt.text, tt.sender)

			if tt.wantAmount == "" {
				assert.False(t, got.HasAmount())
			} else {
				require.True(t, got.HasAmount())
				assert.True(t, decimal.RequireFromString(tt.wantAmount).Equal(*got.Amount), "amount %s", got.Amount)
			}
			assert.Equal(t, tt.wantMerchant, got.Merchant)
			assert.Equal(t, tt.wantAccount, got.AccountType)
			assert.Equal(t, tt.wantDirection, got.Direction)
			assert.Equal(t, tt.wantChannel, got.Channel)
			assert.InDelta(t, tt.wantAggregate, got.Confidence, 1e-9)
			for field, want := range tt.wantFields {
				assert.InDelta(t, want, got.FieldConfidence[field], 1e-9, field)
			}
		})
	}
}

func TestPipeline_DirectionTie(t *testing.T) {
	got := NewPipeline().Parse("Rs 100 paid and Rs 100 received", "")

	assert.Equal(t, model.DirectionDebit, got.Direction)
	assert.InDelta(t, 0.6, got.FieldConfidence[model.FieldDirection], 1e-9)
}

func TestPipeline_StageFaultIsolated(t *testing.T) {
	var ran []string
	track := func(name string, confidence float64) Stage {
		return Stage{Name: name, Run: func(*Context) float64 {
			ran = append(ran, name)
			return confidence
		}}
	}

	stages := []Stage{
		track(model.FieldSender, 0.3),
		{Name: model.FieldAmount, Run: func(*Context) float64 { panic("regex engine fault") }},
		track(model.FieldDirection, 0.9),
		track(model.FieldMerchant, 0.8),
		track(model.FieldChannel, 0.9),
	}

	got := NewPipelineWithStages(stages).Parse("Rs 10 paid", "")

	assert.Equal(t, []string{model.FieldSender, model.FieldDirection, model.FieldMerchant, model.FieldChannel}, ran)
	assert.InDelta(t, 0, got.FieldConfidence[model.FieldAmount], 1e-9)
	assert.False(t, got.HasAmount())
	assert.Equal(t, model.UnknownMerchant, got.Merchant)
	assert.Equal(t, model.DirectionDebit, got.Direction)
	assert.Equal(t, model.ChannelUPI, got.Channel)
	assert.InDelta(t, 0.3*0.8+0.2*0.9+0.1*0.9, got.Confidence, 1e-9)
}

func TestPipeline_ConfidenceClamped(t *testing.T) {
	stages := []Stage{
		{Name: model.FieldAmount, Run: func(*Context) float64 { return 7 }},
		{Name: model.FieldMerchant, Run: func(*Context) float64 { return 3 }},
		{Name: model.FieldDirection, Run: func(*Context) float64 { return -4 }},
		{Name: model.FieldChannel, Run: func(*Context) float64 { return 2 }},
	}

	got := NewPipelineWithStages(stages).Parse("anything", "")

	assert.InDelta(t, 1.0, got.FieldConfidence[model.FieldAmount], 1e-9)
	assert.InDelta(t, 0.0, got.FieldConfidence[model.FieldDirection], 1e-9)
	assert.InDelta(t, 0.8, got.Confidence, 1e-9)
}

func TestContext_ResultIsDetached(t *testing.T) {
	c := NewContext("x", "")
	amount := decimal.NewFromInt(5)
	c.Amount = &amount
	c.record(model.FieldAmount, 1)

	got := c.Result()
	c.record(model.FieldAmount, 0)
	*c.Amount = decimal.NewFromInt(9)

	assert.InDelta(t, 1.0, got.FieldConfidence[model.FieldAmount], 1e-9)
	assert.True(t, decimal.NewFromInt(5).Equal(*got.Amount))
}

func TestContext_AggregateDeterministic(t *testing.T) {
	c := NewContext("x", "")
	c.record(model.FieldAmount, 1)
	c.record(model.FieldMerchant, 0.7)
	c.record(model.FieldDirection, 0.6)
	c.record(model.FieldChannel, 0.9)

	first := c.Aggregate()
	assert.InDelta(t, 0.82, first, 1e-9)
	for i := 0; i < 1000; i++ {
		require.Equal(t, first, c.Aggregate())
	}
}
