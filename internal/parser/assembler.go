package parser

import (
	"log/slog"
	"time"

	"github.com/Veraticus/smsledger/internal/classification"
	"github.com/Veraticus/smsledger/internal/model"
	"github.com/Veraticus/smsledger/internal/trust"
)

// DefaultMinConfidence is the aggregate confidence below which a parse is discarded.
const DefaultMinConfidence = 0.4

// Rejection explains why no transaction was produced.
type Rejection string

// Rejection reasons.
const (
	RejectedByGate        Rejection = "gate"
	RejectedNoAmount      Rejection = "no_amount"
	RejectedLowConfidence Rejection = "low_confidence"
)

// Result is the full outcome of evaluating one message.
type Result struct {
	Transaction *model.Transaction
	Verdict     classification.Verdict
	Rejection   Rejection
	Parsed      model.ParsedTransaction
}

// Accepted reports whether a transaction was produced.
func (r Result) Accepted() bool {
	return r.Transaction != nil
}

// Config holds assembler collaborators.
type Config struct {
	Gate          *classification.Gate
	Pipeline      *Pipeline
	Trust         *trust.Model
	Clock         func() time.Time
	MinConfidence float64
}

// Option is a functional option for configuring the Assembler.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		MinConfidence: DefaultMinConfidence,
		Clock:         time.Now,
	}
}

// WithGate sets the validation gate.
func WithGate(gate *classification.Gate) Option {
	return func(c *Config) {
		c.Gate = gate
	}
}

// WithPipeline sets the extraction pipeline.
func WithPipeline(p *Pipeline) Option {
	return func(c *Config) {
		c.Pipeline = p
	}
}

// WithTrust sets the sender trust model.
func WithTrust(m *trust.Model) Option {
	return func(c *Config) {
		c.Trust = m
	}
}

// WithClock sets the source of CreatedAt and UpdatedAt timestamps.
func WithClock(clock func() time.Time) Option {
	return func(c *Config) {
		c.Clock = clock
	}
}

// WithMinConfidence sets the acceptance threshold.
func WithMinConfidence(v float64) Option {
	return func(c *Config) {
		c.MinConfidence = model.Clamp01(v)
	}
}

// Assembler is the top-level entry point: gate, pipeline, threshold, hash.
// It holds no mutable state and is safe for concurrent use.
type Assembler struct {
	cfg Config
}

// NewAssembler creates an assembler with built-in collaborators unless
// overridden by opts.
func NewAssembler(opts ...Option) *Assembler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Gate == nil {
		cfg.Gate = classification.DefaultGate()
	}
	if cfg.Pipeline == nil {
		cfg.Pipeline = NewPipeline()
	}
	if cfg.Trust == nil {
		cfg.Trust = trust.NewModel(nil)
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Assembler{cfg: cfg}
}

// ParseMessage returns a detected transaction, or false when text is not a
// transaction or not confident enough. Callers must discard a false result.
func (a *Assembler) ParseMessage(text string, receivedAt time.Time, senderID string) (*model.Transaction, bool) {
	r := a.Evaluate(text, receivedAt, senderID)
	return r.Transaction, r.Accepted()
}

// ParseSMS is ParseMessage with the receipt time given in epoch milliseconds.
func (a *Assembler) ParseSMS(text string, receivedAtMillis int64, senderID string) (*model.Transaction, bool) {
	return a.ParseMessage(text, time.UnixMilli(receivedAtMillis), senderID)
}

// Evaluate is ParseMessage with the intermediate results and rejection reason.
func (a *Assembler) Evaluate(text string, receivedAt time.Time, senderID string) Result {
	verdict := a.cfg.Gate.Evaluate(text)
	if !verdict.Accepted {
		slog.Debug("Message rejected by gate",
			"reason", verdict.Reason,
			"pattern", verdict.Pattern)
		return Result{Verdict: verdict, Rejection: RejectedByGate}
	}

	parsed := a.cfg.Pipeline.Parse(text, senderID)
	result := Result{Verdict: verdict, Parsed: parsed}

	if !parsed.HasAmount() {
		slog.Debug("Message rejected", "reason", RejectedNoAmount)
		result.Rejection = RejectedNoAmount
		return result
	}
	if parsed.Confidence < a.cfg.MinConfidence {
		slog.Debug("Message rejected",
			"reason", RejectedLowConfidence,
			"confidence", parsed.Confidence)
		result.Rejection = RejectedLowConfidence
		return result
	}

	now := a.cfg.Clock()
	senderTrust := a.cfg.Trust.Score(senderID)

	direction := parsed.Direction
	if direction == "" {
		direction = model.DirectionDebit
	}
	channel := parsed.Channel
	if channel == "" {
		channel = model.ChannelUPI
	}
	merchant := parsed.Merchant
	if merchant == "" {
		merchant = model.UnknownMerchant
	}

	result.Transaction = &model.Transaction{
		ID:              model.NewID(),
		Hash:            model.ContentHash(text),
		Amount:          *parsed.Amount,
		Merchant:        merchant,
		MerchantRaw:     merchant,
		AccountType:     parsed.AccountType,
		SenderID:        senderID,
		Direction:       direction,
		Channel:         channel,
		Source:          model.SourceSMS,
		EntryType:       model.EntryAutoCaptured,
		Status:          model.StatusDetected,
		Approved:        false,
		Confidence:      parsed.Confidence,
		FinalConfidence: a.cfg.Trust.FinalConfidence(parsed.Confidence, senderID),
		SenderTrust:     senderTrust,
		OccurredAt:      receivedAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return result
}
