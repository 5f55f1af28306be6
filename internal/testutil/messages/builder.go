package messages

import (
	"testing"
	"time"

	"github.com/Veraticus/smsledger/internal/model"
)

// BaseTime is the receipt time of the first built message.
var BaseTime = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

// Builder assembles test messages.
type Builder interface {
	WithFixture(f Fixture) Builder
	WithMessage(body, sender string) Builder
	WithRepeat(times int) Builder
	Build() []model.Message
}

type messageBuilder struct {
	t       *testing.T
	samples []Sample
	repeat  int
}

// NewBuilder creates an empty message builder.
func NewBuilder(t *testing.T) Builder {
	t.Helper()
	return &messageBuilder{t: t, repeat: 1}
}

func (b *messageBuilder) WithFixture(f Fixture) Builder {
	b.samples = append(b.samples, f.Samples()...)
	return b
}

func (b *messageBuilder) WithMessage(body, sender string) Builder {
	b.samples = append(b.samples, Sample{Body: body, Sender: sender})
	return b
}

// WithRepeat emits the whole sample list the given number of times, as a
// phone would when the same alert is delivered more than once.
func (b *messageBuilder) WithRepeat(times int) Builder {
	if times < 1 {
		b.t.Fatalf("repeat must be positive, got %d", times)
	}
	b.repeat = times
	return b
}

func (b *messageBuilder) Build() []model.Message {
	msgs := make([]model.Message, 0, len(b.samples)*b.repeat)
	for r := 0; r < b.repeat; r++ {
		for _, s := range b.samples {
			msgs = append(msgs, model.Message{
				Body:       s.Body,
				Sender:     s.Sender,
				ReceivedAt: BaseTime.Add(time.Duration(len(msgs)) * time.Minute),
			})
		}
	}
	return msgs
}
