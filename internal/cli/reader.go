package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/smsledger/internal/common"
	"github.com/Veraticus/smsledger/internal/model"
)

// Input formats accepted by MessageReader.
const (
	FormatJSONLines = "jsonl"
	FormatText      = "text"
)

const maxLineBytes = 1 << 20

// MessageReader reads SMS messages from an export, one per line.
//
// In FormatJSONLines each line is an object with "body", "sender" and
// "received_at"; received_at is either RFC 3339 text or epoch milliseconds.
// In FormatText each non-blank line is a message body attributed to the
// default sender.
type MessageReader struct {
	scanner       *bufio.Scanner
	now           func() time.Time
	format        string
	defaultSender string
	line          int
}

// NewMessageReader creates a reader for the given format.
func NewMessageReader(r io.Reader, format, defaultSender string) (*MessageReader, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil reader", common.ErrBadInput)
	}
	switch format {
	case "", FormatJSONLines:
		format = FormatJSONLines
	case FormatText:
	default:
		return nil, fmt.Errorf("%w: unknown input format %q", common.ErrBadInput, format)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	return &MessageReader{
		scanner:       scanner,
		now:           time.Now,
		format:        format,
		defaultSender: defaultSender,
	}, nil
}

type jsonMessage struct {
	Body       string          `json:"body"`
	Sender     string          `json:"sender"`
	ReceivedAt json.RawMessage `json:"received_at"`
}

// Next returns the next message, or io.EOF when the input is exhausted.
func (r *MessageReader) Next(ctx context.Context) (model.Message, error) {
	for {
		if err := ctx.Err(); err != nil {
			return model.Message{}, err
		}
		if !r.scanner.Scan() {
			if err := r.scanner.Err(); err != nil {
				return model.Message{}, fmt.Errorf("failed to read line %d: %w", r.line+1, err)
			}
			return model.Message{}, io.EOF
		}
		r.line++

		line := strings.TrimSpace(r.scanner.Text())
		if line == "" {
			continue
		}

		if r.format == FormatText {
			return model.Message{Body: line, Sender: r.defaultSender, ReceivedAt: r.now()}, nil
		}
		return r.decode(line)
	}
}

// ReadAll drains the reader.
func (r *MessageReader) ReadAll(ctx context.Context) ([]model.Message, error) {
	var msgs []model.Message
	for {
		msg, err := r.Next(ctx)
		if err == io.EOF {
			return msgs, nil
		}
		if err != nil {
			return msgs, err
		}
		msgs = append(msgs, msg)
	}
}

func (r *MessageReader) decode(line string) (model.Message, error) {
	var raw jsonMessage
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return model.Message{}, fmt.Errorf("%w: line %d: %w", common.ErrBadInput, r.line, err)
	}
	if strings.TrimSpace(raw.Body) == "" {
		return model.Message{}, fmt.Errorf("%w: line %d", common.ErrEmptyMessage, r.line)
	}

	receivedAt, err := parseReceivedAt(raw.ReceivedAt)
	if err != nil {
		return model.Message{}, fmt.Errorf("%w: line %d: %w", common.ErrBadInput, r.line, err)
	}
	if receivedAt.IsZero() {
		receivedAt = r.now()
	}

	sender := raw.Sender
	if sender == "" {
		sender = r.defaultSender
	}

	return model.Message{Body: raw.Body, Sender: sender, ReceivedAt: receivedAt}, nil
}

func parseReceivedAt(raw json.RawMessage) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return time.Time{}, err
		}
		if millis, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(millis), nil
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("received_at %q is neither RFC 3339 nor epoch milliseconds", s)
		}
		return t, nil
	}

	millis, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("received_at %s is not epoch milliseconds", raw)
	}
	return time.UnixMilli(millis), nil
}
