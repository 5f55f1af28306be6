package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/smsledger/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var readerNow = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func newTestReader(t *testing.T, input, format, sender string) *MessageReader {
	t.Helper()
	r, err := NewMessageReader(strings.NewReader(input), format, sender)
	require.NoError(t, err)
	r.now = func() time.Time { return readerNow }
	return r
}

func TestMessageReader_JSONLines(t *testing.T) {
	input := `{"body": "Rs.250 debited to SWIGGY via UPI", "sender": "VM-HDFCBK", "received_at": "2024-01-01T12:00:00Z"}

{"body": "Rs.90 paid to CHAI POINT", "received_at": 1704067200000}
{"body": "INR 500 credited", "sender": "AD-SBIINB", "received_at": "1704067200000"}
{"body": "Rs.10 paid"}
`
	msgs, err := newTestReader(t, input, FormatJSONLines, "UNKNOWN").ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 4)

	assert.Equal(t, "VM-HDFCBK", msgs[0].Sender)
	assert.True(t, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC).Equal(msgs[0].ReceivedAt))

	assert.Equal(t, "UNKNOWN", msgs[1].Sender)
	assert.Equal(t, int64(1704067200000), msgs[1].ReceivedAt.UnixMilli())

	assert.Equal(t, int64(1704067200000), msgs[2].ReceivedAt.UnixMilli())
	assert.True(t, readerNow.Equal(msgs[3].ReceivedAt))
}

func TestMessageReader_Text(t *testing.T) {
	input := "Rs.250 debited to SWIGGY via UPI\n\n   \nYour OTP is 1234\n"
	msgs, err := newTestReader(t, input, FormatText, "VM-HDFCBK").ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Your OTP is 1234", msgs[1].Body)
	assert.Equal(t, "VM-HDFCBK", msgs[1].Sender)
	assert.True(t, readerNow.Equal(msgs[0].ReceivedAt))
}

func TestMessageReader_Errors(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		input   string
		wantMsg string
	}{
		{
			name:    "malformed json",
			input:   `{"body": "x"` + "\n",
			wantErr: common.ErrBadInput,
			wantMsg: "line 1",
		},
		{
			name:    "empty body",
			input:   `{"body": "x"}` + "\n" + `{"body": "  "}` + "\n",
			wantErr: common.ErrEmptyMessage,
			wantMsg: "line 2",
		},
		{
			name:    "bad timestamp",
			input:   `{"body": "x", "received_at": "yesterday"}`,
			wantErr: common.ErrBadInput,
			wantMsg: "yesterday",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestReader(t, tt.input, FormatJSONLines, "").ReadAll(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestMessageReader_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestReader(t, "Rs.10 paid\n", FormatText, "").Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewMessageReader_UnknownFormat(t *testing.T) {
	_, err := NewMessageReader(strings.NewReader(""), "csv", "")
	assert.ErrorIs(t, err, common.ErrBadInput)
}
