// Package trust scores how far a message's sender and age can be believed.
package trust

import (
	"strings"

	"github.com/Veraticus/smsledger/internal/model"
)

// Entry maps a sender identifier, or a fragment of one, to a trust score.
type Entry struct {
	Key   string
	Score float64
}

// Blend weights for FinalConfidence.
const (
	ContentWeight = 0.7
	SenderWeight  = 0.3
)

// UnknownScore is returned for absent or unrecognised senders.
const UnknownScore = 0.5

// DefaultTable is the built-in trust table. Order matters: after exact
// matching fails, the first contained key wins.
var DefaultTable = []Entry{
	{Key: "HDFCBK", Score: 0.95},
	{Key: "ICICIB", Score: 0.95},
	{Key: "SBIINB", Score: 0.95},
	{Key: "SBIPSG", Score: 0.95},
	{Key: "ATMSBI", Score: 0.95},
	{Key: "AXISBK", Score: 0.95},
	{Key: "KOTAKB", Score: 0.95},
	{Key: "YESBNK", Score: 0.90},
	{Key: "IDFCFB", Score: 0.90},
	{Key: "INDUSB", Score: 0.90},
	{Key: "PNBSMS", Score: 0.90},
	{Key: "BOBTXN", Score: 0.90},
	{Key: "CANBNK", Score: 0.90},
	{Key: "PAYTMB", Score: 0.85},
	{Key: "PHONPE", Score: 0.85},
	{Key: "GPAY", Score: 0.85},
	{Key: "AMZPAY", Score: 0.85},
	{Key: "MOBIKW", Score: 0.85},
	{Key: "HDFC", Score: 0.85},
	{Key: "ICICI", Score: 0.85},
	{Key: "SBI", Score: 0.85},
	{Key: "AXIS", Score: 0.85},
	{Key: "KOTAK", Score: 0.85},
	{Key: "PAYTM", Score: 0.80},
	{Key: "BANK", Score: 0.70},
	{Key: "BNK", Score: 0.70},
}

// Model scores sender identifiers against an ordered table. It is read-only
// after construction.
type Model struct {
	entries []Entry
}

// NewModel returns a model over entries. A nil slice uses DefaultTable.
func NewModel(entries []Entry) *Model {
	if entries == nil {
		entries = DefaultTable
	}
	normalized := make([]Entry, 0, len(entries))
	for _, e := range entries {
		key := strings.ToUpper(strings.TrimSpace(e.Key))
		if key == "" {
			continue
		}
		normalized = append(normalized, Entry{Key: key, Score: model.Clamp01(e.Score)})
	}
	return &Model{entries: normalized}
}

// Score returns the trust score of senderID in [0,1].
func (m *Model) Score(senderID string) float64 {
	id := NormalizeSender(senderID)
	if id == "" {
		return UnknownScore
	}

	for _, e := range m.entries {
		if e.Key == id {
			return e.Score
		}
	}
	for _, e := range m.entries {
		if strings.Contains(id, e.Key) {
			return e.Score
		}
	}
	return UnknownScore
}

// FinalConfidence blends a content confidence with the sender's trust score.
func (m *Model) FinalConfidence(content float64, senderID string) float64 {
	return model.Clamp01(model.Clamp01(content)*ContentWeight + m.Score(senderID)*SenderWeight)
}

// NormalizeSender upper-cases and trims senderID and removes a two-letter
// operator prefix such as "VM-" or "AD-".
func NormalizeSender(senderID string) string {
	id := strings.ToUpper(strings.TrimSpace(senderID))
	if len(id) > 3 && id[2] == '-' && isUpperLetter(id[0]) && isUpperLetter(id[1]) {
		id = id[3:]
	}
	return id
}

func isUpperLetter(c byte) bool {
	return c >= 'A' && c <= 'Z'
}
