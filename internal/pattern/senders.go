package pattern

import "strings"

// Account type hints recorded by sender classification.
const (
	AccountBank       = "BANK"
	AccountWallet     = "WALLET"
	AccountCreditCard = "CREDIT_CARD"
)

// SenderEntry maps a bank or wallet identifier fragment to a classification
// confidence.
type SenderEntry struct {
	Key         string
	AccountType string
	Confidence  float64
}

// DefaultSenderConfidence is used when no entry matches.
const DefaultSenderConfidence = 0.30

// SenderTable is scanned in order; the first contained key wins.
var SenderTable = []SenderEntry{
	{Key: "HDFC", AccountType: AccountBank, Confidence: 0.95},
	{Key: "ICICI", AccountType: AccountBank, Confidence: 0.95},
	{Key: "SBI", AccountType: AccountBank, Confidence: 0.95},
	{Key: "AXIS", AccountType: AccountBank, Confidence: 0.95},
	{Key: "KOTAK", AccountType: AccountBank, Confidence: 0.90},
	{Key: "YESBNK", AccountType: AccountBank, Confidence: 0.90},
	{Key: "YES BANK", AccountType: AccountBank, Confidence: 0.90},
	{Key: "IDFC", AccountType: AccountBank, Confidence: 0.90},
	{Key: "INDUS", AccountType: AccountBank, Confidence: 0.90},
	{Key: "PNB", AccountType: AccountBank, Confidence: 0.90},
	{Key: "BOBTXN", AccountType: AccountBank, Confidence: 0.90},
	{Key: "BARODA", AccountType: AccountBank, Confidence: 0.90},
	{Key: "CANARA", AccountType: AccountBank, Confidence: 0.90},
	{Key: "PAYTM", AccountType: AccountWallet, Confidence: 0.85},
	{Key: "PHONEPE", AccountType: AccountWallet, Confidence: 0.85},
	{Key: "PHONPE", AccountType: AccountWallet, Confidence: 0.85},
	{Key: "GPAY", AccountType: AccountWallet, Confidence: 0.85},
	{Key: "AMAZON PAY", AccountType: AccountWallet, Confidence: 0.85},
	{Key: "AMZNPAY", AccountType: AccountWallet, Confidence: 0.85},
	{Key: "MOBIKWIK", AccountType: AccountWallet, Confidence: 0.85},
	{Key: "BANK", AccountType: AccountBank, Confidence: 0.80},
	{Key: "BNK", AccountType: AccountBank, Confidence: 0.80},
}

// LookupSender finds the first table entry contained in s (case-insensitive).
func LookupSender(s string) (SenderEntry, bool) {
	upper := strings.ToUpper(s)
	if strings.TrimSpace(upper) == "" {
		return SenderEntry{}, false
	}
	for _, e := range SenderTable {
		if strings.Contains(upper, e.Key) {
			return e, true
		}
	}
	return SenderEntry{}, false
}
