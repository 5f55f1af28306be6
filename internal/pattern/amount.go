package pattern

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountPattern is one entry in the ordered amount extraction table. The first
// capture group holds the numeric literal.
type AmountPattern struct {
	Regex  *regexp.Regexp
	Name   string
	Family Family
}

const (
	currency = `(?:\brs\.?|\binr|₹)`
	number   = `([0-9][0-9,]*(?:\.[0-9]+)?)`
	verbs    = `(?:debited|credited|paid|received|spent|withdrawn|transferred|sent|deducted|deposited|charged|refunded)`
)

func amount(name string, family Family, expr string) AmountPattern {
	return AmountPattern{
		Name:   name,
		Family: family,
		Regex:  regexp.MustCompile(`(?i)` + expr),
	}
}

var bankAmountPatterns = []AmountPattern{
	// "Rs 1,250.00 debited from a/c", "INR 500 has been credited"
	amount("currency_then_verb", FamilyBank,
		currency+`\s*`+number+`\s+(?:has\s+been\s+|is\s+|was\s+)?(?:debited|credited|spent|paid|sent|received|withdrawn)`),
	// "debited with INR 500.00", "credited for Rs. 20"
	amount("verb_with_currency", FamilyBank,
		`\b(?:debited|credited)\s+(?:with|for|by)\s+`+currency+`\s*`+number),
	// "A/c XX1234 debited by 500.00"
	amount("account_debited_by", FamilyBank,
		`\ba/c\s+\S+\s+(?:is\s+)?(?:debited|credited)\s+(?:by|for|with)\s+`+currency+`?\s*`+number),
	// "Spent Rs.499 on card", "Sent Rs.20.00 from Kotak Bank"
	amount("spent_currency", FamilyBank,
		`\b(?:spent|sent|paid|txn\s+of|transaction\s+of)\s+`+currency+`\s*`+number),
}

var genericAmountPatterns = []AmountPattern{
	amount("currency_prefix", FamilyGeneric, currency+`\s*`+number),
	amount("currency_suffix", FamilyGeneric, `\b`+number+`\s*(?:rs\b|inr\b|₹|rupees\b)`),
	amount("verb_then_amount", FamilyGeneric, `\b`+verbs+`\s+(?:of\s+|for\s+|by\s+|with\s+|amount\s+)?`+number),
	amount("amount_then_verb", FamilyGeneric, `\b`+number+`\s+(?:has\s+been\s+|is\s+|was\s+)?`+verbs),
	amount("amount_label", FamilyGeneric, `\b(?:amount|amt)\b\s*(?:of|:|-|is)?\s*`+currency+`?\s*`+number),
	amount("payment_of", FamilyGeneric, `\bpayment\s+of\s+`+currency+`?\s*`+number),
	amount("comma_grouped", FamilyGeneric, `\b([0-9]{1,3}(?:,[0-9]{2,3})+(?:\.[0-9]{1,2})?)\b`),
	amount("decimal", FamilyGeneric, `\b([0-9]+\.[0-9]{2})\b`),
}

// AmountPatterns returns the bank-specific patterns followed by the generic ones.
func AmountPatterns() []AmountPattern {
	out := make([]AmountPattern, 0, len(bankAmountPatterns)+len(genericAmountPatterns))
	out = append(out, bankAmountPatterns...)
	return append(out, genericAmountPatterns...)
}

// ParseAmount converts a captured numeric literal into a positive decimal.
// Thousands separators are stripped first. The second result is false when
// the literal is not a number or is not strictly positive.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	cleaned = strings.TrimRight(cleaned, ".")
	if cleaned == "" {
		return decimal.Zero, false
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil || !value.IsPositive() {
		return decimal.Zero, false
	}
	return value, true
}

// FindAmount walks the amount table in order and returns the first match that
// parses to a positive value, along with the name of the pattern that won.
func FindAmount(text string) (decimal.Decimal, string, bool) {
	for _, p := range AmountPatterns() {
		m := p.Regex.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		if value, ok := ParseAmount(m[1]); ok {
			return value, p.Name, true
		}
	}
	return decimal.Zero, "", false
}
