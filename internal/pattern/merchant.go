package pattern

import (
	"regexp"
	"strings"
)

// MerchantPattern is a positional expression whose first capture group is a
// merchant candidate.
type MerchantPattern struct {
	Regex      *regexp.Regexp
	Name       string
	Confidence float64
}

// name captures up to five tokens; stop words are trimmed afterwards.
const name = `([a-z0-9][a-z0-9&._*@'/\-]*(?:\s+[a-z0-9][a-z0-9&._*@'/\-]*){0,4})`

func merchant(patternName string, confidence float64, expr string) MerchantPattern {
	return MerchantPattern{
		Name:       patternName,
		Confidence: confidence,
		Regex:      regexp.MustCompile(`(?i)` + expr),
	}
}

// MerchantPatterns are tried in order; the first non-blank candidate wins.
var MerchantPatterns = []MerchantPattern{
	merchant("at", 0.8, `\bat\s+`+name),
	merchant("to", 0.8, `\bto\s+`+name),
	merchant("from", 0.8, `\bfrom\s+`+name),
	merchant("via", 0.8, `\bvia\s+`+name),
	merchant("labelled", 0.8, `\b(?:merchant|vendor|payee|info)\s*[:\-]\s*`+name),
	merchant("upi", 0.7, `\bupi[\s/:\-]+`+name),
}

// merchantStopWords end a merchant candidate. A candidate whose first token
// is a stop word is blank.
var merchantStopWords = map[string]bool{
	"on": true, "via": true, "ref": true, "refno": true, "for": true, "using": true,
	"at": true, "from": true, "to": true, "with": true, "is": true, "has": true,
	"avl": true, "avbl": true, "bal": true, "balance": true, "not": true, "if": true,
	"a/c": true, "ac": true, "acct": true, "account": true, "your": true, "you": true,
	"upi": true, "imps": true, "neft": true, "rtgs": true, "card": true, "bank": true,
	"the": true, "a": true, "an": true, "and": true, "by": true, "rs": true, "rs.": true,
	"inr": true, "txn": true, "dated": true, "date": true, "call": true, "sms": true,
	"info": true, "ending": true, "xx": true, "id": true,
	"successful": true, "successfully": true, "success": true, "done": true,
	"completed": true, "complete": true, "processed": true,
}

// CleanMerchant trims a raw candidate at the first stop word and strips
// trailing punctuation. It returns "" when nothing usable remains.
func CleanMerchant(candidate string) string {
	var kept []string
	for _, token := range strings.Fields(candidate) {
		bare := strings.ToLower(strings.Trim(token, ".,;:-"))
		if merchantStopWords[bare] || isAccountMask(bare) || isNumeric(bare) {
			break
		}
		kept = append(kept, token)
	}

	cleaned := strings.Trim(strings.Join(kept, " "), " .,;:-/'")
	if len(cleaned) < 2 {
		return ""
	}
	return cleaned
}

// FindMerchant returns the first usable merchant candidate and the confidence
// of the pattern that produced it.
func FindMerchant(text string) (string, float64, bool) {
	for _, p := range MerchantPatterns {
		for _, m := range p.Regex.FindAllStringSubmatch(text, -1) {
			if len(m) < 2 {
				continue
			}
			if cleaned := CleanMerchant(m[1]); cleaned != "" {
				return cleaned, p.Confidence, true
			}
		}
	}
	return "", 0, false
}

// isAccountMask matches masked account references such as "xx1234" or "**1234".
func isAccountMask(token string) bool {
	trimmed := strings.TrimLeft(token, "x*")
	return trimmed != token && isNumeric(trimmed)
}

func isNumeric(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if (r < '0' || r > '9') && r != '-' && r != '/' && r != '.' && r != ',' && r != ':' {
			return false
		}
	}
	return true
}
