// Package merchant canonicalises raw merchant strings before they are stored
// or displayed.
//
// Resolution tries, in order: exact match against previously seen merchants,
// the alias tables, token similarity against previously seen merchants, and a
// last-seen heuristic. If nothing matches, the normalised input is returned.
package merchant

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/Veraticus/smsledger/internal/model"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// History supplies the merchant names seen so far. Implementations may fail;
// a failure is treated as having no history.
type History interface {
	UniqueMerchantNames(ctx context.Context) ([]string, error)
}

// Alias maps a fragment of a normalised merchant string to a canonical name.
type Alias struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
}

// BuiltinAliases covers common payment-gateway prefixes and legal entity names.
var BuiltinAliases = []Alias{
	{Key: "ZMT", Name: "ZOMATO"},
	{Key: "ZOMATO", Name: "ZOMATO"},
	{Key: "BUNDL TECHNOLOGIES", Name: "SWIGGY"},
	{Key: "SWIGGY", Name: "SWIGGY"},
	{Key: "ANI TECHNOLOGIES", Name: "OLA"},
	{Key: "OLACABS", Name: "OLA"},
	{Key: "UBER", Name: "UBER"},
	{Key: "AMAZON PAY", Name: "AMAZON"},
	{Key: "AMZN", Name: "AMAZON"},
	{Key: "FLIPKART", Name: "FLIPKART"},
	{Key: "PAYTM", Name: "PAYTM"},
	{Key: "IRCTC", Name: "IRCTC"},
	{Key: "BIGBASKET", Name: "BIGBASKET"},
	{Key: "NETFLIX", Name: "NETFLIX"},
	{Key: "SPOTIFY", Name: "SPOTIFY"},
}

// minSharedTokens is the token overlap needed for a similarity match.
const minSharedTokens = 2

// minTokenLength is the shortest token considered for similarity.
const minTokenLength = 3

// Resolver canonicalises merchant names. It is safe for concurrent use.
type Resolver struct {
	history    History
	configured []Alias
	learned    []Alias
	mu         sync.RWMutex
}

// NewResolver creates a resolver. history may be nil. configured aliases are
// consulted before BuiltinAliases.
func NewResolver(history History, configured []Alias) *Resolver {
	return &Resolver{
		history:    history,
		configured: normalizeAliases(configured),
	}
}

// Normalize upper-cases raw, strips '*', '#' and '@', and collapses whitespace.
func Normalize(raw string) string {
	stripped := strings.Map(func(r rune) rune {
		switch r {
		case '*', '#', '@':
			return -1
		}
		return r
	}, strings.ToUpper(raw))
	return strings.Join(strings.Fields(stripped), " ")
}

// Resolve returns the canonical form of raw. It never fails; blank input
// resolves to model.UnknownMerchant.
func (r *Resolver) Resolve(ctx context.Context, raw string) string {
	normalized := Normalize(raw)
	if normalized == "" {
		return model.UnknownMerchant
	}

	known, ok := r.knownMerchants(ctx)
	if ok {
		if name, found := exactMatch(normalized, known); found {
			return name
		}
		if name, found := r.aliasMatch(normalized); found {
			return name
		}
		if name, found := similarityMatch(normalized, known); found {
			return name
		}
	}

	if name, found := r.lastSeen(normalized); found {
		return name
	}

	return normalized
}

// LearnAlias records a user correction for the lifetime of the process.
// Durable mappings belong in storage.
func (r *Resolver) LearnAlias(raw, corrected string) {
	key := Normalize(raw)
	name := strings.TrimSpace(corrected)
	if key == "" || name == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, a := range r.learned {
		if a.Key == key {
			r.learned[i].Name = name
			return
		}
	}
	r.learned = append(r.learned, Alias{Key: key, Name: name})
}

func (r *Resolver) knownMerchants(ctx context.Context) ([]string, bool) {
	if r.history == nil {
		return nil, true
	}
	names, err := r.history.UniqueMerchantNames(ctx)
	if err != nil {
		slog.Debug("Merchant history unavailable", "error", err)
		return nil, false
	}
	return names, true
}

func exactMatch(normalized string, known []string) (string, bool) {
	for _, name := range known {
		if Normalize(name) == normalized {
			return name, true
		}
	}
	return "", false
}

// aliasMatch checks learned hints, then configured aliases, then the built-in table.
func (r *Resolver) aliasMatch(normalized string) (string, bool) {
	r.mu.RLock()
	learned := slices.Clone(r.learned)
	r.mu.RUnlock()

	for _, table := range [][]Alias{learned, r.configured, BuiltinAliases} {
		for _, a := range table {
			if strings.Contains(normalized, a.Key) {
				return a.Name, true
			}
		}
	}
	return "", false
}

// similarityMatch picks the known merchant sharing the most tokens with
// normalized, breaking ties by edit distance.
func similarityMatch(normalized string, known []string) (string, bool) {
	input := tokenSet(normalized)
	if len(input) < minSharedTokens {
		return "", false
	}

	best := ""
	bestShared := 0
	bestDistance := 0
	for _, name := range known {
		candidate := Normalize(name)
		shared := 0
		for token := range tokenSet(candidate) {
			if input[token] {
				shared++
			}
		}
		if shared < minSharedTokens {
			continue
		}

		distance := levenshtein.DistanceForStrings([]rune(normalized), []rune(candidate), levenshtein.DefaultOptions)
		if shared > bestShared || (shared == bestShared && distance < bestDistance) {
			best, bestShared, bestDistance = name, shared, distance
		}
	}
	return best, bestShared > 0
}

// lastSeen is an extension point for matching against the most recently seen
// merchant. It currently never matches.
func (r *Resolver) lastSeen(string) (string, bool) {
	return "", false
}

func tokenSet(s string) map[string]bool {
	tokens := strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', '*', '#', '@', '&':
			return true
		}
		return false
	})

	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		if len([]rune(t)) >= minTokenLength {
			set[t] = true
		}
	}
	return set
}

func normalizeAliases(aliases []Alias) []Alias {
	out := make([]Alias, 0, len(aliases))
	for _, a := range aliases {
		key := Normalize(a.Key)
		name := strings.TrimSpace(a.Name)
		if key == "" || name == "" {
			continue
		}
		out = append(out, Alias{Key: key, Name: name})
	}
	return out
}
