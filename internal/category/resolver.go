package category

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"hearth/internal/models"
)

// minFuzzyLen is the minimum normalized label length (in runes) before the
// fuzzy rule applies; short labels produce too many false positives.
const minFuzzyLen = 4

// maxFuzzyDistance is the largest edit distance the fuzzy rule accepts.
const maxFuzzyDistance = 1

// Rule attempts to map a normalized label to a canonical category id.
// Rules are evaluated in order; the first match wins.
type Rule struct {
	Name  string
	Match func(label string, txType models.TransactionType) (string, bool)
}

// Resolver turns raw or AI-extracted category labels into canonical ids.
// Resolve is a total function: it never fails and always returns a
// registry id.
type Resolver struct {
	rules []Rule
}

// NewResolver builds a resolver with the default rule chain:
// exact label match, longest-substring containment, then fuzzy match.
func NewResolver() *Resolver {
	return &Resolver{rules: []Rule{
		{Name: "exact", Match: matchExact},
		{Name: "substring", Match: matchSubstring},
		{Name: "fuzzy", Match: matchFuzzy},
	}}
}

// Resolve returns the canonical category id for a transaction. A supplied
// non-sentinel id is trusted as-is; otherwise the raw label runs through the
// rule chain and the type-dependent default closes the chain.
func (r *Resolver) Resolve(rawLabel, explicitID string, txType models.TransactionType) string {
	if explicitID != "" && explicitID != Unresolved {
		return explicitID
	}

	label := Normalize(rawLabel)
	if label != "" {
		for _, rule := range r.rules {
			if id, ok := rule.Match(label, txType); ok {
				return id
			}
		}
	}

	return DefaultFor(txType)
}

// stripMarks removes diacritical marks and symbol characters (including
// emoji) from the input.
var stripMarks = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	runes.Remove(runes.In(unicode.S)),
	norm.NFC,
)

// Normalize lowercases and trims a label after stripping diacritics and
// symbol/emoji characters. The result may be empty.
func Normalize(raw string) string {
	out, _, err := transform.String(stripMarks, raw)
	if err != nil {
		out = raw
	}
	return strings.TrimSpace(strings.ToLower(out))
}

func matchExact(label string, txType models.TransactionType) (string, bool) {
	if id, ok := labels[label]; ok && typeOf(id) == txType {
		return id, true
	}
	return "", false
}

// matchSubstring finds table keys contained in the label. The longest key
// wins; ties break lexicographically so resolution stays deterministic.
func matchSubstring(label string, txType models.TransactionType) (string, bool) {
	var candidates []string
	for key, id := range labels {
		if typeOf(id) != txType {
			continue
		}
		if strings.Contains(label, key) {
			candidates = append(candidates, key)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	sort.Slice(candidates, func(i, j int) bool {
		if len(candidates[i]) != len(candidates[j]) {
			return len(candidates[i]) > len(candidates[j])
		}
		return candidates[i] < candidates[j]
	})
	return labels[candidates[0]], true
}

// matchFuzzy tolerates small typos ("sallary", "grocerys") using edit
// distance against the label table.
func matchFuzzy(label string, txType models.TransactionType) (string, bool) {
	if utf8.RuneCountInString(label) < minFuzzyLen {
		return "", false
	}

	best := ""
	bestDist := maxFuzzyDistance + 1
	for key, id := range labels {
		if typeOf(id) != txType {
			continue
		}
		d := levenshtein.ComputeDistance(label, key)
		if d < bestDist || (d == bestDist && best != "" && key < best) {
			best = key
			bestDist = d
		}
	}
	if bestDist > maxFuzzyDistance {
		return "", false
	}
	return labels[best], true
}
