// Package matcher resolves free text against the medicine catalog: ranked
// typo-tolerant search for the search box, and the simpler first-word
// containment used by the chat intents.
package matcher

import (
	"html"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/giygas/pharmly/entities"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// MaxResults caps the ranked search output
	MaxResults = 6
	// MinQueryLength avoids noisy single-character matches
	MinQueryLength = 2

	scorePrefix      = 0
	scoreContains    = 1
	scoreAltName     = 2
	scoreFuzzyBase   = 3
	scoreDiscard     = 10
	maxFuzzyDistance = 2
)

var firstIntegerRegex = regexp.MustCompile(`\d+`)

// Match is a ranked search hit. Lower scores are better.
type Match struct {
	Record entities.MedicineRecord `json:"record"`
	Score  int                     `json:"score"`
}

// Normalize lowercases, trims and folds diacritics so that "Paracétamol"
// and "paracetamol" compare equal.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if isASCII(s) {
		return s
	}

	// A transformer keeps state between calls, build one per use
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// EditDistance is the Levenshtein distance between a and b with unit costs
// for insertion, deletion and substitution.
func EditDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	m, n := len(ra), len(rb)
	if m == 0 {
		return n
	}
	if n == 0 {
		return m
	}

	prev := make([]int, n+1)
	curr := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1]
				continue
			}
			curr[j] = 1 + min(prev[j], curr[j-1], prev[j-1])
		}
		prev, curr = curr, prev
	}

	return prev[n]
}

// Score ranks one record against an already normalized query. The second
// return value is false when the record should be discarded.
func Score(query string, record entities.MedicineRecord) (int, bool) {
	name := Normalize(record.Name)

	switch {
	case strings.HasPrefix(name, query):
		return scorePrefix, true
	case strings.Contains(name, query):
		return scoreContains, true
	case strings.Contains(Normalize(record.BrandName), query),
		strings.Contains(Normalize(record.GenericName), query):
		return scoreAltName, true
	}

	word := truncateRunes(firstWord(name), len([]rune(query))+maxFuzzyDistance)
	dist := EditDistance(query, word)
	if dist > maxFuzzyDistance {
		return scoreDiscard, false
	}

	score := scoreFuzzyBase + dist
	return score, score < scoreDiscard
}

// Search returns up to MaxResults records ranked by relevance, ties kept in
// catalog order. Short queries and empty catalogs yield an empty result.
func Search(query string, records []entities.MedicineRecord) []Match {
	q := Normalize(query)
	if len([]rune(q)) < MinQueryLength || len(records) == 0 {
		return []Match{}
	}

	matches := make([]Match, 0, len(records))
	for _, rec := range records {
		if score, ok := Score(q, rec); ok {
			matches = append(matches, Match{Record: rec, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score < matches[j].Score
	})

	if len(matches) > MaxResults {
		matches = matches[:MaxResults]
	}
	return matches
}

// Resolve finds the first record, in catalog order, whose first name word
// appears anywhere in the utterance. No match is a normal outcome.
func Resolve(utterance string, records []entities.MedicineRecord) (entities.MedicineRecord, bool) {
	l := Normalize(utterance)
	for _, rec := range records {
		word := firstWord(Normalize(rec.Name))
		if word != "" && strings.Contains(l, word) {
			return rec, true
		}
	}
	return entities.MedicineRecord{}, false
}

// FirstInteger extracts the first run of digits in text.
func FirstInteger(text string) (int, bool) {
	digits := firstIntegerRegex.FindString(text)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Highlight escapes text and wraps case-insensitive occurrences of query in
// a match span for the search dropdown.
func Highlight(text, query string) string {
	escaped := html.EscapeString(text)
	query = strings.TrimSpace(query)
	if query == "" {
		return escaped
	}

	re, err := regexp.Compile(`(?i)(` + regexp.QuoteMeta(html.EscapeString(query)) + `)`)
	if err != nil {
		return escaped
	}
	return re.ReplaceAllString(escaped, `<span class="match-hl">$1</span>`)
}

func firstWord(s string) string {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
