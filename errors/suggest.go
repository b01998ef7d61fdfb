package errors

import (
	"cmp"
	"slices"
	"strings"
)

// MaxSuggestionDistance is the largest edit distance a suggestion may have.
const MaxSuggestionDistance = 3

// MaxSuggestions caps the number of suggestions returned.
const MaxSuggestions = 3

// Suggestion is a candidate name and its edit distance from the target.
type Suggestion struct {
	Value    string
	Distance int
}

// SuggestSimilar returns the candidates closest to target. Names are
// compared case-insensitively so that a miscased name finds its match.
// Only the candidates sharing the smallest distance are returned, at most
// MaxSuggestions of them, sorted by name.
func SuggestSimilar(target string, candidates []string) []Suggestion {
	if target == "" {
		return nil
	}
	target = strings.ToLower(target)
	limit := distanceLimit(len(target))

	var found []Suggestion
	best := limit + 1
	for _, candidate := range candidates {
		lower := strings.ToLower(candidate)
		if lower == "" || lower == target {
			continue
		}
		d := levenshteinDistance(target, lower)
		switch {
		case d > best:
			continue
		case d < best:
			best = d
			found = found[:0]
		}
		found = append(found, Suggestion{Value: candidate, Distance: d})
	}

	slices.SortFunc(found, func(a, b Suggestion) int {
		return cmp.Compare(a.Value, b.Value)
	})
	if len(found) > MaxSuggestions {
		found = found[:MaxSuggestions]
	}
	return found
}

// Short names tolerate fewer edits, otherwise everything is "similar".
func distanceLimit(n int) int {
	switch {
	case n <= 3:
		return 1
	case n <= 5:
		return 2
	}
	return MaxSuggestionDistance
}

// FormatSuggestions renders suggestions as a hint, or "" when there are
// none.
func FormatSuggestions(suggestions []Suggestion) string {
	quoted := make([]string, len(suggestions))
	for i, s := range suggestions {
		quoted[i] = "'" + s.Value + "'"
	}
	switch len(quoted) {
	case 0:
		return ""
	case 1:
		return "Did you mean " + quoted[0] + "?"
	}
	return "Did you mean one of: " + strings.Join(quoted, ", ") + "?"
}

// levenshteinDistance is the edit distance between a and b, computed over
// bytes since PHP identifiers are ASCII.
func levenshteinDistance(a, b string) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(a); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			next := min(row[j]+1, row[j-1]+1, diag+cost)
			diag, row[j] = row[j], next
		}
	}
	return row[len(b)]
}
