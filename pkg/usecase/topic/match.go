package topic

import (
	"strings"
	"unicode"
)

// query is a lowercased question split into words. Words are runs of letters
// and digits; everything else separates them.
type query struct {
	text   string
	words  []string
	joined string
}

func newQuery(text string) *query {
	text = strings.ToLower(text)
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return &query{
		text:   text,
		words:  words,
		joined: " " + strings.Join(words, " "),
	}
}

// containsAny reports whether any keyword occurs anywhere in the text,
// including inside a word ("seafood" contains "food").
func (q *query) containsAny(keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(q.text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// has reports whether keyword occurs at the start of a word. Keywords of
// three characters or fewer must match a whole word, so "hi" does not fire
// on "this" and "ai" not on "detail". Three-character keywords also accept a
// plural "s" ("apps", "jobs").
func (q *query) has(keyword string) bool {
	kw := normalizeKeyword(keyword)
	if kw == "" {
		return false
	}

	if len([]rune(kw)) <= 3 && !strings.Contains(kw, " ") {
		for _, w := range q.words {
			if w == kw || (len(kw) == 3 && w == kw+"s") {
				return true
			}
		}
		return false
	}

	return strings.Contains(q.joined, " "+kw)
}

func (q *query) hasAny(keywords ...string) bool {
	for _, kw := range keywords {
		if q.has(kw) {
			return true
		}
	}
	return false
}

func normalizeKeyword(kw string) string {
	return newQuery(kw).joined[1:]
}
