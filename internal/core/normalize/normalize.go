// Package normalize canonicalizes filter text before it reaches a query
//
// Stored columns are compared as written, so only changes the database side
// can mirror are applied here. Term keeps case for ILIKE. Tag and Names lower
// the text the way postgres lower() does, and the queries lower the column.
package normalize

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// MaxTagLen bounds a single normalized tag in runes
const MaxTagLen = 64

// junk reports code points that never belong in a query parameter
// tab and line breaks survive so whitespace collapsing still sees them
func junk(r rune) bool {
	switch r {
	case '\t', '\n', '\r':
		return false
	}
	return r < 0x20 || (r >= 0x7f && r <= 0x9f)
}

var stripJunk = runes.Remove(runes.Predicate(junk))

// casers are stateful, so each goroutine borrows its own
var casers = sync.Pool{
	New: func() any { return cases.Lower(language.Und) },
}

// Sanitize drops ASCII and C1 controls, DEL and invalid UTF-8
func Sanitize(s string) string {
	s = strings.ToValidUTF8(s, "")
	if strings.IndexFunc(s, junk) < 0 {
		return s
	}
	out, _, err := transform.String(stripJunk, s)
	if err != nil {
		return strings.Map(func(r rune) rune {
			if junk(r) {
				return -1
			}
			return r
		}, s)
	}
	return out
}

// Lower sanitizes s and lowers its case, whitespace is left alone
func Lower(s string) string {
	s = Sanitize(s)
	if s == "" {
		return s
	}
	c := casers.Get().(cases.Caser)
	defer casers.Put(c)
	c.Reset()
	return c.String(s)
}

// Term cleans a free text search term, case is kept because ILIKE handles it
func Term(s string) string { return squash(Sanitize(s)) }

// Tag normalizes one genre tag, an empty result means drop it
func Tag(s string) string {
	t := squash(Lower(strings.TrimPrefix(strings.TrimSpace(s), "#")))
	if r := []rune(t); len(r) > MaxTagLen {
		t = strings.TrimSpace(string(r[:MaxTagLen]))
	}
	return t
}

// Tags normalizes a tag list, keeping the first spelling of each tag in order
func Tags(in []string) []string { return uniq(in, Tag) }

// Names lowers usernames and strips a leading @
func Names(in []string) []string {
	return uniq(in, func(s string) string {
		return strings.TrimPrefix(squash(Lower(s)), "@")
	})
}

func uniq(in []string, canon func(string) string) []string {
	var out []string
	seen := map[string]bool{}
	for _, s := range in {
		c := canon(s)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// squash turns every whitespace run into one space and trims the ends
func squash(s string) string { return strings.Join(strings.Fields(s), " ") }
