// Package search interprets the free-text term of the article list.
//
// A term matches an article when it is a case-insensitive substring of the
// title or of the authors. A term that is an integer in [MinYear, MaxYear]
// additionally matches every article published during that calendar year.
// An empty or blank term matches everything.
package search

import (
	"strconv"
	"strings"
	"time"
)

const (
	MinYear = 1900
	MaxYear = 2100
)

// Criteria is a parsed search term.
type Criteria struct {
	// Text is the trimmed term; empty means no filtering.
	Text string
	// Year is set when Text is also a candidate publication year.
	Year int
}

// Parse builds the criteria for a raw search term.
func Parse(term string) Criteria {
	c := Criteria{Text: strings.TrimSpace(term)}
	if y, err := strconv.Atoi(c.Text); err == nil && y >= MinYear && y <= MaxYear {
		c.Year = y
	}
	return c
}

// IsEmpty reports whether the criteria match every article.
func (c Criteria) IsEmpty() bool {
	return c.Text == ""
}

// HasYear reports whether the term is also a candidate year.
func (c Criteria) HasYear() bool {
	return c.Year != 0
}

// YearRange returns the half-open interval [Jan 1 of Year, Jan 1 of Year+1).
func (c Criteria) YearRange() (from, to time.Time) {
	from = time.Date(c.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern returns Text as a substring pattern for SQL LIKE/ILIKE with
// backslash as the escape character.
func (c Criteria) LikePattern() string {
	return "%" + likeEscaper.Replace(c.Text) + "%"
}
