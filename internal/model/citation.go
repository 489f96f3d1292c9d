package model

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// UnknownAuthors is stored for legacy citations that only carried free text.
const UnknownAuthors = "Unknown"

// Citation is a structured reference owned by exactly one article.
type Citation struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"articleId"`
	Authors   string    `json:"authors"`
	Title     string    `json:"title"`
	Year      *int      `json:"year,omitempty"`
	DOI       string    `json:"doi,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CitationDraft is a citation supplied together with a new article.
// It has no id and no article reference yet.
type CitationDraft struct {
	Authors string       `json:"authors" validate:"required"`
	Title   string       `json:"title" validate:"required"`
	Year    OptionalYear `json:"year,omitzero"`
	DOI     string       `json:"doi,omitempty"`
	Notes   string       `json:"notes,omitempty"`
}

// UnmarshalJSON accepts the structured shape as well as the two legacy shapes:
// a bare string, and the {citedBy, year, comment} object.
func (d *CitationDraft) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var text string
		if err := json.Unmarshal(b, &text); err != nil {
			return err
		}
		*d = CitationDraft{Authors: UnknownAuthors, Title: text}
		return nil
	}

	var raw struct {
		Authors string       `json:"authors"`
		Title   string       `json:"title"`
		Year    OptionalYear `json:"year"`
		DOI     string       `json:"doi"`
		Notes   string       `json:"notes"`
		CitedBy string       `json:"citedBy"`
		Comment string       `json:"comment"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*d = CitationDraft{
		Authors: raw.Authors,
		Title:   raw.Title,
		Year:    raw.Year,
		DOI:     raw.DOI,
		Notes:   raw.Notes,
	}
	if d.Authors == "" {
		d.Authors = raw.CitedBy
	}
	if raw.Comment != "" {
		if d.Title == "" {
			d.Title = raw.Comment
		} else if d.Notes == "" {
			d.Notes = raw.Comment
		}
	}
	return nil
}

// Normalize trims the text fields.
func (d *CitationDraft) Normalize() {
	d.Authors = strings.TrimSpace(d.Authors)
	d.Title = strings.TrimSpace(d.Title)
	d.DOI = strings.TrimSpace(d.DOI)
	d.Notes = strings.TrimSpace(d.Notes)
}

// Citation builds the record to store for the given article.
func (d CitationDraft) Citation(articleID string) Citation {
	return Citation{
		ArticleID: articleID,
		Authors:   d.Authors,
		Title:     d.Title,
		Year:      d.Year.Value,
		DOI:       d.DOI,
		Notes:     d.Notes,
	}
}

// CitationInput is the body of a standalone citation creation request.
type CitationInput struct {
	ArticleID string `json:"articleId"`
	CitationDraft
}

// UnmarshalJSON reads articleId and decodes the rest as a CitationDraft.
// The promoted UnmarshalJSON of the draft would otherwise swallow articleId.
func (in *CitationInput) UnmarshalJSON(b []byte) error {
	var ref struct {
		ArticleID string `json:"articleId"`
	}
	if err := json.Unmarshal(b, &ref); err != nil {
		return err
	}
	var draft CitationDraft
	if err := json.Unmarshal(b, &draft); err != nil {
		return err
	}
	*in = CitationInput{ArticleID: strings.TrimSpace(ref.ArticleID), CitationDraft: draft}
	return nil
}

// CitationUpdate is the body of a partial citation update.
// Authors and Title follow the article rule (kept when blank).
// Year, DOI and Notes overwrite whenever the key is present, so an explicit
// null or "" clears them.
type CitationUpdate struct {
	Authors *string        `json:"authors,omitempty"`
	Title   *string        `json:"title,omitempty"`
	Year    OptionalYear   `json:"year,omitzero"`
	DOI     OptionalString `json:"doi,omitzero"`
	Notes   OptionalString `json:"notes,omitzero"`
}

// Apply merges the update into c.
func (u CitationUpdate) Apply(c *Citation) {
	setIfPresent(&c.Authors, u.Authors)
	setIfPresent(&c.Title, u.Title)
	if u.Year.Set {
		c.Year = u.Year.Value
	}
	if u.DOI.Set {
		c.DOI = strings.TrimSpace(u.DOI.Value)
	}
	if u.Notes.Set {
		c.Notes = strings.TrimSpace(u.Notes.Value)
	}
}
