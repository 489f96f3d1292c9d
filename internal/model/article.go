package model

import (
	"strings"
	"time"
)

// Article is a publication in the portfolio.
// Citations are not stored with the article: they are looked up at read time
// and always reflect the citation records that currently reference it.
type Article struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Authors         string     `json:"authors"`
	Abstract        string     `json:"abstract,omitempty"`
	FullText        string     `json:"fullText"`
	PublicationDate Date       `json:"publicationDate"`
	DOI             string     `json:"doi,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	Citations       []Citation `json:"citations"`
}

// ArticleInput is the body of an article creation request.
type ArticleInput struct {
	Title           string          `json:"title" validate:"required"`
	Authors         string          `json:"authors" validate:"required"`
	Abstract        string          `json:"abstract,omitempty"`
	FullText        string          `json:"fullText" validate:"required"`
	PublicationDate *Date           `json:"publicationDate" validate:"required"`
	DOI             string          `json:"doi,omitempty"`
	Citations       []CitationDraft `json:"citations,omitempty" validate:"dive"`
}

// Normalize trims every text field, including the embedded citation drafts.
func (in *ArticleInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Authors = strings.TrimSpace(in.Authors)
	in.Abstract = strings.TrimSpace(in.Abstract)
	in.FullText = strings.TrimSpace(in.FullText)
	in.DOI = strings.TrimSpace(in.DOI)
	for i := range in.Citations {
		in.Citations[i].Normalize()
	}
}

// ArticleUpdate is the body of a partial article update.
// A field is applied only when it is present and not blank; see Apply.
type ArticleUpdate struct {
	Title           *string `json:"title,omitempty"`
	Authors         *string `json:"authors,omitempty"`
	Abstract        *string `json:"abstract,omitempty"`
	FullText        *string `json:"fullText,omitempty"`
	PublicationDate *Date   `json:"publicationDate,omitempty"`
	DOI             *string `json:"doi,omitempty"`
}

// Apply overwrites the fields of a that are supplied with a non-blank value.
// Omitted, null and blank fields keep the stored value.
func (u ArticleUpdate) Apply(a *Article) {
	setIfPresent(&a.Title, u.Title)
	setIfPresent(&a.Authors, u.Authors)
	setIfPresent(&a.Abstract, u.Abstract)
	setIfPresent(&a.FullText, u.FullText)
	setIfPresent(&a.DOI, u.DOI)
	if u.PublicationDate != nil && !u.PublicationDate.IsZero() {
		a.PublicationDate = *u.PublicationDate
	}
}

func setIfPresent(dst *string, v *string) {
	if v == nil {
		return
	}
	if s := strings.TrimSpace(*v); s != "" {
		*dst = s
	}
}

// Snapshot is a point-in-time export of the whole portfolio.
type Snapshot struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Articles    []Article `json:"articles"`
}

// BackupResult describes a snapshot uploaded to object storage.
type BackupResult struct {
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}
