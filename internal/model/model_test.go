package model

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Date
		wantErr bool
	}{
		{name: "date only", in: "1687-07-05", want: NewDate(1687, time.July, 5)},
		{name: "rfc3339", in: "2023-01-01T00:00:00.000Z", want: NewDate(2023, time.January, 1)},
		{name: "rfc3339 with offset keeps utc day", in: "2023-01-01T23:30:00-02:00", want: NewDate(2023, time.January, 2)},
		{name: "garbage", in: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got.Time), "got %s", got)
		})
	}
}

func TestDate_JSON(t *testing.T) {
	b, err := json.Marshal(NewDate(1905, time.June, 30))
	require.NoError(t, err)
	assert.Equal(t, `"1905-06-30"`, string(b))

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"1905-06-30"`), &d))
	assert.Equal(t, 1905, d.Year())

	assert.Error(t, json.Unmarshal([]byte(`1905`), &d))
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2020, 2, 29, 0, 0, 0, 0, time.Local)))
	assert.Equal(t, "2020-02-29", d.String())

	require.NoError(t, d.Scan([]byte("2021-03-01")))
	assert.Equal(t, "2021-03-01", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}

func TestArticleUpdate_Apply(t *testing.T) {
	base := Article{
		Title:           "Original",
		Authors:         "Newton I.",
		Abstract:        "Gravity",
		FullText:        "...",
		PublicationDate: NewDate(1687, time.July, 5),
		DOI:             "10.1/abc",
	}

	t.Run("blank and omitted fields keep stored values", func(t *testing.T) {
		a := base
		ArticleUpdate{Title: strPtr(""), Abstract: strPtr("   ")}.Apply(&a)
		assert.Equal(t, base, a)
	})

	t.Run("non-empty fields overwrite", func(t *testing.T) {
		a := base
		d := NewDate(1700, time.January, 1)
		ArticleUpdate{Title: strPtr("  New title "), PublicationDate: &d}.Apply(&a)
		assert.Equal(t, "New title", a.Title)
		assert.Equal(t, "1700-01-01", a.PublicationDate.String())
		assert.Equal(t, base.Authors, a.Authors)
	})
}

func TestCitationUpdate_Decode(t *testing.T) {
	year := 1999
	base := Citation{Authors: "Rossi M.", Title: "Opera", Year: &year, DOI: "10.2/x", Notes: "n"}

	tests := []struct {
		name  string
		body  string
		check func(t *testing.T, c Citation)
	}{
		{
			name: "omitted fields are unchanged",
			body: `{}`,
			check: func(t *testing.T, c Citation) {
				assert.Equal(t, base, c)
			},
		},
		{
			name: "empty authors is preserved",
			body: `{"authors": "", "title": "Nuova"}`,
			check: func(t *testing.T, c Citation) {
				assert.Equal(t, "Rossi M.", c.Authors)
				assert.Equal(t, "Nuova", c.Title)
			},
		},
		{
			name: "explicit null and empty clear optional fields",
			body: `{"year": null, "doi": "", "notes": null}`,
			check: func(t *testing.T, c Citation) {
				assert.Nil(t, c.Year)
				assert.Empty(t, c.DOI)
				assert.Empty(t, c.Notes)
			},
		},
		{
			name: "string year is coerced",
			body: `{"year": "2001"}`,
			check: func(t *testing.T, c Citation) {
				require.NotNil(t, c.Year)
				assert.Equal(t, 2001, *c.Year)
			},
		},
		{
			name: "unparseable year clears",
			body: `{"year": "soon"}`,
			check: func(t *testing.T, c Citation) {
				assert.Nil(t, c.Year)
			},
		},
		{
			name: "year beyond int32 clears",
			body: `{"year": 1e300}`,
			check: func(t *testing.T, c Citation) {
				assert.Nil(t, c.Year)
			},
		},
		{
			name: "string year beyond int32 clears",
			body: `{"year": "99999999999"}`,
			check: func(t *testing.T, c Citation) {
				assert.Nil(t, c.Year)
			},
		},
		{
			name: "largest int32 year is kept",
			body: `{"year": 2147483647}`,
			check: func(t *testing.T, c Citation) {
				require.NotNil(t, c.Year)
				assert.Equal(t, math.MaxInt32, *c.Year)
			},
		},
		{
			name: "year zero is a value",
			body: `{"year": 0}`,
			check: func(t *testing.T, c Citation) {
				require.NotNil(t, c.Year)
				assert.Equal(t, 0, *c.Year)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var u CitationUpdate
			require.NoError(t, json.Unmarshal([]byte(tt.body), &u))

			c := base
			c.Year = &year
			u.Apply(&c)
			tt.check(t, c)
		})
	}
}

func TestCitationUpdate_Marshal(t *testing.T) {
	b, err := json.Marshal(CitationUpdate{Title: strPtr("T"), Notes: SomeString(""), Year: NoYear()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title": "T", "notes": null, "year": null}`, string(b))

	b, err = json.Marshal(CitationUpdate{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(b))
}

func TestCitationDraft_Legacy(t *testing.T) {
	var in ArticleInput
	body := `{
		"title": "Studio",
		"citations": [
			"Galilei, Dialogo",
			{"citedBy": "Halley E.", "year": 1686, "comment": "Letter"},
			{"authors": "Hooke R.", "title": "Micrographia", "year": "1665", "doi": "10.1/h"}
		]
	}`
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	require.Len(t, in.Citations, 3)

	assert.Equal(t, UnknownAuthors, in.Citations[0].Authors)
	assert.Equal(t, "Galilei, Dialogo", in.Citations[0].Title)
	assert.Nil(t, in.Citations[0].Year.Value)

	assert.Equal(t, "Halley E.", in.Citations[1].Authors)
	assert.Equal(t, "Letter", in.Citations[1].Title)
	require.NotNil(t, in.Citations[1].Year.Value)
	assert.Equal(t, 1686, *in.Citations[1].Year.Value)

	c := in.Citations[2].Citation("article-1")
	assert.Equal(t, "article-1", c.ArticleID)
	assert.Equal(t, "Hooke R.", c.Authors)
	assert.Equal(t, 1665, *c.Year)
	assert.Equal(t, "10.1/h", c.DOI)
}

func TestCitationInput_JSON(t *testing.T) {
	var in CitationInput
	require.NoError(t, json.Unmarshal([]byte(`{"articleId": " a1 ", "authors": "X", "title": "Y", "year": ""}`), &in))
	assert.Equal(t, "a1", in.ArticleID)
	assert.Equal(t, "X", in.Authors)
	assert.Nil(t, in.Year.Value)

	b, err := json.Marshal(CitationInput{ArticleID: "a1", CitationDraft: CitationDraft{Authors: "X", Title: "Y", Year: SomeYear(2000)}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"articleId": "a1", "authors": "X", "title": "Y", "year": 2000}`, string(b))
}

func TestArticle_JSONShape(t *testing.T) {
	a := Article{
		ID:              "1",
		Title:           "Studio",
		Authors:         "Newton I.",
		FullText:        "...",
		PublicationDate: NewDate(1687, time.July, 5),
		CreatedAt:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Citations:       []Citation{},
	}
	b, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "1",
		"title": "Studio",
		"authors": "Newton I.",
		"fullText": "...",
		"publicationDate": "1687-07-05",
		"createdAt": "2024-01-01T00:00:00Z",
		"citations": []
	}`, string(b))
}
