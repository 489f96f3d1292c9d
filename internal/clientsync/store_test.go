package clientsync

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"scholarport/internal/client"
	"scholarport/internal/model"
)

type fakeAPI struct {
	mu       sync.Mutex
	searches []string
	list     func(term string) ([]model.Article, error)
	err      error

	created *model.Article
	updated *model.Article
	cit     *model.Citation
	calls   int
}

func (f *fakeAPI) ListArticles(_ context.Context, term string) ([]model.Article, error) {
	f.mu.Lock()
	f.searches = append(f.searches, term)
	list := f.list
	f.mu.Unlock()
	if list == nil {
		return nil, nil
	}
	return list(term)
}

func (f *fakeAPI) Searches() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.searches...)
}

func (f *fakeAPI) CreateArticle(context.Context, model.ArticleInput) (*model.Article, error) {
	f.calls++
	return f.created, f.err
}

func (f *fakeAPI) UpdateArticle(context.Context, string, model.ArticleUpdate) (*model.Article, error) {
	f.calls++
	return f.updated, f.err
}

func (f *fakeAPI) DeleteArticle(context.Context, string) (int64, error) {
	f.calls++
	return 0, f.err
}

func (f *fakeAPI) CreateCitation(context.Context, model.CitationInput) (*model.Citation, error) {
	f.calls++
	return f.cit, f.err
}

func (f *fakeAPI) UpdateCitation(context.Context, string, model.CitationUpdate) (*model.Citation, error) {
	f.calls++
	return f.cit, f.err
}

func (f *fakeAPI) DeleteCitation(context.Context, string) error {
	f.calls++
	return f.err
}

type recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *recorder) Notify(n Notice) {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
}

func (r *recorder) last() Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}
	}
	return r.notices[len(r.notices)-1]
}

func seed() []model.Article {
	return []model.Article{
		{ID: "a1", Title: "Relativity", Citations: []model.Citation{
			{ID: "c2", ArticleID: "a1", Title: "Newer"},
			{ID: "c1", ArticleID: "a1", Title: "Older"},
		}},
		{ID: "a2", Title: "Principia", Citations: []model.Citation{}},
	}
}

func loaded(t *testing.T, api *fakeAPI, opts ...Option) (*Store, *recorder) {
	t.Helper()
	api.list = func(string) ([]model.Article, error) { return seed(), nil }
	rec := &recorder{}
	s := NewStore(api, append([]Option{WithNotifier(rec)}, opts...)...)
	t.Cleanup(s.Close)
	require.NoError(t, s.Load(context.Background()))
	return s, rec
}

func ids(list []model.Article) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.ID
	}
	return out
}

func TestStore_Load(t *testing.T) {
	api := &fakeAPI{}
	var changes int
	s, _ := loaded(t, api, WithOnChange(func([]model.Article) { changes++ }))

	assert.Equal(t, []string{"a1", "a2"}, ids(s.Articles()))
	assert.Equal(t, []string{""}, api.Searches())
	assert.Equal(t, 1, changes)
}

func TestStore_SetSearch_Debounces(t *testing.T) {
	api := &fakeAPI{list: func(term string) ([]model.Article, error) {
		return []model.Article{{ID: "hit-" + term}}, nil
	}}
	s := NewStore(api, WithDebounce(30*time.Millisecond))
	defer s.Close()

	for _, term := range []string{"n", "ne", "new", "newt"} {
		s.SetSearch(term)
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		return len(s.Articles()) == 1 && s.Articles()[0].ID == "hit-newt"
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"newt"}, api.Searches())
	assert.Equal(t, "newt", s.Search())
}

func TestStore_StaleResponseIsDropped(t *testing.T) {
	release := make(chan struct{})
	api := &fakeAPI{list: func(term string) ([]model.Article, error) {
		if term == "slow" {
			<-release
			return []model.Article{{ID: "from-slow"}}, nil
		}
		return []model.Article{{ID: "from-" + term}}, nil
	}}
	s := NewStore(api, WithDebounce(time.Millisecond))
	defer s.Close()

	s.SetSearch("slow")
	assert.Eventually(t, func() bool { return len(api.Searches()) == 1 }, time.Second, time.Millisecond)

	s.SetSearch("fast")
	assert.Eventually(t, func() bool {
		a := s.Articles()
		return len(a) == 1 && a[0].ID == "from-fast"
	}, time.Second, time.Millisecond)

	close(release)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, "from-fast", s.Articles()[0].ID)
}

func TestStore_LoadFailure(t *testing.T) {
	api := &fakeAPI{}
	s, rec := loaded(t, api)

	api.list = func(string) ([]model.Article, error) { return nil, errors.New("dial tcp: refused") }
	err := s.Load(context.Background())

	assert.Error(t, err)
	assert.Equal(t, []string{"a1", "a2"}, ids(s.Articles()))
	assert.Equal(t, Notice{Level: LevelError, Message: retryMessage}, rec.last())
}

func TestStore_CreateArticle(t *testing.T) {
	t.Run("prepends the server copy", func(t *testing.T) {
		api := &fakeAPI{created: &model.Article{ID: "a3", Title: "Server Title", Citations: []model.Citation{}}}
		s, rec := loaded(t, api)

		a, err := s.CreateArticle(context.Background(), model.ArticleInput{Title: "form title", Authors: "x", FullText: "y"})

		require.NoError(t, err)
		assert.Equal(t, "a3", a.ID)
		list := s.Articles()
		assert.Equal(t, []string{"a3", "a1", "a2"}, ids(list))
		assert.Equal(t, "Server Title", list[0].Title)
		assert.Equal(t, LevelSuccess, rec.last().Level)
	})

	t.Run("blank field never reaches the server", func(t *testing.T) {
		api := &fakeAPI{}
		s, rec := loaded(t, api)

		_, err := s.CreateArticle(context.Background(), model.ArticleInput{Title: "t", Authors: "  ", FullText: "y"})

		assert.ErrorIs(t, err, ErrValidation)
		var fieldErr *FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "authors", fieldErr.Field)
		assert.Zero(t, api.calls)
		assert.Equal(t, Notice{Level: LevelError, Message: "authors is required"}, rec.last())
		assert.Equal(t, []string{"a1", "a2"}, ids(s.Articles()))
	})

	t.Run("server validation message is surfaced", func(t *testing.T) {
		api := &fakeAPI{err: &client.APIError{Status: http.StatusBadRequest, Code: "VALIDATION_ERROR", Message: "publicationDate is required"}}
		s, rec := loaded(t, api)

		_, err := s.CreateArticle(context.Background(), model.ArticleInput{Title: "t", Authors: "a", FullText: "f"})

		assert.Error(t, err)
		assert.Equal(t, "publicationDate is required", rec.last().Message)
		assert.Equal(t, []string{"a1", "a2"}, ids(s.Articles()))
	})
}

func TestStore_UpdateArticle(t *testing.T) {
	t.Run("replaces in place", func(t *testing.T) {
		api := &fakeAPI{updated: &model.Article{ID: "a2", Title: "Principia Mathematica", Citations: []model.Citation{}}}
		s, _ := loaded(t, api)
		title := "Principia Mathematica"

		_, err := s.UpdateArticle(context.Background(), "a2", model.ArticleUpdate{Title: &title})

		require.NoError(t, err)
		list := s.Articles()
		assert.Equal(t, []string{"a1", "a2"}, ids(list))
		assert.Equal(t, "Principia Mathematica", list[1].Title)
	})

	t.Run("present blank field is rejected", func(t *testing.T) {
		api := &fakeAPI{}
		s, _ := loaded(t, api)
		blank := ""

		_, err := s.UpdateArticle(context.Background(), "a2", model.ArticleUpdate{FullText: &blank})

		assert.ErrorIs(t, err, ErrValidation)
		assert.Zero(t, api.calls)
	})

	t.Run("not found leaves list untouched", func(t *testing.T) {
		api := &fakeAPI{err: &client.APIError{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: "article not found"}}
		s, rec := loaded(t, api)
		title := "x"

		_, err := s.UpdateArticle(context.Background(), "gone", model.ArticleUpdate{Title: &title})

		assert.True(t, client.IsNotFound(err))
		assert.Equal(t, seed(), s.Articles())
		assert.Equal(t, Notice{Level: LevelError, Message: "article not found"}, rec.last())
	})
}

func TestStore_DeleteArticle(t *testing.T) {
	t.Run("removes locally and forgets view state", func(t *testing.T) {
		api := &fakeAPI{}
		s, _ := loaded(t, api)
		s.View().ToggleMenu("a1")
		s.View().ToggleCitations("a1")

		require.NoError(t, s.DeleteArticle(context.Background(), "a1"))

		assert.Equal(t, []string{"a2"}, ids(s.Articles()))
		assert.Len(t, api.Searches(), 1)
		assert.Empty(t, s.View().OpenMenu())
		assert.False(t, s.View().CitationsVisible("a1"))
	})

	t.Run("failure keeps the article", func(t *testing.T) {
		api := &fakeAPI{err: errors.New("500")}
		s, rec := loaded(t, api)

		assert.Error(t, s.DeleteArticle(context.Background(), "a1"))
		assert.Equal(t, seed(), s.Articles())
		assert.Equal(t, LevelError, rec.last().Level)
	})
}

func TestStore_Citations(t *testing.T) {
	t.Run("add prepends to the owning article only", func(t *testing.T) {
		api := &fakeAPI{cit: &model.Citation{ID: "c3", ArticleID: "a1", Title: "Newest"}}
		s, _ := loaded(t, api)

		_, err := s.AddCitation(context.Background(), model.CitationInput{
			ArticleID:     "a1",
			CitationDraft: model.CitationDraft{Authors: "Bohr", Title: "Newest"},
		})

		require.NoError(t, err)
		list := s.Articles()
		require.Len(t, list[0].Citations, 3)
		assert.Equal(t, "c3", list[0].Citations[0].ID)
		assert.Equal(t, "Relativity", list[0].Title)
		assert.Empty(t, list[1].Citations)
	})

	t.Run("add with blank title is rejected", func(t *testing.T) {
		api := &fakeAPI{}
		s, _ := loaded(t, api)

		_, err := s.AddCitation(context.Background(), model.CitationInput{
			ArticleID:     "a1",
			CitationDraft: model.CitationDraft{Authors: "Bohr"},
		})

		assert.ErrorIs(t, err, ErrValidation)
		assert.Zero(t, api.calls)
	})

	t.Run("edit replaces by id", func(t *testing.T) {
		api := &fakeAPI{cit: &model.Citation{ID: "c1", ArticleID: "a1", Title: "Older, revised"}}
		s, _ := loaded(t, api)

		_, err := s.EditCitation(context.Background(), "c1", model.CitationUpdate{Notes: model.SomeString("ok")})

		require.NoError(t, err)
		cs := s.Articles()[0].Citations
		assert.Equal(t, "Newer", cs[0].Title)
		assert.Equal(t, "Older, revised", cs[1].Title)
	})

	t.Run("remove filters by id", func(t *testing.T) {
		api := &fakeAPI{}
		s, _ := loaded(t, api)

		require.NoError(t, s.RemoveCitation(context.Background(), "c2"))

		cs := s.Articles()[0].Citations
		require.Len(t, cs, 1)
		assert.Equal(t, "c1", cs[0].ID)
	})

	t.Run("failed remove keeps citations", func(t *testing.T) {
		api := &fakeAPI{err: &client.APIError{Status: http.StatusNotFound, Message: "citation not found"}}
		s, rec := loaded(t, api)

		assert.Error(t, s.RemoveCitation(context.Background(), "c2"))
		assert.Len(t, s.Articles()[0].Citations, 2)
		assert.Equal(t, "citation not found", rec.last().Message)
	})
}

func TestStore_SnapshotsAreIndependent(t *testing.T) {
	api := &fakeAPI{}
	s, _ := loaded(t, api)

	snap := s.Articles()
	snap[0].Title = "mutated"
	snap[0].Citations[0].Title = "mutated"

	fresh := s.Articles()
	assert.Equal(t, "Relativity", fresh[0].Title)
	assert.Equal(t, "Newer", fresh[0].Citations[0].Title)
}

func TestStore_LogsFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	api := &fakeAPI{err: errors.New("boom")}
	s, _ := loaded(t, api, WithLogger(zap.New(core)))

	_ = s.DeleteArticle(context.Background(), "a1")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "sync action failed", entry.Message)
	assert.Equal(t, "delete article", entry.ContextMap()["op"])
}

func TestStore_CloseStopsPendingSearch(t *testing.T) {
	api := &fakeAPI{}
	s := NewStore(api, WithDebounce(20*time.Millisecond))

	s.SetSearch("never")
	s.Close()
	time.Sleep(50 * time.Millisecond)

	assert.Empty(t, api.Searches())
}

func TestStore_Flush(t *testing.T) {
	api := &fakeAPI{list: func(term string) ([]model.Article, error) {
		return []model.Article{{ID: "hit-" + term}}, nil
	}}
	s := NewStore(api, WithDebounce(time.Hour))
	defer s.Close()

	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, []string{""}, api.Searches(), "list already shows the term")

	s.SetSearch("einstein")
	require.NoError(t, s.Flush(context.Background()))

	assert.Equal(t, []string{"", "einstein"}, api.Searches())
	assert.Equal(t, []string{"hit-einstein"}, ids(s.Articles()))
}

func TestStore_OnChangeNeverGoesBackwards(t *testing.T) {
	t.Run("older snapshot after newer is dropped", func(t *testing.T) {
		var got [][]string
		s := NewStore(&fakeAPI{}, WithOnChange(func(list []model.Article) { got = append(got, ids(list)) }))
		t.Cleanup(s.Close)

		s.changed(2, []model.Article{{ID: "a1"}, {ID: "a2"}})
		s.changed(1, []model.Article{{ID: "a1"}})

		assert.Equal(t, [][]string{{"a1", "a2"}}, got)
	})

	t.Run("concurrent changes arrive in order", func(t *testing.T) {
		var (
			mu   sync.Mutex
			lens []int
		)
		s := NewStore(&fakeAPI{}, WithOnChange(func(list []model.Article) {
			mu.Lock()
			lens = append(lens, len(list))
			mu.Unlock()
		}))
		t.Cleanup(s.Close)

		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				a := model.Article{ID: string(rune('A' + i))}
				s.apply(func(list []model.Article) []model.Article { return upsert(list, a) })
			}()
		}
		wg.Wait()

		mu.Lock()
		defer mu.Unlock()
		require.NotEmpty(t, lens)
		for i := 1; i < len(lens); i++ {
			assert.Greater(t, lens[i], lens[i-1])
		}
		assert.Equal(t, len(s.Articles()), lens[len(lens)-1])
	})
}
