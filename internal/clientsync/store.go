// Package clientsync keeps a local copy of the article list in step with the
// server. Every change is applied only after the server confirmed it, using
// the object the server returned.
package clientsync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"scholarport/internal/model"
)

// DefaultDebounce is the quiet period after the last search keystroke.
const DefaultDebounce = 300 * time.Millisecond

// ErrValidation is returned when input fails the local checks. No request is sent.
var ErrValidation = errors.New("validation failed")

// FieldError names the required field that was blank.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string { return fmt.Sprintf("%s: %s", ErrValidation, e.Message()) }

func (e *FieldError) Message() string { return e.Field + " is required" }

func (e *FieldError) Unwrap() error { return ErrValidation }

// API is the part of the REST client the store drives. *client.Client implements it.
type API interface {
	ListArticles(ctx context.Context, search string) ([]model.Article, error)
	CreateArticle(ctx context.Context, in model.ArticleInput) (*model.Article, error)
	UpdateArticle(ctx context.Context, id string, u model.ArticleUpdate) (*model.Article, error)
	DeleteArticle(ctx context.Context, id string) (int64, error)
	CreateCitation(ctx context.Context, in model.CitationInput) (*model.Citation, error)
	UpdateCitation(ctx context.Context, id string, u model.CitationUpdate) (*model.Citation, error)
	DeleteCitation(ctx context.Context, id string) error
}

// Option configures a Store.
type Option func(*Store)

func WithDebounce(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.debounce = d
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *Store) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithOnChange registers fn to receive a copy of the list after every applied change.
func WithOnChange(fn func([]model.Article)) Option {
	return func(s *Store) { s.onChange = fn }
}

// Store owns the local article list.
type Store struct {
	api      API
	log      *zap.Logger
	notifier Notifier
	onChange func([]model.Article)
	debounce time.Duration
	view     *ViewState

	bg     context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	articles []model.Article
	term     string
	shown    string
	loaded   bool
	timer    *time.Timer
	issued   uint64
	version  uint64
	closed   bool

	deliverMu sync.Mutex
	delivered uint64
}

func NewStore(api API, opts ...Option) *Store {
	s := &Store{
		api:      api,
		log:      zap.NewNop(),
		notifier: discardNotifier{},
		debounce: DefaultDebounce,
		view:     newViewState(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.bg, s.cancel = context.WithCancel(context.Background())
	return s
}

// View returns the view state bound to this store.
func (s *Store) View() *ViewState { return s.view }

// Articles returns a copy of the current list.
func (s *Store) Articles() []model.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneArticles(s.articles)
}

// Search returns the most recently requested search term.
func (s *Store) Search() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.term
}

// Load fetches the list for the current term right away.
func (s *Store) Load(ctx context.Context) error {
	return s.fetch(ctx, s.Search())
}

// SetSearch records term and fetches it once no other term arrived for the
// debounce period. Each call restarts the timer.
func (s *Store) SetSearch(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.term = term
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		_ = s.fetch(s.bg, term)
	})
}

// Flush brings the list up to date with the latest search term right away.
// A pending debounce is cancelled. Nothing is sent when the list already
// shows that term.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	term := s.term
	current := s.loaded && s.shown == term
	s.mu.Unlock()
	if current {
		return nil
	}
	return s.fetch(ctx, term)
}

// Close stops the debounce timer and abandons background searches.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()
	s.cancel()
}

// fetch lists term and installs the result, unless a newer list request was
// issued in the meantime. Stale responses are dropped, successful or not.
func (s *Store) fetch(ctx context.Context, term string) error {
	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.mu.Unlock()

	items, err := s.api.ListArticles(ctx, term)

	s.mu.Lock()
	if seq != s.issued {
		s.mu.Unlock()
		s.log.Debug("stale list response dropped", zap.String("search", term), zap.Uint64("seq", seq))
		return nil
	}
	if err != nil {
		s.mu.Unlock()
		s.fail("list articles", err)
		return err
	}
	if items == nil {
		items = []model.Article{}
	}
	s.articles = items
	s.shown, s.loaded = term, true
	s.version++
	version, snap := s.version, cloneArticles(s.articles)
	s.mu.Unlock()

	s.changed(version, snap)
	return nil
}

// CreateArticle creates the article and puts the server copy at the top of the list.
func (s *Store) CreateArticle(ctx context.Context, in model.ArticleInput) (*model.Article, error) {
	if err := requireText(map[string]*string{
		"title": &in.Title, "authors": &in.Authors, "fullText": &in.FullText,
	}, "title", "authors", "fullText"); err != nil {
		s.fail("create article", err)
		return nil, err
	}

	a, err := s.api.CreateArticle(ctx, in)
	if err != nil {
		s.fail("create article", err)
		return nil, err
	}
	s.apply(func(list []model.Article) []model.Article { return upsert(list, *a) })
	s.succeed("article created")
	return a, nil
}

// UpdateArticle sends a partial update. Fields that are present must not be blank.
func (s *Store) UpdateArticle(ctx context.Context, id string, u model.ArticleUpdate) (*model.Article, error) {
	if err := requireText(map[string]*string{
		"title": u.Title, "authors": u.Authors, "fullText": u.FullText,
	}, "title", "authors", "fullText"); err != nil {
		s.fail("update article", err)
		return nil, err
	}

	a, err := s.api.UpdateArticle(ctx, id, u)
	if err != nil {
		s.fail("update article", err)
		return nil, err
	}
	s.apply(func(list []model.Article) []model.Article { return upsert(list, *a) })
	s.succeed("article updated")
	return a, nil
}

// DeleteArticle deletes the article and drops it locally without refetching.
func (s *Store) DeleteArticle(ctx context.Context, id string) error {
	if _, err := s.api.DeleteArticle(ctx, id); err != nil {
		s.fail("delete article", err)
		return err
	}
	s.apply(func(list []model.Article) []model.Article {
		out := make([]model.Article, 0, len(list))
		for _, a := range list {
			if a.ID != id {
				out = append(out, a)
			}
		}
		return out
	})
	s.view.Forget(id)
	s.succeed("article deleted")
	return nil
}

// AddCitation creates a citation and prepends it to its article.
func (s *Store) AddCitation(ctx context.Context, in model.CitationInput) (*model.Citation, error) {
	if err := requireText(map[string]*string{
		"authors": &in.Authors, "title": &in.Title,
	}, "authors", "title"); err != nil {
		s.fail("add citation", err)
		return nil, err
	}

	c, err := s.api.CreateCitation(ctx, in)
	if err != nil {
		s.fail("add citation", err)
		return nil, err
	}
	s.apply(func(list []model.Article) []model.Article {
		return withCitations(list, c.ArticleID, func(cs []model.Citation) []model.Citation {
			return append([]model.Citation{*c}, cs...)
		})
	})
	s.succeed("citation added")
	return c, nil
}

// EditCitation updates a citation and replaces it inside its article.
func (s *Store) EditCitation(ctx context.Context, id string, u model.CitationUpdate) (*model.Citation, error) {
	if err := requireText(map[string]*string{
		"authors": u.Authors, "title": u.Title,
	}, "authors", "title"); err != nil {
		s.fail("edit citation", err)
		return nil, err
	}

	c, err := s.api.UpdateCitation(ctx, id, u)
	if err != nil {
		s.fail("edit citation", err)
		return nil, err
	}
	s.apply(func(list []model.Article) []model.Article {
		return withCitations(list, c.ArticleID, func(cs []model.Citation) []model.Citation {
			out := make([]model.Citation, len(cs))
			for i, old := range cs {
				if old.ID == c.ID {
					old = *c
				}
				out[i] = old
			}
			return out
		})
	})
	s.succeed("citation updated")
	return c, nil
}

// RemoveCitation deletes a citation and filters it out of whichever article holds it.
func (s *Store) RemoveCitation(ctx context.Context, id string) error {
	if err := s.api.DeleteCitation(ctx, id); err != nil {
		s.fail("remove citation", err)
		return err
	}
	s.apply(func(list []model.Article) []model.Article {
		for _, a := range list {
			for _, c := range a.Citations {
				if c.ID == id {
					return withCitations(list, a.ID, func(cs []model.Citation) []model.Citation {
						out := make([]model.Citation, 0, len(cs))
						for _, c := range cs {
							if c.ID != id {
								out = append(out, c)
							}
						}
						return out
					})
				}
			}
		}
		return list
	})
	s.succeed("citation removed")
	return nil
}

// apply replaces the list with fn's result. fn must not modify its argument.
func (s *Store) apply(fn func([]model.Article) []model.Article) {
	s.mu.Lock()
	s.articles = fn(s.articles)
	s.version++
	version, snap := s.version, cloneArticles(s.articles)
	s.mu.Unlock()
	s.changed(version, snap)
}

// changed hands snap to onChange unless a newer version was already
// delivered, so the callback never moves backwards.
func (s *Store) changed(version uint64, snap []model.Article) {
	if s.onChange == nil {
		return
	}
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	if version <= s.delivered {
		return
	}
	s.delivered = version
	s.onChange(snap)
}

func (s *Store) succeed(msg string) {
	s.notifier.Notify(Notice{Level: LevelSuccess, Message: msg})
}

func (s *Store) fail(op string, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	s.log.Warn("sync action failed", zap.String("op", op), zap.Error(err))
	s.notifier.Notify(Notice{Level: LevelError, Message: failureMessage(err)})
}

// requireText checks the named fields in order. A nil pointer is an absent
// field and passes; a present blank value fails.
func requireText(fields map[string]*string, order ...string) error {
	for _, name := range order {
		if v := fields[name]; v != nil && strings.TrimSpace(*v) == "" {
			return &FieldError{Field: name}
		}
	}
	return nil
}

// upsert replaces the article with the same id in place, or prepends it.
func upsert(list []model.Article, a model.Article) []model.Article {
	out := make([]model.Article, 0, len(list)+1)
	found := false
	for _, old := range list {
		if old.ID == a.ID {
			old = a
			found = true
		}
		out = append(out, old)
	}
	if !found {
		out = append([]model.Article{a}, out...)
	}
	return out
}

// withCitations returns a copy of list where only the citations of articleID
// went through fn. Unknown ids leave the list as is.
func withCitations(list []model.Article, articleID string, fn func([]model.Citation) []model.Citation) []model.Article {
	for i, a := range list {
		if a.ID != articleID {
			continue
		}
		out := make([]model.Article, len(list))
		copy(out, list)
		out[i].Citations = fn(a.Citations)
		return out
	}
	return list
}

func cloneArticles(list []model.Article) []model.Article {
	out := make([]model.Article, len(list))
	for i, a := range list {
		a.Citations = append([]model.Citation{}, a.Citations...)
		out[i] = a
	}
	return out
}
