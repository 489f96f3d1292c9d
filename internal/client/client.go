// Package client is a typed HTTP client for the ScholarPort REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"scholarport/internal/model"
)

// HTTPClient is the subset of *http.Client used by Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// APIError is a non-2xx answer decoded from the server's error envelope.
type APIError struct {
	Status    int
	Code      string
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("scholarport: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("scholarport: %d %s: %s", e.Status, e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsValidation reports whether err is a 400 from the API.
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest
}

// Client talks to one ScholarPort server.
type Client struct {
	http    HTTPClient
	baseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(h HTTPClient) Option {
	return func(c *Client) { c.http = h }
}

// New returns a client for the server at baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var payload struct {
		RequestID string `json:"request_id"`
		Error     struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if json.Unmarshal(b, &payload) == nil && payload.Error.Code != "" {
		apiErr.Code = payload.Error.Code
		apiErr.Message = payload.Error.Message
		apiErr.RequestID = payload.RequestID
	}
	return apiErr
}

// ListArticles returns the articles matching search, newest publication first.
func (c *Client) ListArticles(ctx context.Context, search string) ([]model.Article, error) {
	path := "/api/articles"
	if s := strings.TrimSpace(search); s != "" {
		path += "?search=" + url.QueryEscape(s)
	}
	var items []model.Article
	if err := c.do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) GetArticle(ctx context.Context, id string) (*model.Article, error) {
	var a model.Article
	if err := c.do(ctx, http.MethodGet, "/api/articles/"+url.PathEscape(id), nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) CreateArticle(ctx context.Context, in model.ArticleInput) (*model.Article, error) {
	var a model.Article
	if err := c.do(ctx, http.MethodPost, "/api/articles", in, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) UpdateArticle(ctx context.Context, id string, u model.ArticleUpdate) (*model.Article, error) {
	var a model.Article
	if err := c.do(ctx, http.MethodPut, "/api/articles/"+url.PathEscape(id), u, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// DeleteArticle removes the article and returns how many citations went with it.
func (c *Client) DeleteArticle(ctx context.Context, id string) (int64, error) {
	var ack struct {
		DeletedCitations int64 `json:"deletedCitations"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/articles/"+url.PathEscape(id), nil, &ack); err != nil {
		return 0, err
	}
	return ack.DeletedCitations, nil
}

func (c *Client) ListCitations(ctx context.Context, articleID string) ([]model.Citation, error) {
	var cs []model.Citation
	if err := c.do(ctx, http.MethodGet, "/api/citations/article/"+url.PathEscape(articleID), nil, &cs); err != nil {
		return nil, err
	}
	return cs, nil
}

func (c *Client) CreateCitation(ctx context.Context, in model.CitationInput) (*model.Citation, error) {
	var cit model.Citation
	if err := c.do(ctx, http.MethodPost, "/api/citations", in, &cit); err != nil {
		return nil, err
	}
	return &cit, nil
}

func (c *Client) UpdateCitation(ctx context.Context, id string, u model.CitationUpdate) (*model.Citation, error) {
	var cit model.Citation
	if err := c.do(ctx, http.MethodPut, "/api/citations/"+url.PathEscape(id), u, &cit); err != nil {
		return nil, err
	}
	return &cit, nil
}

func (c *Client) DeleteCitation(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/citations/"+url.PathEscape(id), nil, nil)
}

// DeleteCitations removes every citation of an article and returns the count.
func (c *Client) DeleteCitations(ctx context.Context, articleID string) (int64, error) {
	var ack struct {
		DeletedCount int64 `json:"deletedCount"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/citations/article/"+url.PathEscape(articleID), nil, &ack); err != nil {
		return 0, err
	}
	return ack.DeletedCount, nil
}

// Export downloads the full portfolio snapshot.
func (c *Client) Export(ctx context.Context) (*model.Snapshot, error) {
	var snap model.Snapshot
	if err := c.do(ctx, http.MethodGet, "/api/export", nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Backup asks the server to archive the portfolio in object storage.
func (c *Client) Backup(ctx context.Context) (*model.BackupResult, error) {
	var res model.BackupResult
	if err := c.do(ctx, http.MethodPost, "/api/backups", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
