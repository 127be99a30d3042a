// Package client talks to the remote article API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mithrel/scholia/internal/auth"
	"github.com/mithrel/scholia/pkg/api"
)

// ErrRequest is the single failure kind of the article API: the request could
// not be sent, or the server answered with a non-2xx status.
var ErrRequest = errors.New("article api request failed")

const articlesPath = "/api/articles"

// Client issues list/get/create calls against the article API.
type Client struct {
	baseURL    string
	tokens     auth.TokenSource
	httpClient *http.Client
	log        *log.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger routes request failures to l.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func New(baseURL string, tokens auth.TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		log: log.New(io.Discard, "", 0),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// ListArticles fetches the whole article collection.
func (c *Client) ListArticles(ctx context.Context) ([]api.ArticleSummary, error) {
	body, err := c.execRequest(ctx, http.MethodGet, articlesPath, "", "", nil)
	if err != nil {
		return nil, err
	}
	var out []api.ArticleSummary
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, c.fail("GET", articlesPath, fmt.Errorf("decode: %w", err))
	}
	return out, nil
}

// GetArticle fetches one article by id.
func (c *Client) GetArticle(ctx context.Context, id int) (api.ArticleDetail, error) {
	path := articlesPath + "/" + strconv.Itoa(id)
	body, err := c.execRequest(ctx, http.MethodGet, path, "", "", nil)
	if err != nil {
		return api.ArticleDetail{}, err
	}
	var out api.ArticleDetail
	if err := json.Unmarshal(body, &out); err != nil {
		return api.ArticleDetail{}, c.fail("GET", path, fmt.Errorf("decode: %w", err))
	}
	return out, nil
}

// CreateArticle publishes a draft as one multipart request and returns the
// raw response body.
func (c *Client) CreateArticle(ctx context.Context, d api.Draft) (json.RawMessage, error) {
	if c.tokens == nil {
		return nil, c.fail("POST", articlesPath, fmt.Errorf("token: %w", auth.ErrTokenNotFound))
	}
	tok, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, c.fail("POST", articlesPath, fmt.Errorf("token: %w", err))
	}
	payload, contentType, err := EncodeDraft(d)
	if err != nil {
		return nil, c.fail("POST", articlesPath, err)
	}
	body, err := c.execRequest(ctx, http.MethodPost, articlesPath, tok, contentType, payload)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// EncodeDraft serialises a draft into a multipart body: one text field per
// draft field, the tags as a JSON array, and an optional image part.
func EncodeDraft(d api.Draft) ([]byte, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, "", err
	}
	fields := []struct{ name, value string }{
		{"title", d.Title},
		{"author", d.Author},
		{"institution", d.Institution},
		{"abstract", d.Abstract},
		{"content", d.Content},
		{"tags", string(tagsJSON)},
	}
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}
	if d.Image != nil {
		name := filepath.Base(d.Image.Name)
		if name == "." || name == "/" || name == "" {
			name = "image"
		}
		fw, err := mw.CreateFormFile("image", name)
		if err != nil {
			return nil, "", err
		}
		if _, err := fw.Write(d.Image.Data); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}

func (c *Client) execRequest(ctx context.Context, method, path, token, contentType string, body []byte) ([]byte, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, c.fail(method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.fail(method, path, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody))))
	}
	return respBody, nil
}

func (c *Client) fail(method, path string, err error) error {
	c.log.Printf("client: %s %s failed: %v", method, path, err)
	return fmt.Errorf("%w: %s %s: %w", ErrRequest, method, path, err)
}
