// Package api is the HTTP client for API.Bible, the scripture service the
// reader pulls translations, books, chapters and verses from.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.scripture.api.bible/v1/"

	// KJV is the default translation.
	KJV = "de4e12af7f28f599-02"
)

// RecommendedVersions are the translations offered when none are configured:
// KJV, WEB, BSB and ASV.
var RecommendedVersions = []string{
	KJV,
	"9879dbb7cfe39e4d-04",
	"bba9f40183526463-01",
	"06125adad2d5898a-01",
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	defaultVersion string
	recommended    []string
	now            func() time.Time
	logger         *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		if !strings.HasSuffix(u, "/") {
			u += "/"
		}
		c.baseURL = u
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithDefaultVersion sets the translation listed first and used for the
// daily verse.
func WithDefaultVersion(id string) Option {
	return func(c *Client) { c.defaultVersion = id }
}

// WithRecommended restricts ListTranslations to ids. An empty list means
// every English translation.
func WithRecommended(ids []string) Option {
	return func(c *Client) { c.recommended = ids }
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient:     &http.Client{Timeout: 15 * time.Second},
		baseURL:        DefaultBaseURL,
		apiKey:         apiKey,
		defaultVersion: KJV,
		recommended:    RecommendedVersions,
		now:            time.Now,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultVersion is the translation used when none is selected.
func (c *Client) DefaultVersion() string { return c.defaultVersion }

type Language struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Translation struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Abbreviation string   `json:"abbreviation"`
	Language     Language `json:"language"`
	Description  string   `json:"description,omitempty"`
}

// Label is the short name shown on tabs and breadcrumbs.
func (t Translation) Label() string {
	if t.Abbreviation != "" {
		return t.Abbreviation
	}
	return t.Name
}

type Book struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation,omitempty"`
}

// IntroChapter is the chapter number API.Bible gives a book's introduction.
const IntroChapter = "intro"

type ChapterSummary struct {
	ID     string `json:"id"`
	Number string `json:"number"`
}

// IsIntro reports whether the entry is the non-canonical introduction.
func (c ChapterSummary) IsIntro() bool { return c.Number == IntroChapter }

type Chapter struct {
	ID      string `json:"id"`
	BookID  string `json:"bookId"`
	Number  string `json:"number"`
	Content string `json:"content"`
}

type Verse struct {
	ID        string `json:"id"`
	BookID    string `json:"bookId"`
	ChapterID string `json:"chapterId"`
	Reference string `json:"reference"`
	Content   string `json:"content"`
}

// envelope is API.Bible's response wrapper.
type envelope[T any] struct {
	Data T `json:"data"`
}

// ListTranslations returns English translations, limited to the recommended
// ids when set, with the default translation first.
func (c *Client) ListTranslations(ctx context.Context) ([]Translation, error) {
	var all []Translation
	if err := c.get(ctx, "list translations", "bibles", nil, &all); err != nil {
		return nil, err
	}

	var out []Translation
	for _, t := range all {
		if t.Language.ID != "eng" {
			continue
		}
		if len(c.recommended) > 0 && !slices.Contains(c.recommended, t.ID) {
			continue
		}
		out = append(out, t)
	}

	slices.SortStableFunc(out, func(a, b Translation) int {
		switch {
		case a.ID == c.defaultVersion && b.ID != c.defaultVersion:
			return -1
		case b.ID == c.defaultVersion && a.ID != c.defaultVersion:
			return 1
		}
		return 0
	})
	return out, nil
}

func (c *Client) ListBooks(ctx context.Context, versionID string) ([]Book, error) {
	var books []Book
	path := fmt.Sprintf("bibles/%s/books", url.PathEscape(versionID))
	if err := c.get(ctx, "list books", path, nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// ListChapters returns every chapter entry of a book, including the intro
// entry if the translation has one.
func (c *Client) ListChapters(ctx context.Context, versionID, bookID string) ([]ChapterSummary, error) {
	var chapters []ChapterSummary
	path := fmt.Sprintf("bibles/%s/books/%s/chapters", url.PathEscape(versionID), url.PathEscape(bookID))
	if err := c.get(ctx, "list chapters", path, nil, &chapters); err != nil {
		return nil, err
	}
	return chapters, nil
}

// GetChapter returns a chapter with its HTML content.
func (c *Client) GetChapter(ctx context.Context, versionID, chapterID string) (*Chapter, error) {
	var ch Chapter
	path := fmt.Sprintf("bibles/%s/chapters/%s", url.PathEscape(versionID), url.PathEscape(chapterID))
	if err := c.get(ctx, "get chapter", path, nil, &ch); err != nil {
		return nil, err
	}
	if ch.BookID == "" || ch.Number == "" {
		return nil, &DataError{Op: "get chapter", Field: "bookId/number"}
	}
	return &ch, nil
}

// GetVerse returns a single verse as plain text.
func (c *Client) GetVerse(ctx context.Context, versionID, verseID string) (*Verse, error) {
	q := url.Values{}
	q.Set("content-type", "text")
	q.Set("include-notes", "false")
	q.Set("include-titles", "false")
	q.Set("include-verse-numbers", "false")

	var v Verse
	path := fmt.Sprintf("bibles/%s/verses/%s", url.PathEscape(versionID), url.PathEscape(verseID))
	if err := c.get(ctx, "get verse", path, q, &v); err != nil {
		return nil, err
	}
	v.Content = strings.TrimSpace(v.Content)
	return &v, nil
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values, out any) error {
	// The credential is checked before anything goes on the wire.
	if c.apiKey == "" {
		return fmt.Errorf("%s: %w", op, ErrMissingAPIKey)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	start := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("api request", "op", op, "path", path, "status", resp.StatusCode, "elapsed", c.now().Sub(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	env := envelope[json.RawMessage]{}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &DataError{Op: op, Err: err}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return &DataError{Op: op, Field: "data"}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &DataError{Op: op, Err: err}
	}
	return nil
}
