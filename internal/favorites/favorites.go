// Package favorites persists the user's favorite verses.
//
// The whole collection lives under one storage key and every mutation
// rewrites it. Within a process mutations are serialized; across processes
// sharing a data directory the last writer wins.
package favorites

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"verse-tui/internal/storage"
)

const (
	// StorageKey is the key holding the serialized collection.
	StorageKey = "favorites"

	// DefaultVersionID is the KJV translation id, used when a verse is saved
	// without one.
	DefaultVersionID = "de4e12af7f28f599-02"

	schemaVersion = 1
)

// ErrUnknownSchema is returned for data written by a newer layout.
var ErrUnknownSchema = errors.New("favorites: unknown schema version")

// Favorite is one saved verse.
type Favorite struct {
	ID        string    `json:"id" yaml:"id"`
	BookID    string    `json:"bookId" yaml:"book_id"`
	Book      string    `json:"book" yaml:"book"`
	Chapter   string    `json:"chapter" yaml:"chapter"`
	Verse     string    `json:"verse" yaml:"verse"`
	Text      string    `json:"text" yaml:"text"`
	VersionID string    `json:"versionId" yaml:"version_id"`
	CreatedAt time.Time `json:"timestamp" yaml:"timestamp"`
}

// VerseInput is what callers supply to Add.
type VerseInput struct {
	BookID    string
	Book      string
	Chapter   string
	Verse     string
	Text      string
	VersionID string
}

// Key returns the composite key for the input.
func (v VerseInput) Key() string {
	return Key(v.BookID, v.Chapter, v.Verse)
}

// Key builds the composite verse key "bookId.chapter.verse".
func Key(bookID, chapter, verse string) string {
	return bookID + "." + chapter + "." + verse
}

// Reference renders "Book chapter:verse".
func (f Favorite) Reference() string {
	book := f.Book
	if book == "" {
		book = f.BookID
	}
	return fmt.Sprintf("%s %s:%s", book, f.Chapter, f.Verse)
}

// legacyFavorite is the unversioned layout: a bare array with millisecond
// timestamps.
type legacyFavorite struct {
	ID        string `json:"id"`
	BookID    string `json:"bookId"`
	Book      string `json:"book"`
	Chapter   string `json:"chapter"`
	Verse     string `json:"verse"`
	Text      string `json:"text"`
	VersionID string `json:"versionId"`
	Timestamp int64  `json:"timestamp"`
}

func (l legacyFavorite) favorite() Favorite {
	return Favorite{
		ID:        l.ID,
		BookID:    l.BookID,
		Book:      l.Book,
		Chapter:   l.Chapter,
		Verse:     l.Verse,
		Text:      l.Text,
		VersionID: l.VersionID,
		CreatedAt: time.UnixMilli(l.Timestamp).UTC(),
	}
}

type document struct {
	SchemaVersion int        `json:"schema_version"`
	Favorites     []Favorite `json:"favorites"`
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for soft failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// Store is the favorites collection over a storage.Store.
type Store struct {
	mu     sync.Mutex
	kv     storage.Store
	now    func() time.Time
	logger *slog.Logger
}

func New(kv storage.Store, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns all favorites in stored order.
func (s *Store) Load() ([]Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// List is Load that degrades to an empty collection on failure.
func (s *Store) List() []Favorite {
	favs, err := s.Load()
	if err != nil {
		s.logger.Warn("reading favorites", "error", err)
		return []Favorite{}
	}
	return favs
}

// Add saves the verse unless its key is already present. It reports whether
// the collection changed.
func (s *Store) Add(in VerseInput) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	favs, err := s.load()
	if err != nil {
		return false, err
	}

	key := in.Key()
	if slices.ContainsFunc(favs, func(f Favorite) bool { return f.ID == key }) {
		return false, nil
	}

	favs = append(favs, s.newFavorite(in))
	if err := s.save(favs); err != nil {
		return false, err
	}
	s.logger.Debug("favorite added", "key", key)
	return true, nil
}

// Remove deletes the favorite with key and reports whether one was removed.
func (s *Store) Remove(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	favs, err := s.load()
	if err != nil {
		return false, err
	}

	kept := slices.DeleteFunc(slices.Clone(favs), func(f Favorite) bool { return f.ID == key })
	if err := s.save(kept); err != nil {
		return false, err
	}
	removed := len(kept) != len(favs)
	if removed {
		s.logger.Debug("favorite removed", "key", key)
	}
	return removed, nil
}

// Toggle adds the verse if absent or removes it if present, returning the
// new membership. The check and the write happen under one lock.
func (s *Store) Toggle(in VerseInput) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	favs, err := s.load()
	if err != nil {
		return false, err
	}

	key := in.Key()
	kept := slices.DeleteFunc(slices.Clone(favs), func(f Favorite) bool { return f.ID == key })
	if len(kept) != len(favs) {
		if err := s.save(kept); err != nil {
			return false, err
		}
		s.logger.Debug("favorite removed", "key", key)
		return false, nil
	}

	if err := s.save(append(favs, s.newFavorite(in))); err != nil {
		return false, err
	}
	s.logger.Debug("favorite added", "key", key)
	return true, nil
}

func (s *Store) newFavorite(in VerseInput) Favorite {
	versionID := in.VersionID
	if versionID == "" {
		versionID = DefaultVersionID
	}
	return Favorite{
		ID:        in.Key(),
		BookID:    in.BookID,
		Book:      in.Book,
		Chapter:   in.Chapter,
		Verse:     in.Verse,
		Text:      in.Text,
		VersionID: versionID,
		CreatedAt: s.now().UTC(),
	}
}

func (s *Store) Contains(key string) bool {
	_, ok := s.Get(key)
	return ok
}

func (s *Store) Get(key string) (Favorite, bool) {
	for _, f := range s.List() {
		if f.ID == key {
			return f, true
		}
	}
	return Favorite{}, false
}

// SortNewestFirst orders favorites by creation time, most recent first.
func SortNewestFirst(favs []Favorite) {
	slices.SortStableFunc(favs, func(a, b Favorite) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

func (s *Store) load() ([]Favorite, error) {
	raw, ok, err := s.kv.Read(StorageKey)
	if err != nil {
		return nil, err
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []Favorite{}, nil
	}
	return decode(raw)
}

func (s *Store) save(favs []Favorite) error {
	data, err := json.Marshal(document{SchemaVersion: schemaVersion, Favorites: favs})
	if err != nil {
		return fmt.Errorf("encoding favorites: %w", err)
	}
	return s.kv.Write(StorageKey, string(data))
}

// decode accepts the versioned document and the older bare array.
func decode(raw string) ([]Favorite, error) {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "[") {
		var legacy []legacyFavorite
		if err := json.Unmarshal([]byte(raw), &legacy); err != nil {
			return nil, fmt.Errorf("decoding favorites: %w", err)
		}
		favs := make([]Favorite, 0, len(legacy))
		for _, l := range legacy {
			favs = append(favs, l.favorite())
		}
		return favs, nil
	}

	var doc document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("decoding favorites: %w", err)
	}
	if doc.SchemaVersion != schemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSchema, doc.SchemaVersion)
	}
	return nonNil(doc.Favorites), nil
}

func nonNil(favs []Favorite) []Favorite {
	if favs == nil {
		return []Favorite{}
	}
	return favs
}
