// Package orchestrator drives the reader: it moves each translation's
// navigation cursor, fetches the data for the new position from the
// scripture provider, and keeps the resulting view per translation.
//
// Loads are split in two. Calling LoadBooks, LoadChapters and friends takes a
// request generation immediately and returns a Task; running the Task makes
// the single provider call. A Task whose generation has been superseded by
// a newer load on the same translation returns ErrStale and changes nothing.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"verse-tui/internal/api"
	"verse-tui/internal/canon"
	"verse-tui/internal/favorites"
	"verse-tui/internal/navigation"
)

// ErrStale is returned by a Task whose result was superseded.
var ErrStale = errors.New("orchestrator: stale response discarded")

// Provider is the scripture service.
type Provider interface {
	ListTranslations(ctx context.Context) ([]api.Translation, error)
	ListBooks(ctx context.Context, versionID string) ([]api.Book, error)
	ListChapters(ctx context.Context, versionID, bookID string) ([]api.ChapterSummary, error)
	GetChapter(ctx context.Context, versionID, chapterID string) (*api.Chapter, error)
	GetVerse(ctx context.Context, versionID, verseID string) (*api.Verse, error)
	DailyVerse(ctx context.Context) (*api.DailyVerse, error)
}

// Task runs one load.
type Task func(ctx context.Context) (View, error)

type ViewKind int

const (
	ViewTranslations ViewKind = iota
	ViewBooks
	ViewChapters
	ViewVerses
	ViewVerseDetail
)

func (k ViewKind) String() string {
	switch k {
	case ViewTranslations:
		return "translations"
	case ViewBooks:
		return "books"
	case ViewChapters:
		return "chapters"
	case ViewVerses:
		return "verses"
	case ViewVerseDetail:
		return "verse"
	}
	return fmt.Sprintf("view(%d)", int(k))
}

// VerseItem is one entry of the verse list.
type VerseItem struct {
	ID     string // "GEN.1.5"
	Number string
}

// VerseDetail is the single verse being read.
type VerseDetail struct {
	Key      string // composite favorites key
	VerseID  string
	BookID   string
	BookName string
	Chapter  string
	Verse    string
	Text     string
	Favorite bool
}

// View is what one translation currently shows. Exactly one of the slices or
// Detail is populated, matching Kind, unless Err is set.
type View struct {
	Kind      ViewKind
	VersionID string

	Translations []api.Translation
	Books        []api.Book
	Chapters     []api.ChapterSummary
	Verses       []VerseItem
	Detail       *VerseDetail

	// Err and Message describe a failed load; the list is empty.
	Err     error
	Message string
}

// Failed reports whether the view shows an error instead of content.
func (v View) Failed() bool { return v.Err != nil }

type Orchestrator struct {
	mu        sync.Mutex
	provider  Provider
	favorites *favorites.Store
	nav       *navigation.Navigator
	views     map[string]View
	logger    *slog.Logger
}

func New(provider Provider, favs *favorites.Store, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		provider:  provider,
		favorites: favs,
		nav:       navigation.New(),
		views:     make(map[string]View),
		logger:    logger,
	}
}

// State returns the cursor for versionID.
func (o *Orchestrator) State(versionID string) navigation.State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.nav.State(versionID)
}

// Breadcrumbs returns the trail for versionID.
func (o *Orchestrator) Breadcrumbs(versionID, versionLabel string) []navigation.Crumb {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.nav.Breadcrumbs(versionID, versionLabel)
}

// CurrentView returns the last applied view for versionID and whether one
// exists.
func (o *Orchestrator) CurrentView(versionID string) (View, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	v, ok := o.views[versionID]
	return v, ok
}

func (o *Orchestrator) begin(versionID string) uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.nav.Begin(versionID)
}

// commit applies a finished load if gen is still current. advance moves the
// cursor and runs only for successful loads.
func (o *Orchestrator) commit(gen uint64, view View, advance func(*navigation.Navigator, *View) error) (View, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.nav.IsCurrent(view.VersionID, gen) {
		o.logger.Debug("discarding stale response", "version", view.VersionID, "view", view.Kind)
		return View{}, ErrStale
	}
	if !view.Failed() && advance != nil {
		if err := advance(o.nav, &view); err != nil {
			view = o.failed(view, err)
		}
	}
	o.views[view.VersionID] = view
	return view, nil
}

func (o *Orchestrator) failed(view View, err error) View {
	kind := Classify(err)
	o.logger.Warn("load failed", "view", view.Kind, "version", view.VersionID, "kind", kind, "error", err)
	return View{
		Kind:      view.Kind,
		VersionID: view.VersionID,
		Err:       err,
		Message:   Message(kind, view.Kind),
	}
}

// LoadTranslations fetches the translations offered as tabs. It does not
// touch any navigation state.
func (o *Orchestrator) LoadTranslations() func(ctx context.Context) ([]api.Translation, error) {
	return func(ctx context.Context) ([]api.Translation, error) {
		ts, err := o.provider.ListTranslations(ctx)
		if err != nil {
			o.logger.Warn("listing translations", "error", err)
			return nil, err
		}
		return ts, nil
	}
}

// LoadBooks shows the book list and, on success, resets the cursor to the
// version level.
func (o *Orchestrator) LoadBooks(versionID string) Task {
	gen := o.begin(versionID)
	return func(ctx context.Context) (View, error) {
		view := View{Kind: ViewBooks, VersionID: versionID}
		books, err := o.provider.ListBooks(ctx, versionID)
		if err != nil {
			view = o.failed(view, err)
		} else {
			view.Books = books
		}
		return o.commit(gen, view, func(n *navigation.Navigator, v *View) error {
			n.ResetToLevel(versionID, navigation.LevelVersion)
			return nil
		})
	}
}

// LoadChapters shows a book's chapters, without the introduction entry, and
// on success selects the book.
func (o *Orchestrator) LoadChapters(versionID, bookID, bookName string) Task {
	gen := o.begin(versionID)
	return func(ctx context.Context) (View, error) {
		view := View{Kind: ViewChapters, VersionID: versionID}
		chapters, err := o.provider.ListChapters(ctx, versionID, bookID)
		if err != nil {
			view = o.failed(view, err)
		} else {
			view.Chapters = withoutIntro(chapters)
		}
		return o.commit(gen, view, func(n *navigation.Navigator, v *View) error {
			n.SetBook(versionID, bookID, bookName)
			return nil
		})
	}
}

// LoadVerses shows the verse numbers of a chapter and on success selects the
// chapter. The current book must already be selected.
func (o *Orchestrator) LoadVerses(versionID, chapterID string) Task {
	gen := o.begin(versionID)
	return func(ctx context.Context) (View, error) {
		view := View{Kind: ViewVerses, VersionID: versionID}
		ch, err := o.provider.GetChapter(ctx, versionID, chapterID)
		if err == nil {
			view.Verses, err = verseItems(ch)
		}
		if err != nil {
			view = o.failed(view, err)
		}
		return o.commit(gen, view, func(n *navigation.Navigator, v *View) error {
			return n.SetChapter(versionID, chapterID, ch.Number)
		})
	}
}

// LoadVerseDetail shows one verse and on success selects it.
func (o *Orchestrator) LoadVerseDetail(versionID, verseID string) Task {
	gen := o.begin(versionID)
	return func(ctx context.Context) (View, error) {
		view := View{Kind: ViewVerseDetail, VersionID: versionID}
		verse, err := o.provider.GetVerse(ctx, versionID, verseID)
		if err != nil {
			view = o.failed(view, err)
		}
		return o.commit(gen, view, func(n *navigation.Navigator, v *View) error {
			if err := n.SetVerse(versionID, verseID); err != nil {
				return err
			}
			v.Detail = o.detail(n.State(versionID), api.PlainText(verse.Content))
			return nil
		})
	}
}

// NavigateTo handles a breadcrumb selection: it reloads the list for level
// and, on success, resets the cursor to it.
func (o *Orchestrator) NavigateTo(versionID string, level navigation.Level) Task {
	state := o.State(versionID)
	gen := o.begin(versionID)

	return func(ctx context.Context) (View, error) {
		var (
			view View
			err  error
		)
		switch level {
		case navigation.LevelVersion:
			view = View{Kind: ViewBooks, VersionID: versionID}
			view.Books, err = o.provider.ListBooks(ctx, versionID)
		case navigation.LevelBook:
			view = View{Kind: ViewChapters, VersionID: versionID}
			var chapters []api.ChapterSummary
			chapters, err = o.provider.ListChapters(ctx, versionID, state.BookID)
			view.Chapters = withoutIntro(chapters)
		case navigation.LevelChapter:
			view = View{Kind: ViewVerses, VersionID: versionID}
			var ch *api.Chapter
			ch, err = o.provider.GetChapter(ctx, versionID, state.ChapterID)
			if err == nil {
				view.Verses, err = verseItems(ch)
			}
		default:
			return View{}, fmt.Errorf("cannot navigate to %s level", level)
		}
		if err != nil {
			view = o.failed(view, err)
		}
		return o.commit(gen, view, func(n *navigation.Navigator, v *View) error {
			n.ResetToLevel(versionID, level)
			return nil
		})
	}
}

// JumpTo opens the chapter of ref, selecting its book and chapter. The
// returned view is the chapter's verse list; callers wanting the verse
// itself follow up with LoadVerseDetail(ref.VerseID()).
func (o *Orchestrator) JumpTo(versionID string, ref navigation.Reference) Task {
	gen := o.begin(versionID)
	return func(ctx context.Context) (View, error) {
		view := View{Kind: ViewVerses, VersionID: versionID}
		ch, err := o.provider.GetChapter(ctx, versionID, ref.ChapterID())
		if err == nil {
			view.Verses, err = verseItems(ch)
		}
		if err != nil {
			view = o.failed(view, err)
		}
		return o.commit(gen, view, func(n *navigation.Navigator, v *View) error {
			n.SetBook(versionID, ref.BookID, canon.Name(ref.BookID))
			return n.SetChapter(versionID, ref.ChapterID(), ch.Number)
		})
	}
}

func (o *Orchestrator) detail(s navigation.State, text string) *VerseDetail {
	verse := s.VerseNumber()
	key := favorites.Key(s.BookID, s.ChapterNumber, verse)
	return &VerseDetail{
		Key:      key,
		VerseID:  s.VerseID,
		BookID:   s.BookID,
		BookName: s.BookName,
		Chapter:  s.ChapterNumber,
		Verse:    verse,
		Text:     text,
		Favorite: o.favorites.Contains(key),
	}
}

func withoutIntro(chapters []api.ChapterSummary) []api.ChapterSummary {
	out := make([]api.ChapterSummary, 0, len(chapters))
	for _, c := range chapters {
		if !c.IsIntro() {
			out = append(out, c)
		}
	}
	return out
}

func verseItems(ch *api.Chapter) ([]VerseItem, error) {
	numbers, err := api.VerseNumbers(ch.Content)
	if err != nil {
		return nil, &api.DataError{Op: "parse chapter", Err: err}
	}
	items := make([]VerseItem, 0, len(numbers))
	for _, n := range numbers {
		items = append(items, VerseItem{
			ID:     ch.BookID + "." + ch.Number + "." + n,
			Number: n,
		})
	}
	return items, nil
}
