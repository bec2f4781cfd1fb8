package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verse-tui/internal/api"
	"verse-tui/internal/config"
	"verse-tui/internal/favorites"
	"verse-tui/internal/navigation"
	"verse-tui/internal/storage"
)

const kjv = api.KJV

const genesisOneHTML = `<p class="p"><span data-number="1" class="v">1</span>In the beginning God created the heaven and the earth. ` +
	`<span data-number="2" class="v">2</span>And the earth was without form.</p>`

// fakeProvider answers from fixed data and counts calls per method.
type fakeProvider struct {
	mu    sync.Mutex
	calls map[string]int
	fail  map[string]error
	daily *api.DailyVerse
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{calls: map[string]int{}, fail: map[string]error{}}
}

func (f *fakeProvider) record(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
	return f.fail[method]
}

func (f *fakeProvider) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeProvider) ListTranslations(context.Context) ([]api.Translation, error) {
	if err := f.record("ListTranslations"); err != nil {
		return nil, err
	}
	return []api.Translation{{ID: kjv, Abbreviation: "KJV", Language: api.Language{ID: "eng"}}}, nil
}

func (f *fakeProvider) ListBooks(_ context.Context, _ string) ([]api.Book, error) {
	if err := f.record("ListBooks"); err != nil {
		return nil, err
	}
	return []api.Book{{ID: "GEN", Name: "Genesis"}, {ID: "EXO", Name: "Exodus"}}, nil
}

func (f *fakeProvider) ListChapters(_ context.Context, _, bookID string) ([]api.ChapterSummary, error) {
	if err := f.record("ListChapters"); err != nil {
		return nil, err
	}
	return []api.ChapterSummary{
		{ID: bookID + ".intro", Number: "intro"},
		{ID: bookID + ".1", Number: "1"},
		{ID: bookID + ".2", Number: "2"},
		{ID: bookID + ".3", Number: "3"},
	}, nil
}

func (f *fakeProvider) GetChapter(_ context.Context, _, chapterID string) (*api.Chapter, error) {
	if err := f.record("GetChapter"); err != nil {
		return nil, err
	}
	book, number, _ := strings.Cut(chapterID, ".")
	return &api.Chapter{ID: chapterID, BookID: book, Number: number, Content: genesisOneHTML}, nil
}

func (f *fakeProvider) GetVerse(_ context.Context, _, verseID string) (*api.Verse, error) {
	if err := f.record("GetVerse"); err != nil {
		return nil, err
	}
	return &api.Verse{ID: verseID, Content: "In the beginning God created the heaven and the earth."}, nil
}

func (f *fakeProvider) DailyVerse(context.Context) (*api.DailyVerse, error) {
	if err := f.record("DailyVerse"); err != nil {
		return nil, err
	}
	return f.daily, nil
}

func newTestOrchestrator(t *testing.T) (*Orchestrator, *fakeProvider, *favorites.Store) {
	t.Helper()
	p := newFakeProvider()
	favs := favorites.New(storage.NewMemory())
	return New(p, favs, nil), p, favs
}

func run(t *testing.T, task Task) View {
	t.Helper()
	v, err := task(context.Background())
	require.NoError(t, err)
	return v
}

// drill opens Genesis 1:1 in the KJV.
func drill(t *testing.T, o *Orchestrator) View {
	t.Helper()
	run(t, o.LoadBooks(kjv))
	run(t, o.LoadChapters(kjv, "GEN", "Genesis"))
	run(t, o.LoadVerses(kjv, "GEN.1"))
	return run(t, o.LoadVerseDetail(kjv, "GEN.1.1"))
}

func TestLoadBooks(t *testing.T) {
	o, p, _ := newTestOrchestrator(t)

	v := run(t, o.LoadBooks(kjv))
	assert.Equal(t, ViewBooks, v.Kind)
	assert.Len(t, v.Books, 2)
	assert.Equal(t, 1, p.count("ListBooks"))
	assert.Equal(t, navigation.LevelVersion, o.State(kjv).Level())
}

func TestLoadChapters_FiltersIntro(t *testing.T) {
	o, p, _ := newTestOrchestrator(t)

	v := run(t, o.LoadChapters(kjv, "GEN", "Genesis"))
	require.Len(t, v.Chapters, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{v.Chapters[0].Number, v.Chapters[1].Number, v.Chapters[2].Number})
	assert.Equal(t, 1, p.count("ListChapters"))

	s := o.State(kjv)
	assert.Equal(t, "GEN", s.BookID)
	assert.Equal(t, "Genesis", s.BookName)
}

func TestLoadVerses(t *testing.T) {
	o, p, _ := newTestOrchestrator(t)
	run(t, o.LoadChapters(kjv, "GEN", "Genesis"))

	v := run(t, o.LoadVerses(kjv, "GEN.1"))
	assert.Equal(t, []VerseItem{{ID: "GEN.1.1", Number: "1"}, {ID: "GEN.1.2", Number: "2"}}, v.Verses)
	assert.Equal(t, 1, p.count("GetChapter"))
	assert.Equal(t, "1", o.State(kjv).ChapterNumber)
}

func TestLoadVerses_WithoutBookFails(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)

	v := run(t, o.LoadVerses(kjv, "GEN.1"))
	assert.True(t, v.Failed())
	assert.ErrorIs(t, v.Err, navigation.ErrNoBook)
	assert.Equal(t, navigation.LevelVersion, o.State(kjv).Level())
}

func TestLoadVerseDetail(t *testing.T) {
	o, p, _ := newTestOrchestrator(t)

	v := drill(t, o)
	require.NotNil(t, v.Detail)
	assert.Equal(t, &VerseDetail{
		Key:      "GEN.1.1",
		VerseID:  "GEN.1.1",
		BookID:   "GEN",
		BookName: "Genesis",
		Chapter:  "1",
		Verse:    "1",
		Text:     "In the beginning God created the heaven and the earth.",
	}, v.Detail)
	assert.Equal(t, 1, p.count("GetVerse"))

	current, ok := o.CurrentView(kjv)
	require.True(t, ok)
	assert.Equal(t, v, current)

	assert.Equal(t, []navigation.Crumb{
		{Label: "KJV", Level: navigation.LevelVersion},
		{Label: "Genesis", Level: navigation.LevelBook},
		{Label: "Chapter 1", Level: navigation.LevelChapter},
		{Label: "Verse 1", Level: navigation.LevelVerse, Current: true},
	}, o.Breadcrumbs(kjv, "KJV"))
}

func TestLoadFailure_LeavesCursorUnchanged(t *testing.T) {
	o, p, _ := newTestOrchestrator(t)
	run(t, o.LoadChapters(kjv, "GEN", "Genesis"))
	before := o.State(kjv)

	p.fail["ListChapters"] = &api.StatusError{Op: "list chapters", StatusCode: 503}
	v := run(t, o.LoadChapters(kjv, "EXO", "Exodus"))

	assert.True(t, v.Failed())
	assert.Equal(t, ViewChapters, v.Kind)
	assert.Empty(t, v.Chapters)
	assert.Equal(t, "Failed to load chapters. Please try again later.", v.Message)
	after := o.State(kjv)
	assert.Equal(t, before.BookID, after.BookID)
	assert.Equal(t, before.BookName, after.BookName)
	assert.Equal(t, before.Level(), after.Level())

	current, _ := o.CurrentView(kjv)
	assert.True(t, current.Failed())
}

func TestLoadFailure_ConfigError(t *testing.T) {
	o, p, _ := newTestOrchestrator(t)
	p.fail["ListBooks"] = fmt.Errorf("list books: %w", api.ErrMissingAPIKey)

	v := run(t, o.LoadBooks(kjv))
	assert.Contains(t, v.Message, "API key")
}

func TestStaleResponsesAreDiscarded(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)

	// The user opens Genesis and then, before it loads, Exodus.
	slow := o.LoadChapters(kjv, "GEN", "Genesis")
	fast := o.LoadChapters(kjv, "EXO", "Exodus")

	v := run(t, fast)
	assert.Equal(t, "EXO.1", v.Chapters[0].ID)

	_, err := slow(context.Background())
	assert.ErrorIs(t, err, ErrStale)

	current, _ := o.CurrentView(kjv)
	assert.Equal(t, "EXO.1", current.Chapters[0].ID)
	assert.Equal(t, "EXO", o.State(kjv).BookID)
}

func TestStaleFailuresAreDiscarded(t *testing.T) {
	o, p, _ := newTestOrchestrator(t)
	p.fail["ListBooks"] = errors.New("boom")

	stale := o.LoadBooks(kjv)
	run(t, o.LoadChapters(kjv, "GEN", "Genesis"))

	_, err := stale(context.Background())
	assert.ErrorIs(t, err, ErrStale)
	current, _ := o.CurrentView(kjv)
	assert.False(t, current.Failed())
}

func TestVersionsAreIndependent(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)

	gen := o.LoadChapters(kjv, "GEN", "Genesis")
	run(t, o.LoadBooks("web"))
	run(t, gen)

	assert.Equal(t, "GEN", o.State(kjv).BookID)
	assert.Equal(t, navigation.LevelVersion, o.State("web").Level())
}

func TestNavigateTo(t *testing.T) {
	o, p, _ := newTestOrchestrator(t)
	drill(t, o)

	v := run(t, o.NavigateTo(kjv, navigation.LevelBook))
	assert.Equal(t, ViewChapters, v.Kind)
	assert.Len(t, v.Chapters, 3)
	assert.Equal(t, 2, p.count("ListChapters"))

	s := o.State(kjv)
	assert.Equal(t, "GEN", s.BookID)
	assert.Empty(t, s.ChapterID)
	assert.Empty(t, s.VerseID)
	assert.Len(t, o.Breadcrumbs(kjv, "KJV"), 2)
}

func TestNavigateTo_ChapterAndVersion(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)
	drill(t, o)

	v := run(t, o.NavigateTo(kjv, navigation.LevelChapter))
	assert.Equal(t, ViewVerses, v.Kind)
	assert.Equal(t, navigation.LevelChapter, o.State(kjv).Level())

	v = run(t, o.NavigateTo(kjv, navigation.LevelVersion))
	assert.Equal(t, ViewBooks, v.Kind)
	assert.Equal(t, navigation.LevelVersion, o.State(kjv).Level())
}

func TestNavigateTo_FailureKeepsCursor(t *testing.T) {
	o, p, _ := newTestOrchestrator(t)
	drill(t, o)
	p.fail["ListBooks"] = errors.New("offline")

	v := run(t, o.NavigateTo(kjv, navigation.LevelVersion))
	assert.True(t, v.Failed())
	assert.Equal(t, navigation.LevelVerse, o.State(kjv).Level())
}

func TestJumpTo(t *testing.T) {
	o, p, _ := newTestOrchestrator(t)

	ref, err := navigation.ParseReference("Genesis 1:2")
	require.NoError(t, err)

	v := run(t, o.JumpTo(kjv, ref))
	assert.Equal(t, ViewVerses, v.Kind)
	assert.Len(t, v.Verses, 2)
	assert.Equal(t, 1, p.count("GetChapter"))

	s := o.State(kjv)
	assert.Equal(t, "GEN", s.BookID)
	assert.Equal(t, "Genesis", s.BookName)
	assert.Equal(t, "GEN.1", s.ChapterID)

	d := run(t, o.LoadVerseDetail(kjv, ref.VerseID()))
	assert.Equal(t, "GEN.1.2", d.Detail.Key)
}

func TestLoadTranslations(t *testing.T) {
	o, p, _ := newTestOrchestrator(t)

	ts, err := o.LoadTranslations()(context.Background())
	require.NoError(t, err)
	assert.Len(t, ts, 1)

	p.fail["ListTranslations"] = errors.New("down")
	_, err = o.LoadTranslations()(context.Background())
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{api.ErrMissingAPIKey, KindConfig},
		{&api.StatusError{StatusCode: 401}, KindConfig},
		{fmt.Errorf("%w: storage \"redis\"", config.ErrInvalid), KindConfig},
		{&api.StatusError{StatusCode: 500}, KindNetwork},
		{&api.TransportError{Op: "x", Err: errors.New("refused")}, KindNetwork},
		{&api.DataError{Op: "x", Field: "text"}, KindData},
		{fmt.Errorf("wrapped: %w", favorites.ErrUnknownSchema), KindData},
		{fmt.Errorf("%w: disk", storage.ErrStorage), KindStorage},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
