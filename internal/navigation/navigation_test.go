package navigation

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kjv = "de4e12af7f28f599-02"

func TestNavigator_StateIsLazyAndZeroed(t *testing.T) {
	n := New()

	s := n.State(kjv)
	assert.Equal(t, State{VersionID: kjv}, s)
	assert.Equal(t, LevelVersion, s.Level())
}

func TestNavigator_SetBookClearsBelow(t *testing.T) {
	n := New()
	n.SetBook(kjv, "GEN", "Genesis")
	require.NoError(t, n.SetChapter(kjv, "GEN.1", "1"))
	require.NoError(t, n.SetVerse(kjv, "GEN.1.3"))

	n.SetBook(kjv, "EXO", "Exodus")

	s := n.State(kjv)
	assert.Equal(t, "EXO", s.BookID)
	assert.Equal(t, "Exodus", s.BookName)
	assert.Empty(t, s.ChapterID)
	assert.Empty(t, s.ChapterNumber)
	assert.Empty(t, s.VerseID)
}

func TestNavigator_SetChapterRequiresBook(t *testing.T) {
	n := New()
	assert.ErrorIs(t, n.SetChapter(kjv, "GEN.1", "1"), ErrNoBook)
	assert.Equal(t, LevelVersion, n.State(kjv).Level())
}

func TestNavigator_SetVerseRequiresChapter(t *testing.T) {
	n := New()
	n.SetBook(kjv, "GEN", "Genesis")
	assert.ErrorIs(t, n.SetVerse(kjv, "GEN.1.1"), ErrNoChapter)
	assert.Equal(t, LevelBook, n.State(kjv).Level())
}

func TestNavigator_ResetToBook(t *testing.T) {
	n := New()
	n.SetBook(kjv, "GEN", "Genesis")
	require.NoError(t, n.SetChapter(kjv, "GEN.1", "1"))

	n.ResetToLevel(kjv, LevelBook)

	s := n.State(kjv)
	assert.Equal(t, "GEN", s.BookID)
	assert.Equal(t, "Genesis", s.BookName)
	assert.Empty(t, s.ChapterID)
	assert.Empty(t, s.VerseID)
}

func TestNavigator_ResetLevels(t *testing.T) {
	tests := []struct {
		level Level
		want  Level
	}{
		{LevelVersion, LevelVersion},
		{LevelBook, LevelBook},
		{LevelChapter, LevelChapter},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			n := New()
			n.SetBook(kjv, "PSA", "Psalms")
			require.NoError(t, n.SetChapter(kjv, "PSA.23", "23"))
			require.NoError(t, n.SetVerse(kjv, "PSA.23.1"))

			n.ResetToLevel(kjv, tt.level)
			assert.Equal(t, tt.want, n.State(kjv).Level())
		})
	}
}

func TestNavigator_StatesArePerVersion(t *testing.T) {
	n := New()
	n.SetBook(kjv, "GEN", "Genesis")
	n.SetBook("web", "JHN", "John")

	assert.Equal(t, "GEN", n.State(kjv).BookID)
	assert.Equal(t, "JHN", n.State("web").BookID)
}

// Any sequence of transitions keeps verse => chapter => book.
func TestNavigator_InvariantUnderRandomTransitions(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	n := New()

	for i := 0; i < 2000; i++ {
		switch rng.Intn(4) {
		case 0:
			n.SetBook(kjv, "GEN", "Genesis")
		case 1:
			_ = n.SetChapter(kjv, "GEN.2", "2")
		case 2:
			_ = n.SetVerse(kjv, "GEN.2.4")
		case 3:
			n.ResetToLevel(kjv, Level(rng.Intn(3)))
		}

		s := n.State(kjv)
		if s.VerseID != "" {
			require.NotEmpty(t, s.ChapterID, "step %d", i)
		}
		if s.ChapterID != "" {
			require.NotEmpty(t, s.BookID, "step %d", i)
		}
		require.Len(t, n.Breadcrumbs(kjv, "KJV"), 1+int(s.Level()), "step %d", i)
	}
}

func TestNavigator_Generations(t *testing.T) {
	n := New()

	first := n.Begin(kjv)
	assert.True(t, n.IsCurrent(kjv, first))

	second := n.Begin(kjv)
	assert.Greater(t, second, first)
	assert.False(t, n.IsCurrent(kjv, first))
	assert.True(t, n.IsCurrent(kjv, second))

	// Other versions have their own counters.
	assert.True(t, n.IsCurrent(kjv, second))
	n.Begin("web")
	assert.True(t, n.IsCurrent(kjv, second))
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("Book")
	require.NoError(t, err)
	assert.Equal(t, LevelBook, l)

	_, err = ParseLevel("verse")
	assert.Error(t, err)
}

func TestState_VerseNumber(t *testing.T) {
	assert.Equal(t, "16", State{VerseID: "JHN.3.16"}.VerseNumber())
	assert.Equal(t, "", State{}.VerseNumber())
}
