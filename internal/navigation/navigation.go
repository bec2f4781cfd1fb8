// Package navigation tracks, per translation, how far the reader has drilled
// into the version > book > chapter > verse hierarchy.
//
// A State is always a valid prefix of that hierarchy: a verse implies a
// chapter and a chapter implies a book. Navigator enforces it on every
// transition.
package navigation

import (
	"errors"
	"fmt"
	"strings"
)

// Level is a depth in the hierarchy.
type Level int

const (
	LevelVersion Level = iota
	LevelBook
	LevelChapter
	LevelVerse
)

func (l Level) String() string {
	switch l {
	case LevelVersion:
		return "version"
	case LevelBook:
		return "book"
	case LevelChapter:
		return "chapter"
	case LevelVerse:
		return "verse"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel maps "version", "book" or "chapter" to a resettable level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "version":
		return LevelVersion, nil
	case "book":
		return LevelBook, nil
	case "chapter":
		return LevelChapter, nil
	}
	return 0, fmt.Errorf("navigation: unknown level %q", s)
}

var (
	ErrNoBook    = errors.New("navigation: no book selected")
	ErrNoChapter = errors.New("navigation: no chapter selected")
)

// State is the cursor for one translation. Empty strings mean unset.
type State struct {
	VersionID     string
	BookID        string
	BookName      string
	ChapterID     string
	ChapterNumber string
	VerseID       string

	generation uint64
}

// Level reports the deepest level set.
func (s State) Level() Level {
	switch {
	case s.VerseID != "":
		return LevelVerse
	case s.ChapterID != "":
		return LevelChapter
	case s.BookID != "":
		return LevelBook
	default:
		return LevelVersion
	}
}

// VerseNumber is the last segment of VerseID ("GEN.1.5" -> "5").
func (s State) VerseNumber() string {
	if s.VerseID == "" {
		return ""
	}
	return s.VerseID[strings.LastIndex(s.VerseID, ".")+1:]
}

func (s *State) clearBelow(level Level) {
	if level <= LevelVersion {
		s.BookID, s.BookName = "", ""
	}
	if level <= LevelBook {
		s.ChapterID, s.ChapterNumber = "", ""
	}
	if level <= LevelChapter {
		s.VerseID = ""
	}
}

// Navigator owns one State per translation. It is not safe for concurrent
// use; the orchestrator serializes access.
type Navigator struct {
	states map[string]*State
}

func New() *Navigator {
	return &Navigator{states: make(map[string]*State)}
}

func (n *Navigator) get(versionID string) *State {
	s, ok := n.states[versionID]
	if !ok {
		s = &State{VersionID: versionID}
		n.states[versionID] = s
	}
	return s
}

// State returns a copy of the cursor for versionID, creating it on first use.
func (n *Navigator) State(versionID string) State {
	return *n.get(versionID)
}

// SetBook selects a book and clears chapter and verse.
func (n *Navigator) SetBook(versionID, bookID, bookName string) {
	s := n.get(versionID)
	s.clearBelow(LevelVersion)
	s.BookID, s.BookName = bookID, bookName
}

// SetChapter selects a chapter and clears the verse.
func (n *Navigator) SetChapter(versionID, chapterID, chapterNumber string) error {
	s := n.get(versionID)
	if s.BookID == "" {
		return ErrNoBook
	}
	s.clearBelow(LevelBook)
	s.ChapterID, s.ChapterNumber = chapterID, chapterNumber
	return nil
}

// SetVerse selects a verse within the current chapter.
func (n *Navigator) SetVerse(versionID, verseID string) error {
	s := n.get(versionID)
	if s.ChapterID == "" {
		return ErrNoChapter
	}
	s.VerseID = verseID
	return nil
}

// ResetToLevel clears every field below level: LevelVersion clears book,
// chapter and verse; LevelBook clears chapter and verse; LevelChapter clears
// the verse.
func (n *Navigator) ResetToLevel(versionID string, level Level) {
	n.get(versionID).clearBelow(level)
}

// Begin starts a request against versionID's state and returns its
// generation. Any later Begin on the same state makes it stale.
func (n *Navigator) Begin(versionID string) uint64 {
	s := n.get(versionID)
	s.generation++
	return s.generation
}

// IsCurrent reports whether gen is the latest generation for versionID.
func (n *Navigator) IsCurrent(versionID string, gen uint64) bool {
	return n.get(versionID).generation == gen
}
