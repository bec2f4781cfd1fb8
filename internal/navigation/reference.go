package navigation

import (
	"fmt"
	"strconv"
	"strings"

	"verse-tui/internal/canon"
)

// Reference points at a chapter, and optionally a verse, of a book.
type Reference struct {
	BookID  string
	Chapter int
	Verse   int // 0 when the whole chapter is meant
}

// ChapterID is the API chapter id, e.g. "GEN.1".
func (r Reference) ChapterID() string {
	return fmt.Sprintf("%s.%d", r.BookID, r.Chapter)
}

// VerseID is the API verse id, e.g. "GEN.1.5", or "" without a verse.
func (r Reference) VerseID() string {
	if r.Verse == 0 {
		return ""
	}
	return fmt.Sprintf("%s.%d.%d", r.BookID, r.Chapter, r.Verse)
}

func (r Reference) String() string {
	s := fmt.Sprintf("%s %d", canon.Name(r.BookID), r.Chapter)
	if r.Verse > 0 {
		s += fmt.Sprintf(":%d", r.Verse)
	}
	return s
}

// ParseReference accepts "GEN.1.5", "GEN 1:5", "gen 1", "Genesis 1:5" and
// "1 John 4:8". A missing chapter means chapter 1.
func ParseReference(input string) (Reference, error) {
	ref := strings.TrimSpace(input)
	if ref == "" {
		return Reference{}, fmt.Errorf("empty reference")
	}

	if !strings.ContainsAny(ref, " :") && strings.Contains(ref, ".") {
		parts := strings.Split(ref, ".")
		ref = parts[0]
		if len(parts) > 1 {
			ref += " " + strings.Join(parts[1:], ":")
		}
	}

	fields := strings.Fields(ref)
	if len(fields) == 0 {
		return Reference{}, fmt.Errorf("invalid reference %q", input)
	}
	last := fields[len(fields)-1]

	bookPart, cv := ref, ""
	if len(fields) > 1 && startsWithDigit(last) {
		bookPart = strings.Join(fields[:len(fields)-1], " ")
		cv = last
	}

	book, ok := canon.Lookup(bookPart)
	if !ok {
		return Reference{}, fmt.Errorf("unknown book %q", bookPart)
	}

	r := Reference{BookID: book.ID, Chapter: 1}
	if cv == "" {
		return r, nil
	}

	chapter, verse, hasVerse := strings.Cut(cv, ":")
	n, err := strconv.Atoi(chapter)
	if err != nil || n < 1 {
		return Reference{}, fmt.Errorf("invalid chapter %q", chapter)
	}
	r.Chapter = n

	if hasVerse {
		v, err := strconv.Atoi(verse)
		if err != nil || v < 1 {
			return Reference{}, fmt.Errorf("invalid verse %q", verse)
		}
		r.Verse = v
	}
	return r, nil
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
