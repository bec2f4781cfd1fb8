package orchestrator

import (
	"fmt"

	"verse-tui/internal/favorites"
	"verse-tui/internal/navigation"
)

// ToggleFavorite flips the favorite state of the verse shown for versionID
// and returns the new membership. It makes no provider call.
func (o *Orchestrator) ToggleFavorite(versionID string) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := o.nav.State(versionID)
	if s.Level() != navigation.LevelVerse {
		return false, fmt.Errorf("no verse selected")
	}

	view := o.views[versionID]
	text := ""
	if view.Detail != nil {
		text = view.Detail.Text
	}

	on, err := o.favorites.Toggle(favorites.VerseInput{
		BookID:    s.BookID,
		Book:      s.BookName,
		Chapter:   s.ChapterNumber,
		Verse:     s.VerseNumber(),
		Text:      text,
		VersionID: versionID,
	})
	if err != nil {
		o.logger.Warn("toggling favorite", "version", versionID, "verse", s.VerseID, "error", err)
		return o.favorites.Contains(favorites.Key(s.BookID, s.ChapterNumber, s.VerseNumber())), err
	}

	if view.Detail != nil {
		detail := *view.Detail
		detail.Favorite = on
		view.Detail = &detail
		o.views[versionID] = view
	}
	return on, nil
}

// ToggleDailyFavorite flips the favorite state of the daily verse.
func (o *Orchestrator) ToggleDailyFavorite(d DailyView) (bool, error) {
	on, err := o.favorites.Toggle(favorites.VerseInput{
		BookID:    d.Verse.BookID,
		Book:      d.Verse.Book,
		Chapter:   d.Verse.Chapter,
		Verse:     d.Verse.Verse,
		Text:      d.Verse.Text,
		VersionID: d.VersionID,
	})
	if err != nil {
		o.logger.Warn("toggling daily favorite", "error", err)
	}
	return on, err
}

// IsFavorite reports whether key is saved.
func (o *Orchestrator) IsFavorite(key string) bool {
	return o.favorites.Contains(key)
}

// Favorites returns saved verses, newest first. Storage failures yield an
// empty list.
func (o *Orchestrator) Favorites() []favorites.Favorite {
	favs := o.favorites.List()
	favorites.SortNewestFirst(favs)
	return favs
}

// RemoveFavorite deletes a saved verse by key.
func (o *Orchestrator) RemoveFavorite(key string) (bool, error) {
	removed, err := o.favorites.Remove(key)
	if err != nil {
		o.logger.Warn("removing favorite", "key", key, "error", err)
	}
	return removed, err
}
