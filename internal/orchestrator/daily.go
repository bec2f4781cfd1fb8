package orchestrator

import (
	"context"

	"verse-tui/internal/api"
	"verse-tui/internal/favorites"
)

// FallbackDailyVerse is shown whenever the daily verse cannot be loaded.
var FallbackDailyVerse = api.DailyVerse{
	Book:    "Psalms",
	BookID:  "PSA",
	Chapter: "119",
	Verse:   "105",
	Text:    "Your word is a lamp to my feet and a light to my path.",
}

// DailyView is the daily verse card.
type DailyView struct {
	Verse     api.DailyVerse
	VersionID string
	Favorite  bool
	// Fallback is set when Verse is FallbackDailyVerse because loading
	// failed; Err holds the cause.
	Fallback bool
	Err      error
}

// Key is the composite favorites key of the shown verse.
func (d DailyView) Key() string {
	return favorites.Key(d.Verse.BookID, d.Verse.Chapter, d.Verse.Verse)
}

// DailyVerse loads the verse of the day. It never fails: errors and
// responses without text produce the fallback verse.
func (o *Orchestrator) DailyVerse(versionID string) func(ctx context.Context) DailyView {
	return func(ctx context.Context) DailyView {
		d := DailyView{VersionID: versionID}

		v, err := o.provider.DailyVerse(ctx)
		switch {
		case err != nil:
			d.Err = err
		case v == nil || v.Text == "":
			d.Err = &api.DataError{Op: "daily verse", Field: "text"}
		default:
			d.Verse = *v
		}

		if d.Err != nil {
			o.logger.Warn("daily verse unavailable, showing fallback", "kind", Classify(d.Err), "error", d.Err)
			d.Verse = FallbackDailyVerse
			d.Fallback = true
		}
		d.Favorite = o.favorites.Contains(d.Key())
		return d
	}
}
