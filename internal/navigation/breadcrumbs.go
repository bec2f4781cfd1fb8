package navigation

// Crumb is one entry of the breadcrumb trail.
type Crumb struct {
	Label string
	Level Level
	// Current marks the last crumb, the position being viewed.
	Current bool
}

// Navigable reports whether selecting the crumb should reset to its level.
func (c Crumb) Navigable() bool { return !c.Current }

// Breadcrumbs derives the trail for versionID: the version label, then the
// book name, "Chapter N" and "Verse N" for each level that is set.
func (n *Navigator) Breadcrumbs(versionID, versionLabel string) []Crumb {
	s := n.State(versionID)

	crumbs := []Crumb{{Label: versionLabel, Level: LevelVersion}}
	if s.BookID != "" {
		crumbs = append(crumbs, Crumb{Label: s.BookName, Level: LevelBook})
	}
	if s.ChapterID != "" {
		crumbs = append(crumbs, Crumb{Label: "Chapter " + s.ChapterNumber, Level: LevelChapter})
	}
	if s.VerseID != "" {
		crumbs = append(crumbs, Crumb{Label: "Verse " + s.VerseNumber(), Level: LevelVerse})
	}
	crumbs[len(crumbs)-1].Current = true
	return crumbs
}
