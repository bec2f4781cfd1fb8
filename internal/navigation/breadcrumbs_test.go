package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreadcrumbs(t *testing.T) {
	n := New()

	t.Run("version only", func(t *testing.T) {
		crumbs := n.Breadcrumbs(kjv, "KJV")
		require.Len(t, crumbs, 1)
		assert.Equal(t, Crumb{Label: "KJV", Level: LevelVersion, Current: true}, crumbs[0])
		assert.False(t, crumbs[0].Navigable())
	})

	t.Run("full depth", func(t *testing.T) {
		n.SetBook(kjv, "GEN", "Genesis")
		require.NoError(t, n.SetChapter(kjv, "GEN.1", "1"))
		require.NoError(t, n.SetVerse(kjv, "GEN.1.3"))

		crumbs := n.Breadcrumbs(kjv, "KJV")
		assert.Equal(t, []Crumb{
			{Label: "KJV", Level: LevelVersion},
			{Label: "Genesis", Level: LevelBook},
			{Label: "Chapter 1", Level: LevelChapter},
			{Label: "Verse 3", Level: LevelVerse, Current: true},
		}, crumbs)

		for _, c := range crumbs[:3] {
			assert.True(t, c.Navigable())
		}
	})

	t.Run("after reset to book", func(t *testing.T) {
		n.ResetToLevel(kjv, LevelBook)

		crumbs := n.Breadcrumbs(kjv, "KJV")
		require.Len(t, crumbs, 2)
		assert.Equal(t, "Genesis", crumbs[1].Label)
		assert.True(t, crumbs[1].Current)
	})
}
