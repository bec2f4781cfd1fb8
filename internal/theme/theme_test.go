package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"Solarized Dark", "Solarized Dark", true},
		{"solarized-dark", "Solarized Dark", true},
		{" PARCHMENT ", "Parchment", true},
		{"", "Midnight", false},
		{"neon", "Midnight", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := Lookup(tt.name)
			assert.Equal(t, tt.want, p.Name)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestNextCycles(t *testing.T) {
	seen := map[string]bool{}
	p := Midnight
	for range All() {
		seen[p.Name] = true
		p = Next(p)
	}
	assert.Len(t, seen, len(All()))
	assert.Equal(t, Midnight.Name, p.Name)
}

func TestBuild(t *testing.T) {
	s := Build(Dracula)
	assert.Equal(t, Dracula.Name, s.Palette.Name)
	assert.Equal(t, Dracula.Favorite, s.Star.GetForeground())
	assert.True(t, s.ActiveTab.GetBold())
}
