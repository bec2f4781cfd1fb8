// Package theme holds the reader's color palettes and the lipgloss styles
// built from them.
package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette is one color scheme.
type Palette struct {
	Name string

	Text     lipgloss.Color
	Subtle   lipgloss.Color
	Accent   lipgloss.Color
	Favorite lipgloss.Color
	Error    lipgloss.Color

	Border       lipgloss.Color
	BorderActive lipgloss.Color
	Selected     lipgloss.Color
}

var (
	Midnight = Palette{
		Name:         "Midnight",
		Text:         lipgloss.Color("#d8dee9"),
		Subtle:       lipgloss.Color("#6b7489"),
		Accent:       lipgloss.Color("#88c0d0"),
		Favorite:     lipgloss.Color("#ebcb8b"),
		Error:        lipgloss.Color("#bf616a"),
		Border:       lipgloss.Color("#3b4252"),
		BorderActive: lipgloss.Color("#81a1c1"),
		Selected:     lipgloss.Color("#434c5e"),
	}

	Parchment = Palette{
		Name:         "Parchment",
		Text:         lipgloss.Color("#4a3f35"),
		Subtle:       lipgloss.Color("#9a8c7a"),
		Accent:       lipgloss.Color("#8b4513"),
		Favorite:     lipgloss.Color("#b8860b"),
		Error:        lipgloss.Color("#a52a2a"),
		Border:       lipgloss.Color("#d8cbb3"),
		BorderActive: lipgloss.Color("#8b4513"),
		Selected:     lipgloss.Color("#eadfc8"),
	}

	Dracula = Palette{
		Name:         "Dracula",
		Text:         lipgloss.Color("#f8f8f2"),
		Subtle:       lipgloss.Color("#6272a4"),
		Accent:       lipgloss.Color("#ff79c6"),
		Favorite:     lipgloss.Color("#f1fa8c"),
		Error:        lipgloss.Color("#ff5555"),
		Border:       lipgloss.Color("#44475a"),
		BorderActive: lipgloss.Color("#bd93f9"),
		Selected:     lipgloss.Color("#44475a"),
	}

	SolarizedDark = Palette{
		Name:         "Solarized Dark",
		Text:         lipgloss.Color("#839496"),
		Subtle:       lipgloss.Color("#586e75"),
		Accent:       lipgloss.Color("#2aa198"),
		Favorite:     lipgloss.Color("#b58900"),
		Error:        lipgloss.Color("#dc322f"),
		Border:       lipgloss.Color("#073642"),
		BorderActive: lipgloss.Color("#268bd2"),
		Selected:     lipgloss.Color("#073642"),
	}
)

// All returns the palettes in the order the theme key cycles through them.
func All() []Palette {
	return []Palette{Midnight, Parchment, Dracula, SolarizedDark}
}

// Lookup finds a palette by display name or slug ("solarized-dark"),
// ignoring case. Unknown names return Midnight and false.
func Lookup(name string) (Palette, bool) {
	want := slug(name)
	for _, p := range All() {
		if slug(p.Name) == want {
			return p, true
		}
	}
	return Midnight, false
}

// Next returns the palette after p, wrapping around.
func Next(p Palette) Palette {
	all := All()
	for i, q := range all {
		if q.Name == p.Name {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}

// Styles are the rendered building blocks of the reader.
type Styles struct {
	Palette Palette

	Title        lipgloss.Style
	Tab          lipgloss.Style
	ActiveTab    lipgloss.Style
	Crumb        lipgloss.Style
	CrumbSep     lipgloss.Style
	CurrentCrumb lipgloss.Style
	Item         lipgloss.Style
	Selected     lipgloss.Style
	Panel        lipgloss.Style
	Reference    lipgloss.Style
	VerseText    lipgloss.Style
	Star         lipgloss.Style
	Error        lipgloss.Style
	Help         lipgloss.Style
	Status       lipgloss.Style
}

// Build derives the styles for p.
func Build(p Palette) Styles {
	return Styles{
		Palette: p,

		Title: lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		Tab: lipgloss.NewStyle().
			Foreground(p.Subtle).
			Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true).
			Underline(true).
			Padding(0, 1),
		Crumb:        lipgloss.NewStyle().Foreground(p.BorderActive),
		CrumbSep:     lipgloss.NewStyle().Foreground(p.Subtle),
		CurrentCrumb: lipgloss.NewStyle().Foreground(p.Text).Bold(true),
		Item:         lipgloss.NewStyle().Foreground(p.Text).PaddingLeft(2),
		Selected: lipgloss.NewStyle().
			Foreground(p.Accent).
			Background(p.Selected).
			Bold(true).
			PaddingLeft(1).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(p.BorderActive),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		Reference: lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		VerseText: lipgloss.NewStyle().Foreground(p.Text),
		Star:      lipgloss.NewStyle().Foreground(p.Favorite),
		Error:     lipgloss.NewStyle().Foreground(p.Error),
		Help:      lipgloss.NewStyle().Foreground(p.Subtle),
		Status:    lipgloss.NewStyle().Foreground(p.Subtle).Italic(true),
	}
}
