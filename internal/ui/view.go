package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"verse-tui/internal/orchestrator"
)

// chromeHeight is the number of lines around the body: title, tabs,
// breadcrumbs, two spacers, status and help.
const chromeHeight = 7

func (m Model) bodyHeight() int {
	return max(3, m.height-chromeHeight)
}

func (m Model) listHeight() int {
	return m.bodyHeight()
}

func (m Model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	var body, help string
	switch m.screen {
	case screenHome:
		body = m.renderHome()
		help = "enter: read • c: read chapter • s: save • f: favorites • g: go to • t: theme • q: quit"
	case screenFavorites:
		body = m.renderFavorites()
		help = "↑/↓: move • enter: open • x: remove • esc: back • q: quit"
	case screenJump:
		body = m.renderJump()
		help = "enter: go • esc: cancel"
	default:
		body = m.renderReader()
		help = "↑/↓: move • enter: open • esc: up • 1-4: breadcrumb • tab: translation • s: save • r: retry • d: daily • q: quit"
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("verse-tui"))
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(help))
	return b.String()
}

func (m Model) renderStatus() string {
	if m.screen == screenReader && m.loading() {
		return m.spinner.View() + m.styles.Status.Render(" Loading...")
	}
	return m.styles.Status.Render(m.status)
}

func (m Model) renderHome() string {
	if m.daily == nil {
		return "\n" + m.spinner.View() + m.styles.Status.Render(" Loading today's verse...")
	}

	d := m.daily
	ref := fmt.Sprintf("%s %s:%s", d.Verse.Book, d.Verse.Chapter, d.Verse.Verse)
	header := m.styles.Reference.Render(ref) + m.styles.Help.Render("  "+m.versionLabel(d.VersionID))
	if d.Favorite {
		header += " " + m.styles.Star.Render("★")
	}

	text := m.styles.VerseText.Width(m.textWidth()).Render(d.Verse.Text)
	card := m.styles.Title.Render("Verse of the Day") + "\n\n" + header + "\n\n" + text
	if d.Fallback {
		card += "\n\n" + m.styles.Status.Render("Today's verse could not be loaded; showing a saved verse.")
	}
	return "\n" + m.styles.Panel.Render(card)
}

func (m Model) renderReader() string {
	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.renderCrumbs())
	b.WriteString("\n\n")

	view, ok := m.orch.CurrentView(m.version())
	switch {
	case !ok:
		b.WriteString(m.styles.Status.Render("Loading books..."))
	case view.Failed():
		b.WriteString(m.styles.Error.Render(view.Message))
		b.WriteString("\n")
		b.WriteString(m.styles.Help.Render("Press r or enter to retry."))
	case view.Kind == orchestrator.ViewVerseDetail:
		b.WriteString(m.viewport.View())
	default:
		b.WriteString(m.renderList(view))
	}
	return b.String()
}

func (m Model) renderTabs() string {
	if len(m.tabs) == 0 {
		return m.styles.Tab.Render(m.versionLabel(m.version()))
	}
	tabs := make([]string, 0, len(m.tabs))
	for i, t := range m.tabs {
		if i == m.tab {
			tabs = append(tabs, m.styles.ActiveTab.Render(t.Label()))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(t.Label()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderCrumbs() string {
	versionID := m.version()
	crumbs := m.orch.Breadcrumbs(versionID, m.versionLabel(versionID))

	parts := make([]string, 0, len(crumbs))
	for i, c := range crumbs {
		label := fmt.Sprintf("%d %s", i+1, c.Label)
		if c.Current {
			parts = append(parts, m.styles.CurrentCrumb.Render(label))
		} else {
			parts = append(parts, m.styles.Crumb.Render(label))
		}
	}
	return strings.Join(parts, m.styles.CrumbSep.Render(" › "))
}

func (m Model) renderList(view orchestrator.View) string {
	labels := listLabels(view)
	if len(labels) == 0 {
		return m.styles.Status.Render("Nothing here.")
	}

	cursor := m.cursor[view.VersionID]
	rows := m.listHeight()
	start := 0
	if cursor >= rows {
		start = cursor - rows + 1
	}
	end := min(len(labels), start+rows)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		if i == cursor {
			lines = append(lines, m.styles.Selected.Render(labels[i]))
		} else {
			lines = append(lines, m.styles.Item.Render(labels[i]))
		}
	}
	return strings.Join(lines, "\n")
}

func listLabels(v orchestrator.View) []string {
	var labels []string
	switch v.Kind {
	case orchestrator.ViewBooks:
		for _, b := range v.Books {
			labels = append(labels, b.Name)
		}
	case orchestrator.ViewChapters:
		for _, c := range v.Chapters {
			labels = append(labels, "Chapter "+c.Number)
		}
	case orchestrator.ViewVerses:
		for _, vi := range v.Verses {
			labels = append(labels, "Verse "+vi.Number)
		}
	}
	return labels
}

func (m Model) renderDetail(d *orchestrator.VerseDetail) string {
	ref := fmt.Sprintf("%s %s:%s", d.BookName, d.Chapter, d.Verse)
	header := m.styles.Reference.Render(ref)
	if d.Favorite {
		header += " " + m.styles.Star.Render("★")
	} else {
		header += " " + m.styles.Help.Render("☆")
	}

	text := d.Text
	if text == "" {
		text = "(no text)"
	}
	return header + "\n\n" + m.styles.VerseText.Width(m.textWidth()).Render(text)
}

func (m Model) renderFavorites() string {
	if len(m.favs) == 0 {
		return "\n" + m.styles.Status.Render("No favorites yet. Press s on a verse to save it.")
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(fmt.Sprintf("Favorites (%d)", len(m.favs))))
	b.WriteString("\n\n")

	rows := m.listHeight() - 2
	start := 0
	if m.favCursor >= rows {
		start = m.favCursor - rows + 1
	}
	for i := start; i < len(m.favs) && i < start+rows; i++ {
		f := m.favs[i]
		line := fmt.Sprintf("%s  %s  %s", f.Reference(), m.versionLabel(f.VersionID), truncate(f.Text, max(10, m.textWidth()-30)))
		if i == m.favCursor {
			b.WriteString(m.styles.Selected.Render(line))
		} else {
			b.WriteString(m.styles.Item.Render(line))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderJump() string {
	return "\n" + m.styles.Title.Render("Go to reference") + "\n\n" + m.input.View()
}

func (m Model) textWidth() int {
	return max(20, min(m.width-4, 100))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
