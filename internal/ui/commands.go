package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"verse-tui/internal/api"
	"verse-tui/internal/orchestrator"
)

type translationsLoadedMsg struct {
	translations []api.Translation
	err          error
}

type dailyLoadedMsg struct{ daily orchestrator.DailyView }

// viewLoadedMsg carries the result of one orchestrator task. follow is a
// verse id to open once a chapter has loaded.
type viewLoadedMsg struct {
	versionID string
	view      orchestrator.View
	err       error
	follow    string
}

// pending remembers how to repeat a load. newTask is called at request time
// so the load takes its generation before any later one.
type pending struct {
	newTask func() orchestrator.Task
	follow  string
}

func loadTranslations(ctx context.Context, o *orchestrator.Orchestrator) tea.Cmd {
	load := o.LoadTranslations()
	return func() tea.Msg {
		ts, err := load(ctx)
		return translationsLoadedMsg{translations: ts, err: err}
	}
}

func loadDaily(ctx context.Context, o *orchestrator.Orchestrator, versionID string) tea.Cmd {
	load := o.DailyVerse(versionID)
	return func() tea.Msg {
		return dailyLoadedMsg{daily: load(ctx)}
	}
}

func runTask(ctx context.Context, versionID string, task orchestrator.Task, follow string) tea.Cmd {
	return func() tea.Msg {
		v, err := task(ctx)
		return viewLoadedMsg{versionID: versionID, view: v, err: err, follow: follow}
	}
}

// start issues a load for versionID and remembers it for retry.
func (m *Model) start(versionID string, p pending) tea.Cmd {
	m.retry[versionID] = p
	m.inflight[versionID]++
	return runTask(m.ctx, versionID, p.newTask(), p.follow)
}
