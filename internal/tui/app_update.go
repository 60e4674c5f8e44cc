package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"journal-cli/internal/api"
	"journal-cli/internal/config"
	"journal-cli/internal/workspace"
)

type entriesLoadedMsg struct{ err error }

type writeSavedMsg struct{ err error }

type retitleDoneMsg struct{ err error }

type deleteDoneMsg struct{ err error }

type sessionTickMsg struct{}

func (m appModel) loadEntriesCmd() tea.Cmd {
	ws := m.ws
	return func() tea.Msg {
		return entriesLoadedMsg{err: ws.Load(context.Background())}
	}
}

func (m appModel) submitWriteCmd(text string) tea.Cmd {
	ws := m.ws
	return func() tea.Msg {
		return writeSavedMsg{err: ws.SubmitWrite(context.Background(), text)}
	}
}

func (m appModel) renameTitleCmd(id, title string) tea.Cmd {
	ws := m.ws
	return func() tea.Msg {
		return retitleDoneMsg{err: ws.RenameTitle(context.Background(), id, title)}
	}
}

func (m appModel) deleteEntryCmd(id string) tea.Cmd {
	ws := m.ws
	return func() tea.Msg {
		return deleteDoneMsg{err: ws.Delete(context.Background(), id)}
	}
}

func sessionTickCmd() tea.Cmd {
	return tea.Tick(config.SessionCheckInterval, func(time.Time) tea.Msg {
		return sessionTickMsg{}
	})
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.loadEntriesCmd(), sessionTickCmd())
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.seenWindowSize = true
		m.resize()
		return m, nil

	case sessionTickMsg:
		if !m.guard.Check(context.Background()) {
			m.sessionEnded = true
			return m, tea.Quit
		}
		return m, sessionTickCmd()

	case entriesLoadedMsg:
		m.loading = false
		if quit := m.applyOpError(msg.err); quit != nil {
			return m, quit
		}
		if msg.err == nil {
			m.refreshEntries()
		}
		return m, nil

	case writeSavedMsg:
		if quit := m.applyOpError(msg.err); quit != nil {
			return m, quit
		}
		if msg.err != nil {
			// Keep the modal; the draft survives for a retry.
			return m, nil
		}
		m.modal = modalNone
		m.textarea.Reset()
		m.textarea.Blur()
		m.statusText = "saved"
		m.refreshEntries()
		return m, nil

	case retitleDoneMsg:
		if quit := m.applyOpError(msg.err); quit != nil {
			return m, quit
		}
		if msg.err != nil {
			return m, nil
		}
		m.modal = modalNone
		m.input.Reset()
		m.input.Blur()
		m.statusText = "title updated"
		m.refreshEntries()
		return m, nil

	case deleteDoneMsg:
		m.modal = modalNone
		m.deleteTargetID = ""
		if quit := m.applyOpError(msg.err); quit != nil {
			return m, quit
		}
		if msg.err == nil {
			m.statusText = "entry deleted"
			m.refreshEntries()
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal != modalNone {
		return m.updateModalKey(msg)
	}

	// While the list filter input is live, keys belong to it.
	if m.entriesList.SettingFilter() {
		var cmd tea.Cmd
		m.entriesList, cmd = m.entriesList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "enter":
		if it, ok := m.entriesList.SelectedItem().(entryItem); ok {
			m.ws.Select(it.entry.ID)
			m.errText = ""
		}
		return m, nil

	case "n":
		m.ws.BeginWrite()
		m.openTextModal(modalWrite, "")
		return m, nil

	case "e":
		it, ok := m.entriesList.SelectedItem().(entryItem)
		if !ok {
			return m, nil
		}
		if err := m.ws.BeginEdit(it.entry.ID); err != nil {
			m.errText = err.Error()
			return m, nil
		}
		m.openTextModal(modalEditContent, m.ws.Draft())
		return m, nil

	case "t":
		it, ok := m.entriesList.SelectedItem().(entryItem)
		if !ok {
			return m, nil
		}
		if err := m.ws.BeginRetitle(it.entry.ID); err != nil {
			m.errText = err.Error()
			return m, nil
		}
		m.modal = modalRetitle
		m.errText = ""
		m.input.SetValue(m.ws.Draft())
		m.input.CursorEnd()
		m.input.Focus()
		return m, nil

	case "d":
		it, ok := m.entriesList.SelectedItem().(entryItem)
		if !ok {
			return m, nil
		}
		m.modal = modalConfirmDelete
		m.errText = ""
		m.deleteTargetID = it.entry.ID
		m.confirmFocus = confirmFocusCancel
		return m, nil

	case "r":
		m.loading = true
		m.errText = ""
		return m, m.loadEntriesCmd()
	}

	var cmd tea.Cmd
	m.entriesList, cmd = m.entriesList.Update(msg)
	if _, ok := m.entriesList.SelectedItem().(headerItem); ok {
		m.skipHeader(msg.String())
	}
	return m, cmd
}

// skipHeader nudges the cursor off a section header in the direction of
// travel so headers never stay selected.
func (m *appModel) skipHeader(key string) {
	items := m.entriesList.Items()
	idx := m.entriesList.Index()
	step := 1
	if key == "up" || key == "k" {
		step = -1
	}
	for idx >= 0 && idx < len(items) {
		if _, isHeader := items[idx].(headerItem); !isHeader {
			m.entriesList.Select(idx)
			return
		}
		idx += step
	}
}

func (m *appModel) openTextModal(kind modalKind, seed string) {
	m.modal = kind
	m.errText = ""
	m.textarea.SetValue(seed)
	m.textarea.CursorEnd()
	m.textarea.Focus()
}

func (m appModel) updateModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalWrite, modalEditContent:
		switch msg.String() {
		case "esc":
			m.ws.Cancel()
			m.modal = modalNone
			m.errText = ""
			m.textarea.Reset()
			m.textarea.Blur()
			return m, nil
		case "ctrl+s":
			text := m.textarea.Value()
			return m, m.submitWriteCmd(text)
		}
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd

	case modalRetitle:
		switch msg.String() {
		case "esc":
			m.ws.Cancel()
			m.modal = modalNone
			m.errText = ""
			m.input.Reset()
			m.input.Blur()
			return m, nil
		case "enter":
			id := m.ws.SelectedID()
			if id == "" {
				m.modal = modalNone
				return m, nil
			}
			return m, m.renameTitleCmd(id, m.input.Value())
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case modalConfirmDelete:
		switch msg.String() {
		case "esc", "n":
			m.modal = modalNone
			m.deleteTargetID = ""
			return m, nil
		case "tab", "left", "right":
			if m.confirmFocus == confirmFocusConfirm {
				m.confirmFocus = confirmFocusCancel
			} else {
				m.confirmFocus = confirmFocusConfirm
			}
			return m, nil
		case "y":
			return m, m.deleteEntryCmd(m.deleteTargetID)
		case "enter":
			if m.confirmFocus == confirmFocusConfirm {
				return m, m.deleteEntryCmd(m.deleteTargetID)
			}
			m.modal = modalNone
			m.deleteTargetID = ""
			return m, nil
		}
		return m, nil
	}

	return m, nil
}

// applyOpError maps an operation error to UI state. Session failures quit
// the program (the runner prints the login hint); anything else becomes
// the status-line error.
func (m *appModel) applyOpError(err error) tea.Cmd {
	if err == nil {
		m.errText = ""
		return nil
	}
	if errors.Is(err, api.ErrSessionExpired) || errors.Is(err, api.ErrUnauthorized) {
		m.sessionEnded = true
		return tea.Quit
	}

	var verr *api.ValidationError
	var nerr *api.NetworkError
	switch {
	case errors.As(err, &verr):
		m.errText = verr.Message
	case errors.As(err, &nerr):
		m.errText = "network error: is the server running?"
	case errors.Is(err, workspace.ErrNoSuchEntry):
		m.errText = "that entry is gone; press r to reload"
	default:
		m.errText = fmt.Sprintf("error: %v", err)
	}
	return nil
}
