package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"

	"journal-cli/internal/logging"
	"journal-cli/internal/session"
	"journal-cli/internal/workspace"
)

type appModel struct {
	ws    *workspace.Workspace
	guard *session.Guard
	log   logging.Logger

	userEmail string

	width  int
	height int
	// The very first WindowSizeMsg is initial sizing, not a user resize.
	seenWindowSize bool

	entriesList list.Model

	modal          modalKind
	textarea       textarea.Model
	input          textinput.Model
	confirmFocus   confirmModalFocus
	deleteTargetID string

	loading    bool
	statusText string
	errText    string

	// sessionEnded is set when the guard or a 401 ends the session; the
	// program quits and the runner prints the login hint.
	sessionEnded bool

	// now is a seam so grouping is deterministic in tests.
	now func() time.Time
}

func newAppModel(ws *workspace.Workspace, guard *session.Guard, log logging.Logger, userEmail string) appModel {
	ta := textarea.New()
	ta.Placeholder = "What's on your mind today?"
	ta.CharLimit = 0

	in := textinput.New()
	in.CharLimit = 0

	m := appModel{
		ws:          ws,
		guard:       guard,
		log:         log,
		userEmail:   userEmail,
		entriesList: newEntryList(),
		textarea:    ta,
		input:       in,
		loading:     true,
		now:         time.Now,
	}
	m.refreshEntries()
	return m
}

// refreshEntries rebuilds the list from the workspace's grouped snapshot,
// keeping the current selection where possible.
func (m *appModel) refreshEntries() {
	curID := ""
	if it, ok := m.entriesList.SelectedItem().(entryItem); ok {
		curID = it.entry.ID
	}
	if sel := m.ws.SelectedID(); sel != "" {
		curID = sel
	}

	var items []list.Item
	for _, g := range m.ws.Groups(m.now()) {
		items = append(items, headerItem{bucket: g.Bucket})
		for _, e := range g.Entries {
			items = append(items, entryItem{entry: e})
		}
	}
	m.entriesList.SetItems(items)
	if curID != "" {
		selectEntryInList(&m.entriesList, curID)
	}
}

func (m *appModel) resize() {
	h := m.height - 6
	if h < 8 {
		h = 8
	}
	w := m.width / 2
	if w < 40 {
		w = 40
	}
	m.entriesList.SetSize(w, h)
	m.textarea.SetWidth(modalBodyWidth(m.width) - 2)
	taH := m.height - 14
	if taH < 6 {
		taH = 6
	}
	if taH > 16 {
		taH = 16
	}
	m.textarea.SetHeight(taH)
	m.input.Width = modalBodyWidth(m.width) - 4
}
