// Package tui renders the journal over the authenticated workspace:
// grouped entry list, markdown detail pane, and modals for writing,
// renaming, and deleting. It is a thin event loop; the state machine
// lives in the workspace and session packages.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"journal-cli/internal/logging"
	"journal-cli/internal/session"
	"journal-cli/internal/workspace"
)

// Run mounts the protected journal view. It gates on the session guard
// before showing anything and reports whether the session ended while the
// view was up, so the caller can print the sign-in hint.
func Run(ws *workspace.Workspace, guard *session.Guard, log logging.Logger, userEmail string) (sessionEnded bool, err error) {
	applyColorProfilePreference()

	if !guard.Check(context.Background()) {
		return true, nil
	}

	m := newAppModel(ws, guard, log, userEmail)
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	if fm, ok := final.(appModel); ok {
		return fm.sessionEnded, nil
	}
	return false, nil
}
