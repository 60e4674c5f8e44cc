package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

func (m appModel) View() string {
	if !m.seenWindowSize {
		return "loading..."
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	bodyH := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyH < 4 {
		bodyH = 4
	}

	var body string
	switch m.modal {
	case modalWrite:
		body = m.renderTextModal("New entry", "ctrl+s: save   esc: cancel")
	case modalEditContent:
		body = m.renderTextModal("Edit entry", "ctrl+s: save   esc: cancel")
	case modalRetitle:
		body = m.renderRetitleModal()
	case modalConfirmDelete:
		body = m.renderDeleteModal()
	default:
		body = m.renderBrowse(bodyH)
	}

	body = normalizePane(body, m.width, bodyH)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m appModel) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Render("Journal")
	who := styleMuted().Render(m.userEmail)
	gap := m.width - xansi.StringWidth("Journal") - xansi.StringWidth(m.userEmail) - 2
	if gap < 1 {
		gap = 1
	}
	line := " " + title + strings.Repeat(" ", gap) + who
	return line + "\n" + styleMuted().Render(strings.Repeat("─", max(m.width, 1)))
}

func (m appModel) renderFooter() string {
	if m.errText != "" {
		return " " + styleError().Render(m.errText)
	}
	help := "n: new   e: edit   t: title   d: delete   r: reload   /: filter   q: quit"
	if m.loading {
		help = "loading entries..."
	} else if m.statusText != "" {
		help = m.statusText + "   " + help
	}
	return " " + styleMuted().Render(help)
}

func (m appModel) renderBrowse(bodyH int) string {
	listW := m.width / 2
	if listW < 40 {
		listW = 40
	}
	detailW := m.width - listW - 3
	if detailW < 20 {
		// Too narrow for a split; the list gets everything.
		return m.entriesList.View()
	}

	left := normalizePane(m.entriesList.View(), listW, bodyH)
	divider := styleMuted().Render(strings.TrimRight(strings.Repeat("│\n", bodyH), "\n"))
	right := normalizePane(m.renderDetail(detailW), detailW, bodyH)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", divider, " ", right)
}

func (m appModel) renderDetail(width int) string {
	e, ok := m.ws.Selected()
	if !ok {
		return styleMuted().Render("Select an entry to read it.\nPress n to write a new one.")
	}

	title := lipgloss.NewStyle().Bold(true).Width(width).Render(e.Title)
	meta := styleMuted().Render(formatEntryTime(e.CreatedAt))
	content := renderMarkdown(e.Content, width)
	return lipgloss.JoinVertical(lipgloss.Left, title, meta, "", content)
}

func (m appModel) renderTextModal(title, help string) string {
	content := m.textarea.View() + "\n\n" + styleMuted().Render(help)
	return renderModalBox(m.width, title, content)
}

func (m appModel) renderRetitleModal() string {
	content := m.input.View() + "\n\n" + styleMuted().Render("enter: save   esc: cancel")
	return renderModalBox(m.width, "Rename entry", content)
}

func (m appModel) renderDeleteModal() string {
	// The delete targets the list-cursor entry, which need not be the
	// workspace selection; resolve the title from the target id.
	title := ""
	for _, e := range m.ws.Entries() {
		if e.ID == m.deleteTargetID {
			title = e.Title
			break
		}
	}
	body := "Delete \"" + title + "\"?\nThis cannot be undone."
	return renderConfirmModal(m.width, "Delete entry", body, "Delete", "Cancel", m.confirmFocus)
}

// normalizePane pads or truncates a block of text to exactly width x
// height so horizontal joins line up.
func normalizePane(s string, width, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, line := range lines {
		w := xansi.StringWidth(line)
		if w < width {
			lines[i] = line + strings.Repeat(" ", width-w)
		} else if w > width {
			lines[i] = xansi.Cut(line, 0, width)
		}
	}
	return strings.Join(lines, "\n")
}
