package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"journal-cli/internal/model"
)

// entryItem is a selectable journal entry row.
type entryItem struct {
	entry model.JournalEntry
}

func (i entryItem) FilterValue() string { return i.entry.Title + " " + i.entry.Content }
func (i entryItem) Title() string       { return i.entry.Title }
func (i entryItem) Description() string { return i.entry.ID }

// headerItem is a non-selectable time-bucket section header.
type headerItem struct {
	bucket model.Bucket
}

func (i headerItem) FilterValue() string { return "" }
func (i headerItem) Title() string       { return i.bucket.String() }
func (i headerItem) Description() string { return "" }

// entryDelegate renders one row per item: bucket headers muted, entries
// with a timestamp column, the selected entry highlighted.
type entryDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	header   lipgloss.Style
}

func newEntryDelegate() entryDelegate {
	return entryDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
		header: lipgloss.NewStyle().Foreground(colorHeaderFg).Bold(true),
	}
}

func (d entryDelegate) Height() int                             { return 1 }
func (d entryDelegate) Spacing() int                            { return 0 }
func (d entryDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d entryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		fmt.Fprint(w, "")
		return
	}

	var line string
	style := d.normal

	switch it := item.(type) {
	case headerItem:
		line = it.Title()
		style = d.header
	case entryItem:
		ts := formatEntryTime(it.entry.CreatedAt)
		title := it.entry.Title
		if strings.TrimSpace(title) == "" {
			title = "(untitled)"
		}
		line = "  " + title
		// Right-align the timestamp when there is room.
		lineW := xansi.StringWidth(line)
		tsW := xansi.StringWidth(ts)
		if lineW+tsW+2 <= contentW {
			line += strings.Repeat(" ", contentW-lineW-tsW) + ts
		}
		if index == m.Index() {
			style = d.selected
		}
	default:
		line = fmt.Sprint(item)
	}

	lineW := xansi.StringWidth(line)
	if lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Cut(line, 0, contentW)
	}
	fmt.Fprint(w, style.Render(line))
}

// formatEntryTime renders "Jan 5 14:30" (24h).
func formatEntryTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("Jan 2 15:04")
}

func newEntryList() list.Model {
	l := list.New([]list.Item{}, newEntryDelegate(), 0, 0)
	// We render our own header + footer, so keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("entry", "entries")
	// The bubbles list quits on ESC by default; here ESC means cancel.
	l.KeyMap.Quit.SetKeys("q")
	return l
}

func selectEntryInList(l *list.Model, id string) {
	for i, item := range l.Items() {
		if it, ok := item.(entryItem); ok && it.entry.ID == id {
			l.Select(i)
			return
		}
	}
}
