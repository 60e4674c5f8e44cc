// Package workspace owns the authenticated view's entry collection and
// interaction state: loading, selection, write mode, the per-field edit
// substates, and time-bucketed grouping. All remote work goes through the
// authenticated API client; the TUI drives operations from commands and
// re-renders from snapshots.
package workspace

import (
	"context"
	"errors"
	"sync"
	"time"

	"journal-cli/internal/api"
	"journal-cli/internal/logging"
	"journal-cli/internal/model"
	"journal-cli/internal/suggest"
)

// Mode is the workspace interaction state. The cases are mutually
// exclusive by construction: writing a new entry clears the selection,
// and the two edit substates require one.
type Mode int

const (
	// ModeBrowsing: reading the list; an entry may be selected.
	ModeBrowsing Mode = iota
	// ModeWriting: composing a brand-new entry; no selection.
	ModeWriting
	// ModeEditingContent: rewriting the selected entry's content.
	ModeEditingContent
	// ModeEditingTitle: renaming the selected entry.
	ModeEditingTitle
)

var ErrNoSuchEntry = errors.New("no such entry")

// Workspace is the reactive store behind the journal view. Methods are
// safe to call from bubbletea command goroutines; state is guarded by a
// single mutex and reads hand out copies.
type Workspace struct {
	client    *api.Client
	suggester suggest.TitleSuggester
	log       logging.Logger
	weekStart time.Weekday

	mu         sync.Mutex
	entries    []model.JournalEntry
	selectedID string
	mode       Mode
	draft      string
}

func New(client *api.Client, suggester suggest.TitleSuggester, log logging.Logger, weekStart time.Weekday) *Workspace {
	return &Workspace{
		client:    client,
		suggester: suggester,
		log:       log,
		weekStart: weekStart,
	}
}

// Load fetches the full collection and replaces the in-memory one
// wholesale. A session-expired failure is returned as-is so callers can
// stop silently (the guard already redirected); any other failure leaves
// the collection untouched.
func (w *Workspace) Load(ctx context.Context) error {
	entries, err := w.client.ListEntries(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.entries = entries
	// Drop a selection that no longer resolves to an entry.
	if w.selectedID != "" {
		if _, ok := findEntry(entries, w.selectedID); !ok {
			w.selectedID = ""
		}
	}
	w.mu.Unlock()

	w.log.Debug(ctx, "entries loaded", "count", len(entries))
	return nil
}

// Entries returns a copy of the current collection.
func (w *Workspace) Entries() []model.JournalEntry {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]model.JournalEntry, len(w.entries))
	copy(out, w.entries)
	return out
}

// Groups projects the collection into time buckets relative to now.
func (w *Workspace) Groups(now time.Time) []model.EntryGroup {
	return GroupByTime(w.Entries(), now, w.weekStart)
}

// Mode returns the current interaction mode.
func (w *Workspace) Mode() Mode {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mode
}

// Selected returns the selected entry, if any.
func (w *Workspace) Selected() (model.JournalEntry, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.selectedID == "" {
		return model.JournalEntry{}, false
	}
	return findEntry(w.entries, w.selectedID)
}

// SelectedID returns the selected entry id, or "".
func (w *Workspace) SelectedID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selectedID
}

// Draft returns the seeded text for the active write/edit, so a failed
// submit never loses what the user typed.
func (w *Workspace) Draft() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// Select sets the selection and leaves write mode and both edit
// substates. Selecting an unknown id clears the selection.
func (w *Workspace) Select(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := findEntry(w.entries, id); ok {
		w.selectedID = id
	} else {
		w.selectedID = ""
	}
	w.mode = ModeBrowsing
	w.draft = ""
}

// BeginWrite enters new-entry mode. Writing new is mutually exclusive
// with having a selection.
func (w *Workspace) BeginWrite() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mode = ModeWriting
	w.selectedID = ""
	w.draft = ""
}

// BeginEdit enters the content-edit substate for the selected entry,
// seeding the draft with its current content.
func (w *Workspace) BeginEdit(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := findEntry(w.entries, id)
	if !ok {
		return ErrNoSuchEntry
	}
	w.selectedID = id
	w.mode = ModeEditingContent
	w.draft = e.Content
	return nil
}

// BeginRetitle enters the title-edit substate for the selected entry.
func (w *Workspace) BeginRetitle(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := findEntry(w.entries, id)
	if !ok {
		return ErrNoSuchEntry
	}
	w.selectedID = id
	w.mode = ModeEditingTitle
	w.draft = e.Title
	return nil
}

// Cancel leaves any write/edit state without touching the collection.
func (w *Workspace) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mode = ModeBrowsing
	w.draft = ""
}

// SubmitWrite commits the active write. For a new entry the title comes
// from the suggester (falling back to the default title; suggester
// failures never surface). For a content edit the original title and tags
// are preserved and only content is replaced. Success reloads the
// collection and exits write mode; failure keeps mode and draft so the
// typed text survives for a retry.
func (w *Workspace) SubmitWrite(ctx context.Context, text string) error {
	w.mu.Lock()
	mode := w.mode
	editID := w.selectedID
	w.draft = text
	w.mu.Unlock()

	switch mode {
	case ModeWriting:
		title := suggest.Title(ctx, w.suggester, text)
		if _, err := w.client.CreateEntry(ctx, api.EntryWrite{
			Title:   title,
			Content: text,
			Tags:    model.DefaultTags(),
		}); err != nil {
			return err
		}

	case ModeEditingContent:
		w.mu.Lock()
		orig, ok := findEntry(w.entries, editID)
		w.mu.Unlock()
		if !ok {
			return ErrNoSuchEntry
		}
		if _, err := w.client.UpdateEntry(ctx, editID, api.EntryWrite{
			Title:   orig.Title,
			Content: text,
			Tags:    orig.Tags,
		}); err != nil {
			return err
		}

	default:
		return errors.New("no write in progress")
	}

	w.mu.Lock()
	w.mode = ModeBrowsing
	w.draft = ""
	w.mu.Unlock()

	return w.Load(ctx)
}

// RenameTitle updates only the title of an entry, preserving content and
// tags, and merges the server's returned representation into the local
// collection by id -- no full reload. On failure the title substate is
// kept so the user can retry or cancel.
func (w *Workspace) RenameTitle(ctx context.Context, id, newTitle string) error {
	w.mu.Lock()
	orig, ok := findEntry(w.entries, id)
	w.mu.Unlock()
	if !ok {
		return ErrNoSuchEntry
	}

	updated, err := w.client.UpdateEntry(ctx, id, api.EntryWrite{
		Title:   newTitle,
		Content: orig.Content,
		Tags:    orig.Tags,
	})
	if err != nil {
		return err
	}

	merged := *updated
	// Some endpoints return a sparse representation; never lose identity
	// or the immutable creation time to a blank field.
	if merged.ID == "" {
		merged.ID = id
	}
	if merged.CreatedAt.IsZero() {
		merged.CreatedAt = orig.CreatedAt
	}

	w.mu.Lock()
	for i := range w.entries {
		if w.entries[i].ID == id {
			w.entries[i] = merged
			break
		}
	}
	if w.mode == ModeEditingTitle {
		w.mode = ModeBrowsing
		w.draft = ""
	}
	w.mu.Unlock()
	return nil
}

// Delete removes an entry. Confirmation is the caller's job (the TUI asks
// through its confirm modal, the CLI wants --yes). Success removes the
// entry from the local collection by id -- a no-op when it isn't there --
// and clears the selection only when it pointed at the removed entry.
// Failure leaves the collection unchanged.
func (w *Workspace) Delete(ctx context.Context, id string) error {
	if err := w.client.DeleteEntry(ctx, id); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.entries {
		if w.entries[i].ID == id {
			w.entries = append(w.entries[:i], w.entries[i+1:]...)
			break
		}
	}
	if w.selectedID == id {
		w.selectedID = ""
	}
	return nil
}

func findEntry(entries []model.JournalEntry, id string) (model.JournalEntry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return model.JournalEntry{}, false
}
