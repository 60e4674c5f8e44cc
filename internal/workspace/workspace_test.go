package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"journal-cli/internal/api"
	"journal-cli/internal/logging"
	"journal-cli/internal/model"
	"journal-cli/internal/session"
	"journal-cli/internal/suggest"
)

// fakeBackend is an in-memory stand-in for the entry endpoints. The list
// response uses Mongo-style "_id" like the real backend; single-entry
// responses use "id".
type fakeBackend struct {
	mu      sync.Mutex
	nextID  int
	entries []map[string]any
	lists   int
	failAll bool
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/usertext", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failAll {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"message": "boom"})
			return
		}
		switch r.Method {
		case http.MethodGet:
			f.lists++
			out := make([]map[string]any, 0, len(f.entries))
			for _, e := range f.entries {
				row := map[string]any{}
				for k, v := range e {
					row[k] = v
				}
				row["_id"] = row["id"]
				delete(row, "id")
				out = append(out, row)
			}
			json.NewEncoder(w).Encode(out)
		case http.MethodPost:
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			f.nextID++
			body["id"] = fmt.Sprintf("entry-%d", f.nextID)
			body["createdAt"] = time.Now().UTC().Format(time.RFC3339)
			f.entries = append(f.entries, body)
			json.NewEncoder(w).Encode(body)
		}
	})
	mux.HandleFunc("/api/usertext/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		id := strings.TrimPrefix(r.URL.Path, "/api/usertext/")
		switch r.Method {
		case http.MethodPut:
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			for _, e := range f.entries {
				if e["id"] == id {
					e["title"] = body["title"]
					e["content"] = body["content"]
					e["tags"] = body["tags"]
					json.NewEncoder(w).Encode(e)
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"message": "Text not found"})
		case http.MethodDelete:
			for i, e := range f.entries {
				if e["id"] == id {
					f.entries = append(f.entries[:i], f.entries[i+1:]...)
					break
				}
			}
			// Deleting an absent entry succeeds; the operation is idempotent.
			json.NewEncoder(w).Encode(map[string]string{"message": "deleted"})
		}
	})
	return mux
}

func (f *fakeBackend) seed(id, title, content string, at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, map[string]any{
		"id":        id,
		"title":     title,
		"content":   content,
		"tags":      []string{"journal"},
		"createdAt": at.UTC().Format(time.RFC3339),
	})
}

func (f *fakeBackend) listCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists
}

func newTestWorkspace(t *testing.T, backend *fakeBackend, suggester suggest.TitleSuggester) *Workspace {
	t.Helper()
	ctx := context.Background()

	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	store, err := session.OpenTokenStore(ctx, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	manager, err := session.NewManager(ctx, store)
	require.NoError(t, err)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "pat@example.com",
		"exp":   jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	cred, err := session.ParseCredential(signed)
	require.NoError(t, err)
	require.NoError(t, manager.Set(ctx, cred))

	guard := session.NewGuard(manager, nil, nil)
	client := api.NewClient(srv.URL, manager, guard, logging.NewDiscard())
	return New(client, suggester, logging.NewDiscard(), time.Sunday)
}

func TestLoadReplacesCollection(t *testing.T) {
	backend := &fakeBackend{}
	backend.seed("a", "First", "one", time.Now())
	backend.seed("b", "Second", "two", time.Now())

	ws := newTestWorkspace(t, backend, nil)
	require.NoError(t, ws.Load(context.Background()))
	require.Len(t, ws.Entries(), 2)
	require.Equal(t, "a", ws.Entries()[0].ID, "mongo-style _id must decode")

	ws.Select("a")
	backend.mu.Lock()
	backend.entries = backend.entries[1:] // "a" is gone server-side
	backend.mu.Unlock()

	require.NoError(t, ws.Load(context.Background()))
	require.Len(t, ws.Entries(), 1)
	require.Equal(t, "", ws.SelectedID(), "dangling selection must be dropped")
}

func TestLoadFailureKeepsCollection(t *testing.T) {
	backend := &fakeBackend{}
	backend.seed("a", "First", "one", time.Now())

	ws := newTestWorkspace(t, backend, nil)
	require.NoError(t, ws.Load(context.Background()))

	backend.mu.Lock()
	backend.failAll = true
	backend.mu.Unlock()

	err := ws.Load(context.Background())
	var verr *api.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, ws.Entries(), 1, "failed reload must not clobber local entries")
}

func TestSubmitWriteFallbackTitle(t *testing.T) {
	backend := &fakeBackend{}
	ws := newTestWorkspace(t, backend, nil)
	require.NoError(t, ws.Load(context.Background()))

	ws.BeginWrite()
	require.Equal(t, ModeWriting, ws.Mode())
	require.NoError(t, ws.SubmitWrite(context.Background(), "a quiet day"))

	require.Equal(t, ModeBrowsing, ws.Mode())
	entries := ws.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, suggest.FallbackTitle, entries[0].Title)
	require.Equal(t, model.DefaultTags(), entries[0].Tags)
}

type stubSuggester struct{ title string }

func (s stubSuggester) Suggest(context.Context, string) (string, error) { return s.title, nil }

func TestSubmitWriteUsesSuggestedTitle(t *testing.T) {
	backend := &fakeBackend{}
	ws := newTestWorkspace(t, backend, stubSuggester{title: `"A Quiet Day"`})
	require.NoError(t, ws.Load(context.Background()))

	ws.BeginWrite()
	require.NoError(t, ws.SubmitWrite(context.Background(), "a quiet day"))
	require.Equal(t, "A Quiet Day", ws.Entries()[0].Title, "surrounding quotes are stripped")
}

func TestSubmitWriteFailureKeepsDraft(t *testing.T) {
	backend := &fakeBackend{}
	ws := newTestWorkspace(t, backend, nil)
	require.NoError(t, ws.Load(context.Background()))

	backend.mu.Lock()
	backend.failAll = true
	backend.mu.Unlock()

	ws.BeginWrite()
	err := ws.SubmitWrite(context.Background(), "do not lose me")
	require.Error(t, err)
	require.Equal(t, ModeWriting, ws.Mode(), "mode survives a failed submit")
	require.Equal(t, "do not lose me", ws.Draft(), "draft survives a failed submit")
}

func TestEditContentPreservesTitleAndTags(t *testing.T) {
	backend := &fakeBackend{}
	backend.seed("a", "Keep Me", "old content", time.Now())

	ws := newTestWorkspace(t, backend, nil)
	require.NoError(t, ws.Load(context.Background()))

	require.NoError(t, ws.BeginEdit("a"))
	require.Equal(t, ModeEditingContent, ws.Mode())
	require.Equal(t, "old content", ws.Draft(), "edit draft seeds from current content")

	require.NoError(t, ws.SubmitWrite(context.Background(), "new content"))
	e := ws.Entries()[0]
	require.Equal(t, "Keep Me", e.Title)
	require.Equal(t, "new content", e.Content)
	require.Equal(t, []string{"journal"}, e.Tags)
}

func TestRenameTitleMergesWithoutReload(t *testing.T) {
	backend := &fakeBackend{}
	created := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	backend.seed("a", "Old Title", "content stays", created)

	ws := newTestWorkspace(t, backend, nil)
	require.NoError(t, ws.Load(context.Background()))
	require.NoError(t, ws.BeginRetitle("a"))
	require.Equal(t, "Old Title", ws.Draft())

	before := backend.listCalls()
	require.NoError(t, ws.RenameTitle(context.Background(), "a", "New Title"))
	require.Equal(t, before, backend.listCalls(), "rename must not trigger a reload")

	require.Equal(t, ModeBrowsing, ws.Mode())
	e := ws.Entries()[0]
	require.Equal(t, "New Title", e.Title)
	require.Equal(t, "content stays", e.Content)
	require.True(t, e.CreatedAt.Equal(created))
}

func TestRenameTitleFailureKeepsSubstate(t *testing.T) {
	backend := &fakeBackend{}
	backend.seed("a", "Old Title", "content", time.Now())

	ws := newTestWorkspace(t, backend, nil)
	require.NoError(t, ws.Load(context.Background()))
	require.NoError(t, ws.BeginRetitle("a"))

	// The entry vanishes server-side, so the PUT is rejected.
	backend.mu.Lock()
	backend.entries = nil
	backend.mu.Unlock()

	err := ws.RenameTitle(context.Background(), "a", "New Title")
	var verr *api.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, ModeEditingTitle, ws.Mode(), "failed rename keeps the title substate")
	require.Equal(t, "Old Title", ws.Entries()[0].Title, "local title untouched on failure")
}

// Sequential writes to the same entry have no version checks: the local
// entry reflects whichever server response was applied last.
func TestSequentialWritesLastResponseWins(t *testing.T) {
	backend := &fakeBackend{}
	backend.seed("a", "Old Title", "old content", time.Now())

	ws := newTestWorkspace(t, backend, nil)
	require.NoError(t, ws.Load(context.Background()))

	// Rename first, then edit the content.
	require.NoError(t, ws.BeginRetitle("a"))
	require.NoError(t, ws.RenameTitle(context.Background(), "a", "New Title"))
	require.NoError(t, ws.BeginEdit("a"))
	require.Equal(t, "old content", ws.Draft(), "edit seeds the pre-rename content")
	require.NoError(t, ws.SubmitWrite(context.Background(), "new content"))

	e := ws.Entries()[0]
	require.Equal(t, "New Title", e.Title)
	require.Equal(t, "new content", e.Content)

	// And the reverse order: edit, then rename.
	require.NoError(t, ws.BeginEdit("a"))
	require.NoError(t, ws.SubmitWrite(context.Background(), "newer content"))
	require.NoError(t, ws.BeginRetitle("a"))
	require.NoError(t, ws.RenameTitle(context.Background(), "a", "Newer Title"))

	e = ws.Entries()[0]
	require.Equal(t, "Newer Title", e.Title)
	require.Equal(t, "newer content", e.Content)
}

func TestRenameUnknownEntry(t *testing.T) {
	backend := &fakeBackend{}
	ws := newTestWorkspace(t, backend, nil)
	require.NoError(t, ws.Load(context.Background()))
	require.ErrorIs(t, ws.RenameTitle(context.Background(), "ghost", "x"), ErrNoSuchEntry)
}

func TestDeleteClearsMatchingSelection(t *testing.T) {
	backend := &fakeBackend{}
	backend.seed("a", "A", "one", time.Now())
	backend.seed("b", "B", "two", time.Now())

	ws := newTestWorkspace(t, backend, nil)
	require.NoError(t, ws.Load(context.Background()))

	ws.Select("b")
	require.NoError(t, ws.Delete(context.Background(), "a"))
	require.Equal(t, "b", ws.SelectedID(), "deleting another entry keeps the selection")

	require.NoError(t, ws.Delete(context.Background(), "b"))
	require.Equal(t, "", ws.SelectedID())
	require.Empty(t, ws.Entries())
}

func TestDeleteIsIdempotent(t *testing.T) {
	backend := &fakeBackend{}
	backend.seed("a", "A", "one", time.Now())

	ws := newTestWorkspace(t, backend, nil)
	require.NoError(t, ws.Load(context.Background()))

	require.NoError(t, ws.Delete(context.Background(), "a"))
	require.NoError(t, ws.Delete(context.Background(), "a"), "double delete is a no-op")
}

func TestBeginWriteClearsSelection(t *testing.T) {
	backend := &fakeBackend{}
	backend.seed("a", "A", "one", time.Now())

	ws := newTestWorkspace(t, backend, nil)
	require.NoError(t, ws.Load(context.Background()))
	ws.Select("a")

	ws.BeginWrite()
	require.Equal(t, ModeWriting, ws.Mode())
	require.Equal(t, "", ws.SelectedID())

	ws.Cancel()
	require.Equal(t, ModeBrowsing, ws.Mode())
}
