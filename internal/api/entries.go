package api

import (
	"context"
	"net/http"

	"journal-cli/internal/model"
)

// EntryWrite is the request body for entry create/update calls. The
// backend expects all three fields on both POST and PUT.
type EntryWrite struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// ListEntries fetches the user's full entry collection.
func (c *Client) ListEntries(ctx context.Context) ([]model.JournalEntry, error) {
	var out []model.JournalEntry
	if err := c.doJSON(ctx, http.MethodGet, "/api/usertext", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateEntry creates a new entry and returns the server's representation
// (id and createdAt are server-assigned).
func (c *Client) CreateEntry(ctx context.Context, w EntryWrite) (*model.JournalEntry, error) {
	var out model.JournalEntry
	if err := c.doJSON(ctx, http.MethodPost, "/api/usertext", w, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateEntry replaces title, content, and tags of an existing entry and
// returns the server's updated representation.
func (c *Client) UpdateEntry(ctx context.Context, id string, w EntryWrite) (*model.JournalEntry, error) {
	var out model.JournalEntry
	if err := c.doJSON(ctx, http.MethodPut, "/api/usertext/"+id, w, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteEntry removes an entry by id.
func (c *Client) DeleteEntry(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/usertext/"+id, nil, nil)
}
