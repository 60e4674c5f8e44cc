package api

import (
	"context"
	"net/http"

	"journal-cli/internal/model"
)

// GetProfile fetches the authenticated user's profile.
func (c *Client) GetProfile(ctx context.Context) (*model.Profile, error) {
	var out model.Profile
	if err := c.doJSON(ctx, http.MethodGet, "/api/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile replaces the profile wholesale, mirroring the web client.
func (c *Client) UpdateProfile(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	var out model.Profile
	if err := c.doJSON(ctx, http.MethodPut, "/api/profile", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type preferencesRequest struct {
	Preferences model.Preferences `json:"preferences"`
}

// UpdatePreferences updates only the preferences block of the profile.
func (c *Client) UpdatePreferences(ctx context.Context, prefs model.Preferences) error {
	return c.doJSON(ctx, http.MethodPut, "/api/profile/preferences",
		preferencesRequest{Preferences: prefs}, nil)
}
