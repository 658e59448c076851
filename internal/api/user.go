package api

import (
	"context"
	"net/http"

	"github.com/asafzaf/smartchat/internal/types"
)

func (c *Client) UpdatePreferences(ctx context.Context, prefs types.Preferences) (*types.User, error) {
	var resp struct {
		Data types.User `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodPut, "/api/user/preferences", prefs, true, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}
