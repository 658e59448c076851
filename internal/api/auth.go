package api

import (
	"context"
	"net/http"
)

func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthData, error) {
	var resp AuthResponse
	req := SignInRequest{Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", req, false, &resp); err != nil {
		return nil, err
	}
	c.SetToken(resp.Data.Token)
	return &resp.Data, nil
}

func (c *Client) SignUp(ctx context.Context, name, email, password string) (*AuthData, error) {
	var resp AuthResponse
	req := SignUpRequest{Name: name, Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/signup", req, false, &resp); err != nil {
		return nil, err
	}
	c.SetToken(resp.Data.Token)
	return &resp.Data, nil
}
