package gateway

import (
	"context"
	"net/http"
	"strings"

	"logs-dashboard/internal/dto"
)

// Login exchanges credentials and a one-time code for a token.
func (c *Client) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	var resp dto.LoginResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account. The response carries the OTP enrollment URL.
func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	var resp dto.RegisterResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Refresh(ctx context.Context) (*dto.LoginResponse, error) {
	var resp dto.LoginResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL, "/auth/refresh", struct{}{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ValidateToken asks the auth service whether the stored token is still live.
func (c *Client) ValidateToken(ctx context.Context) (*dto.LoginResponse, error) {
	token := c.token()
	if token == "" {
		return nil, ErrNotSignedIn
	}
	var resp dto.LoginResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL, "/auth/validate_token", dto.TokenRequest{Token: token}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout revokes token remotely. An empty token is a no-op.
func (c *Client) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return c.do(ctx, http.MethodPost, c.baseURL, "/auth/logout", dto.TokenRequest{Token: token}, nil)
}
