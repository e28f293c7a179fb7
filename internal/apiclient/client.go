// Package apiclient is the thin HTTP client the CLI uses to talk to the
// attendance server.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hasanbasri/attendance-management/internal/auth"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User   *auth.Snapshot  `json:"user"`
	Tokens auth.AuthTokens `json:"tokens"`
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

// Login exchanges credentials for a snapshot and token pair.
func (c *Client) Login(ctx context.Context, username, password string) (*auth.Snapshot, auth.AuthTokens, error) {
	body, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return nil, auth.AuthTokens{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/auth/login", bytes.NewBuffer(body))
	if err != nil {
		return nil, auth.AuthTokens{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, auth.AuthTokens{}, auth.ErrUpstreamUnavailable
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, auth.AuthTokens{}, auth.ErrInvalidCredentials
	case http.StatusServiceUnavailable:
		return nil, auth.AuthTokens{}, auth.ErrUpstreamUnavailable
	default:
		return nil, auth.AuthTokens{}, c.readError(resp)
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, auth.AuthTokens{}, fmt.Errorf("decoding login response: %w", err)
	}
	return lr.User, lr.Tokens, nil
}

// RefreshPermissions re-reads the authoritative snapshot for the session
// behind the access token.
func (c *Client) RefreshPermissions(ctx context.Context, accessToken string) (*auth.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/auth/permissions", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, auth.ErrUpstreamUnavailable
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, auth.ErrSessionInvalidated
	case http.StatusServiceUnavailable:
		return nil, auth.ErrUpstreamUnavailable
	default:
		return nil, c.readError(resp)
	}

	var snap auth.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding permissions response: %w", err)
	}
	return &snap, nil
}

// Logout tells the server the session is over. Failures are advisory: the
// local session is cleared either way.
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/auth/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return auth.ErrUpstreamUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return c.readError(resp)
	}
	return nil
}

func (c *Client) readError(resp *http.Response) error {
	var eb errorBody
	if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil {
		if eb.Error.Message != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, eb.Error.Message)
		}
		if eb.Message != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, eb.Message)
		}
	}
	return fmt.Errorf("server error (%d)", resp.StatusCode)
}
