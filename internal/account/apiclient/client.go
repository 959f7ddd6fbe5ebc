// Package apiclient talks to the account backend over HTTP.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"comic-service/internal/account"
)

const maxErrorBody = 64 << 10

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the backend at baseURL. A nil httpClient gets a
// 10s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// FindUserByEmail returns nil, nil when the backend has no such user.
func (c *Client) FindUserByEmail(ctx context.Context, email string) (*account.Profile, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/users/email/"+url.PathEscape(email), "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var body account.UserResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("decode user response: %w", err)
		}
		return body.UserData, nil
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, decodeError(resp)
	}
}

func (c *Client) LoginUser(ctx context.Context, email, password string) (*account.AuthData, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/auth/login", "", account.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var data account.AuthData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	return &data, nil
}

func (c *Client) RegisterUser(ctx context.Context, req account.RegisterRequest) error {
	resp, err := c.do(ctx, http.MethodPost, "/api/auth/register", "", req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return decodeError(resp)
	}
	return nil
}

func (c *Client) UpdatePassword(ctx context.Context, req account.UpdatePasswordRequest) error {
	resp, err := c.do(ctx, http.MethodPut, "/api/auth/password", "", req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return decodeError(resp)
	}
	return nil
}

// Profile fetches the signed-in user's profile.
func (c *Client) Profile(ctx context.Context, token string) (*account.Profile, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/profile", token, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var body account.UserResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode profile response: %w", err)
	}
	return body.UserData, nil
}

// Logout revokes token on the backend.
func (c *Client) Logout(ctx context.Context, token string) error {
	resp, err := c.do(ctx, http.MethodPost, "/api/auth/logout", token, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return decodeError(resp)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.http.Do(req)
}

// decodeError turns a non-success response into an *account.APIError,
// keeping the backend's message when it sent one.
func decodeError(resp *http.Response) error {
	apiErr := &account.APIError{Status: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return apiErr
	}

	var body account.APIError
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		apiErr.Message = body.Message
	}
	return apiErr
}
