package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// apiClient is a thin wrapper over the server's HTTP endpoints.
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type apiError struct {
	Status int
	Msg    string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Msg)
}

func (c *apiClient) do(ctx context.Context, method, path, token string, body, out any) error {

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &apiError{Status: resp.StatusCode, Msg: e.Error}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Register creates a new account and returns its id.
func (c *apiClient) Register(ctx context.Context, email, name, password string) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/accounts", "",
		map[string]string{"email": email, "name": name, "password": password}, &resp)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

// Login exchanges credentials for a bearer token.
func (c *apiClient) Login(ctx context.Context, email, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/sessions", "",
		map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Whoami returns the identity bound to the given token.
func (c *apiClient) Whoami(ctx context.Context, token string) (string, string, error) {
	var resp struct {
		AccountID string `json:"account_id"`
		Email     string `json:"email"`
	}
	err := c.do(ctx, http.MethodGet, "/api/v1/accounts/me", token, nil, &resp)
	if err != nil {
		return "", "", err
	}
	return resp.AccountID, resp.Email, nil
}
