package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/koriwi/nutriplan-cli/internal/logger"
)

const (
	apiLogin    = "/auth/login"
	apiRegister = "/auth/register"
	apiRefresh  = "/auth/refresh"
	apiLogout   = "/auth/logout"

	apiMeals     = "/meals"
	apiDiets     = "/diets"
	apiUserMeals = "/users/me/meals"
	apiUserDiets = "/users/me/diets"
	apiConsumed  = "/users/me/consumed"
	apiProfile   = "/users/me/profile"
	apiWeights   = "/users/me/weights"
	apiRDI       = "/rdi"
)

type Client struct {
	http    *http.Client
	baseURL string

	mu           sync.Mutex
	token        string
	refreshToken string
	onRefresh    func(accessToken, refreshToken string)
}

func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

// SetRefresh configures the client to refresh the access token on 401
// responses. onRefresh receives the new tokens so the caller can persist them.
func (c *Client) SetRefresh(refreshToken string, onRefresh func(accessToken, refreshToken string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshToken = refreshToken
	c.onRefresh = onRefresh
}

// SetToken swaps the access token, e.g. after login or logout.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current access token, which changes after a refresh.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// HasSession reports whether the client holds an access token.
func (c *Client) HasSession() bool {
	return c.Token() != ""
}

// rawRequest executes the HTTP request and returns the body and status code.
// It never retries; use request() for 401 handling.
func (c *Client) rawRequest(method, path string, body []byte) ([]byte, int, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, c.baseURL+path, r)
	if err != nil {
		return nil, 0, err
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)
	req.Header.Set("Accept", "application/json")
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", reqID),
			zap.Error(err))
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	logger.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))
	return data, resp.StatusCode, nil
}

// userScoped reports whether path only makes sense for a logged in user.
func userScoped(path string) bool {
	return strings.HasPrefix(path, "/users/me") || strings.HasPrefix(path, apiRDI+"/")
}

// request executes the HTTP request, retrying once with a refreshed token on 401.
// User scoped paths fail with ErrNotAuthenticated when there is no token.
func (c *Client) request(method, path string, body []byte) ([]byte, error) {
	if userScoped(path) && !c.HasSession() {
		return nil, ErrNotAuthenticated
	}
	data, status, err := c.rawRequest(method, path, body)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized && c.canRefresh() {
		if refreshErr := c.doRefresh(); refreshErr != nil {
			return nil, refreshErr
		}
		data, status, err = c.rawRequest(method, path, body)
		if err != nil {
			return nil, err
		}
	}
	if status < 200 || status >= 300 {
		return nil, parseError(status, data)
	}
	return data, nil
}

func (c *Client) canRefresh() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshToken != ""
}

// doRefresh exchanges the refresh token for a new pair and updates the client.
func (c *Client) doRefresh() error {
	c.mu.Lock()
	rt := c.refreshToken
	c.mu.Unlock()

	resp, err := c.RefreshAccessToken(rt)
	if err != nil {
		logger.Warn("token refresh failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}

	c.mu.Lock()
	c.token = resp.AccessToken
	if resp.RefreshToken != "" {
		c.refreshToken = resp.RefreshToken
	}
	access, refresh, cb := c.token, c.refreshToken, c.onRefresh
	c.mu.Unlock()

	if cb != nil {
		cb(access, refresh)
	}
	return nil
}

func (c *Client) getJSON(path string, out any) error {
	data, err := c.request(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// sendJSON marshals in (if non-nil), sends it, and decodes the response into
// out (if non-nil and the body is not empty).
func (c *Client) sendJSON(method, path string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return err
		}
	}
	data, err := c.request(method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

// decodeList accepts either a bare array or an object wrapping it under key.
func decodeList[T any](data []byte, key string) ([]T, error) {
	var arr []T
	if err := json.Unmarshal(data, &arr); err == nil {
		return arr, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	raw, ok := obj[key]
	if !ok {
		raw, ok = obj["data"]
	}
	if !ok {
		return nil, fmt.Errorf("response has no %q list", key)
	}
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil, err
	}
	return arr, nil
}

func getList[T any](c *Client, path, key string) ([]T, error) {
	data, err := c.request(http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[T](data, key)
}

// GetRaw fetches a raw API path and returns the body regardless of status.
// Used by the API probe page.
func (c *Client) GetRaw(path string) (string, int, error) {
	data, status, err := c.rawRequest(http.MethodGet, path, nil)
	return string(data), status, err
}
