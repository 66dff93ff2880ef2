package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/koriwi/nutriplan-cli/internal/models"
)

type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// postToken sends body to a token endpoint without the 401 refresh dance.
func (c *Client) postToken(path string, body any) (TokenResponse, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return TokenResponse{}, err
	}
	data, status, err := c.rawRequest(http.MethodPost, path, raw)
	if err != nil {
		return TokenResponse{}, err
	}
	if status < 200 || status >= 300 {
		return TokenResponse{}, parseError(status, data)
	}
	var resp TokenResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return TokenResponse{}, err
	}
	if resp.AccessToken == "" {
		return TokenResponse{}, fmt.Errorf("no accessToken in response")
	}
	return resp, nil
}

// Login authenticates and returns the access and refresh tokens.
func (c *Client) Login(creds models.Credentials) (TokenResponse, error) {
	if err := models.Validate(creds); err != nil {
		return TokenResponse{}, err
	}
	return c.postToken(apiLogin, creds)
}

// Register creates an account and logs it in.
func (c *Client) Register(reg models.Registration) (TokenResponse, error) {
	if err := models.Validate(reg); err != nil {
		return TokenResponse{}, err
	}
	return c.postToken(apiRegister, reg)
}

// RefreshAccessToken exchanges a refresh token for a new token pair.
func (c *Client) RefreshAccessToken(refreshToken string) (TokenResponse, error) {
	return c.postToken(apiRefresh, map[string]string{"refreshToken": refreshToken})
}

// Logout revokes the refresh token server-side. Local state is the caller's job.
func (c *Client) Logout() error {
	c.mu.Lock()
	rt := c.refreshToken
	c.mu.Unlock()
	return c.sendJSON(http.MethodPost, apiLogout, map[string]string{"refreshToken": rt}, nil)
}
