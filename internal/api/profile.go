package api

import (
	"net/http"
	"sort"

	"github.com/koriwi/nutriplan-cli/internal/models"
)

// GetProfile fetches the authenticated user's profile.
func (c *Client) GetProfile() (*models.UserProfile, error) {
	var p models.UserProfile
	if err := c.getJSON(apiProfile, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProfile(p models.UserProfile) (*models.UserProfile, error) {
	if err := models.Validate(p); err != nil {
		return nil, err
	}
	var out models.UserProfile
	if err := c.sendJSON(http.MethodPut, apiProfile, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListWeights returns the weight history, oldest first.
func (c *Client) ListWeights() ([]models.WeightEntry, error) {
	entries, err := getList[models.WeightEntry](c, apiWeights, "weights")
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
	return entries, nil
}

func (c *Client) AddWeight(e models.WeightEntry) (*models.WeightEntry, error) {
	if err := models.Validate(e); err != nil {
		return nil, err
	}
	var out models.WeightEntry
	if err := c.sendJSON(http.MethodPost, apiWeights, e, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
