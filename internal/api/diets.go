package api

import (
	"net/http"
	"net/url"

	"github.com/koriwi/nutriplan-cli/internal/models"
)

func resolveDiets(diets []models.DietPlan) []models.DietPlan {
	for i := range diets {
		diets[i].Resolve()
	}
	return diets
}

func (c *Client) ListDiets(query string) ([]models.DietPlan, error) {
	path := apiDiets
	if query != "" {
		path += "?search=" + url.QueryEscape(query)
	}
	diets, err := getList[models.DietPlan](c, path, "diets")
	if err != nil {
		return nil, err
	}
	return resolveDiets(diets), nil
}

func (c *Client) GetDiet(id string) (*models.DietPlan, error) {
	var d models.DietPlan
	if err := c.getJSON(apiDiets+"/"+url.PathEscape(id), &d); err != nil {
		return nil, err
	}
	d.Resolve()
	return &d, nil
}

// CreateDiet validates the draft (every day needs at least two meals)
// before anything is sent.
func (c *Client) CreateDiet(draft models.DietDraft) (*models.DietPlan, error) {
	if err := models.Validate(draft); err != nil {
		return nil, err
	}
	if !c.HasSession() {
		return nil, ErrNotAuthenticated
	}
	var out models.DietPlan
	if err := c.sendJSON(http.MethodPost, apiDiets, draft, &out); err != nil {
		return nil, err
	}
	out.Resolve()
	return &out, nil
}

// DeleteDiet removes a diet the user created.
func (c *Client) DeleteDiet(id string) error {
	if !c.HasSession() {
		return ErrNotAuthenticated
	}
	return c.sendJSON(http.MethodDelete, apiDiets+"/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListUserDiets() ([]models.DietPlan, error) {
	diets, err := getList[models.DietPlan](c, apiUserDiets, "diets")
	if err != nil {
		return nil, err
	}
	return resolveDiets(diets), nil
}

func (c *Client) AddFavoriteDiet(id string) (*models.DietPlan, error) {
	var out models.DietPlan
	if err := c.sendJSON(http.MethodPost, apiUserDiets+"/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		out.ID = id
	}
	out.Resolve()
	return &out, nil
}

// RemoveFavoriteDiet unsaves a diet; see RemoveFavoriteMeal for force.
func (c *Client) RemoveFavoriteDiet(id string, force bool) error {
	path := apiUserDiets + "/" + url.PathEscape(id)
	if force {
		path += "?force=true"
	}
	return c.sendJSON(http.MethodDelete, path, nil, nil)
}
