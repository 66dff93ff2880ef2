package api

import (
	"net/http"
	"net/url"
	"time"

	"github.com/koriwi/nutriplan-cli/internal/models"
)

func resolveMeals(meals []models.Meal) []models.Meal {
	for i := range meals {
		meals[i].Resolve()
	}
	return meals
}

// ListMeals browses public meals, optionally filtered by a search query.
func (c *Client) ListMeals(query string) ([]models.Meal, error) {
	path := apiMeals
	if query != "" {
		path += "?search=" + url.QueryEscape(query)
	}
	meals, err := getList[models.Meal](c, path, "meals")
	if err != nil {
		return nil, err
	}
	return resolveMeals(meals), nil
}

func (c *Client) GetMeal(id string) (*models.Meal, error) {
	var m models.Meal
	if err := c.getJSON(apiMeals+"/"+url.PathEscape(id), &m); err != nil {
		return nil, err
	}
	m.Resolve()
	return &m, nil
}

// DeleteMeal removes a meal the user created.
func (c *Client) DeleteMeal(id string) error {
	if !c.HasSession() {
		return ErrNotAuthenticated
	}
	return c.sendJSON(http.MethodDelete, apiMeals+"/"+url.PathEscape(id), nil, nil)
}

// CopyMeal creates a user-owned copy of a template meal.
func (c *Client) CopyMeal(id string) (*models.Meal, error) {
	var out models.Meal
	if err := c.sendJSON(http.MethodPost, apiMeals+"/"+url.PathEscape(id)+"/copy", nil, &out); err != nil {
		return nil, err
	}
	out.Resolve()
	return &out, nil
}

// ListUserMeals returns the user's saved and created meals, originals and
// copies alike.
func (c *Client) ListUserMeals() ([]models.Meal, error) {
	meals, err := getList[models.Meal](c, apiUserMeals, "meals")
	if err != nil {
		return nil, err
	}
	return resolveMeals(meals), nil
}

// AddFavoriteMeal saves a meal. The server answers with the saved entry,
// which may be a copy rather than the original.
func (c *Client) AddFavoriteMeal(id string) (*models.Meal, error) {
	var out models.Meal
	if err := c.sendJSON(http.MethodPost, apiUserMeals+"/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		out.ID = id
	}
	out.Resolve()
	return &out, nil
}

// RemoveFavoriteMeal unsaves a meal. Without force, a meal still used by
// one of the user's diets comes back as a *ConflictError.
func (c *Client) RemoveFavoriteMeal(id string, force bool) error {
	path := apiUserMeals + "/" + url.PathEscape(id)
	if force {
		path += "?force=true"
	}
	return c.sendJSON(http.MethodDelete, path, nil, nil)
}

// ConsumeMeal records that the user ate a meal on date.
func (c *Client) ConsumeMeal(id string, date time.Time) error {
	req := models.ConsumeRequest{MealID: id, Date: date.Format(time.DateOnly)}
	if err := models.Validate(req); err != nil {
		return err
	}
	return c.sendJSON(http.MethodPost, apiConsumed, req, nil)
}
