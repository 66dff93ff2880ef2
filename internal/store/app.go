package store

import "github.com/koriwi/nutriplan-cli/internal/models"

// App bundles every store. It is created once in main and passed to the UI.
type App struct {
	Session *Session
	Meals   *Collection[models.Meal]
	Diets   *Collection[models.DietPlan]
	RDI     *RecommendedNutrition
}

func NewApp(ts TokenStore) *App {
	return &App{
		Session: NewSession(ts),
		Meals:   NewCollection[models.Meal](),
		Diets:   NewCollection[models.DietPlan](),
		RDI:     NewRecommendedNutrition(),
	}
}

// Clear drops all user data, keeping the stores themselves.
func (a *App) Clear() error {
	a.Meals.Reset()
	a.Diets.Reset()
	a.RDI.Reset()
	return a.Session.Logout()
}
