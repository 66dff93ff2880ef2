package models

import "time"

// FoodItem is the food an ingredient line refers to.
type FoodItem struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type Ingredient struct {
	FoodItem FoodItem `json:"foodItem"`
	Quantity float64  `json:"quantity"`
	Unit     string   `json:"unit"`
}

// Macros are the aggregate nutrition values of a whole meal.
type Macros struct {
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
	Sugars      float64 `json:"sugars"`
	Saturated   float64 `json:"saturated"`
	Unsaturated float64 `json:"unsaturated"`
}

// Nutrients converts the macros into a nutrient list in display order.
func (m Macros) Nutrients() []Nutrient {
	return []Nutrient{
		{Name: NutrientEnergy, Value: m.Calories, Unit: "kcal"},
		{Name: NutrientProtein, Value: m.Protein, Unit: "g"},
		{Name: NutrientCarbs, Value: m.Carbs, Unit: "g"},
		{Name: NutrientSugars, Value: m.Sugars, Unit: "g"},
		{Name: NutrientFat, Value: m.Fat, Unit: "g"},
		{Name: NutrientSaturated, Value: m.Saturated, Unit: "g"},
	}
}

type Media struct {
	Images []string `json:"images"`
	Video  string   `json:"video,omitempty"`
}

type Tags struct {
	Cuisine  []string `json:"cuisine"`
	Diet     []string `json:"diet"`
	MealType []string `json:"mealType"`
}

type Meal struct {
	ID             string       `json:"_id"`
	Name           string       `json:"name" validate:"required,min=2,max=100"`
	Description    string       `json:"description" validate:"max=2000"`
	Ingredients    []Ingredient `json:"ingredients" validate:"dive"`
	Macros         Macros       `json:"macros"`
	Media          Media        `json:"media"`
	Tags           Tags         `json:"tags"`
	Creator        *Creator     `json:"creator,omitempty"`
	OriginalMealID string       `json:"originalMealId,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`

	// Kind is not on the wire; Resolve fills it in.
	Kind Kind `json:"-"`
}

// Resolve sets Kind from the copy relationship.
func (m *Meal) Resolve() {
	m.Kind = kindOf(m.OriginalMealID)
}

// IsCopy reports whether the meal is a user-owned copy of a template.
func (m Meal) IsCopy() bool { return m.Kind == KindUserCopy }

// Refers reports whether the meal is id itself or a copy of it.
func (m Meal) Refers(id string) bool {
	if id == "" {
		return false
	}
	return m.ID == id || m.OriginalMealID == id
}

// Key identifies the meal in stores.
func (m Meal) Key() string { return m.ID }

// CreatedBy reports whether userID is the creator.
func (m Meal) CreatedBy(userID string) bool {
	return m.Creator != nil && userID != "" && m.Creator.ID == userID
}

// ConsumeRequest is the body for POST /users/me/consumed.
type ConsumeRequest struct {
	MealID string `json:"mealId" validate:"required"`
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
}
