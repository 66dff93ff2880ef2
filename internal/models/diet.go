package models

import "time"

// MinMealsPerDay is the smallest number of meals a diet day may be created with.
const MinMealsPerDay = 2

type DietDay struct {
	Meals []Meal `json:"meals"`
}

// DietPlan is an ordered list of days, each an ordered list of meals.
type DietPlan struct {
	ID             string    `json:"_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Days           []DietDay `json:"days"`
	IsPrivate      bool      `json:"isPrivate"`
	Creator        *Creator  `json:"creator,omitempty"`
	SaveCount      int       `json:"saveCount"`
	OriginalDietID string    `json:"originalDietId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`

	Kind Kind `json:"-"`
}

func (d *DietPlan) Resolve() {
	d.Kind = kindOf(d.OriginalDietID)
	for i := range d.Days {
		for j := range d.Days[i].Meals {
			d.Days[i].Meals[j].Resolve()
		}
	}
}

func (d DietPlan) IsCopy() bool { return d.Kind == KindUserCopy }

func (d DietPlan) Refers(id string) bool {
	if id == "" {
		return false
	}
	return d.ID == id || d.OriginalDietID == id
}

func (d DietPlan) Key() string { return d.ID }

func (d DietPlan) CreatedBy(userID string) bool {
	return d.Creator != nil && userID != "" && d.Creator.ID == userID
}

// DayMacros sums the macros of every meal in day i.
func (d DietPlan) DayMacros(i int) Macros {
	var out Macros
	if i < 0 || i >= len(d.Days) {
		return out
	}
	for _, m := range d.Days[i].Meals {
		out.Calories += m.Macros.Calories
		out.Protein += m.Macros.Protein
		out.Carbs += m.Macros.Carbs
		out.Fat += m.Macros.Fat
		out.Sugars += m.Macros.Sugars
		out.Saturated += m.Macros.Saturated
		out.Unsaturated += m.Macros.Unsaturated
	}
	return out
}

// DietDayDraft is one day of a diet being created; meals are referenced by ID.
type DietDayDraft struct {
	MealIDs []string `json:"meals" validate:"min=2,dive,required"`
}

// DietDraft is the body for POST /diets.
type DietDraft struct {
	Name        string         `json:"name" validate:"required,min=2,max=100"`
	Description string         `json:"description" validate:"max=2000"`
	IsPrivate   bool           `json:"isPrivate"`
	Days        []DietDayDraft `json:"days" validate:"required,min=1,dive"`
}
