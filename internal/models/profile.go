package models

import "time"

// UserProfile holds the body metrics the backend derives RDI from.
type UserProfile struct {
	ID            string  `json:"_id,omitempty"`
	Name          string  `json:"name,omitempty"`
	Email         string  `json:"email,omitempty"`
	Gender        string  `json:"gender" validate:"required,oneof=male female"`
	Age           int     `json:"age" validate:"required,gte=10,lte=120"`
	Height        float64 `json:"height" validate:"required,gte=100,lte=250"`
	Weight        float64 `json:"weight" validate:"required,gte=30,lte=400"`
	TargetWeight  float64 `json:"targetWeight" validate:"required,gte=30,lte=400"`
	ActivityLevel string  `json:"activityLevel" validate:"required,oneof=sedentary light moderate active very_active"`
	Goal          string  `json:"goal" validate:"required,oneof=lose maintain gain"`
}

// Complete reports whether enough metrics are set for the backend to compute RDI.
func (p *UserProfile) Complete() bool {
	return p != nil && p.Age > 0 && p.Height > 0 && p.Weight > 0 && p.Gender != ""
}

var ActivityLevels = []string{"sedentary", "light", "moderate", "active", "very_active"}

var Goals = []string{"lose", "maintain", "gain"}

var Genders = []string{"male", "female"}

func ActivityLabel(level string) string {
	switch level {
	case "sedentary":
		return "Sedentary"
	case "light":
		return "Lightly active"
	case "moderate":
		return "Moderately active"
	case "active":
		return "Active"
	case "very_active":
		return "Very active"
	default:
		return level
	}
}

type WeightEntry struct {
	ID     string    `json:"_id,omitempty"`
	Weight float64   `json:"weight" validate:"required,gte=30,lte=400"`
	Date   time.Time `json:"date" validate:"required"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Registration struct {
	Name     string `json:"name" validate:"required,min=2,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}
