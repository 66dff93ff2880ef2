package models

import "time"

// Fixed nutrient vocabulary. Lists coming from the API are keyed by these names.
const (
	NutrientEnergy    = "Energy kcal"
	NutrientProtein   = "Protein"
	NutrientCarbs     = "Carbohydrates"
	NutrientSugars    = "Sugars, total"
	NutrientFat       = "Total lipid (fat)"
	NutrientSaturated = "Fatty acids, total saturated"
)

// NutrientOrder is the display order.
var NutrientOrder = []string{
	NutrientEnergy,
	NutrientProtein,
	NutrientCarbs,
	NutrientSugars,
	NutrientFat,
	NutrientSaturated,
}

// IsSubNutrient reports whether name is rendered indented under its parent.
func IsSubNutrient(name string) bool {
	return name == NutrientSugars || name == NutrientSaturated
}

// NutrientLabel returns a short label for terminal columns.
func NutrientLabel(name string) string {
	switch name {
	case NutrientEnergy:
		return "Calories"
	case NutrientProtein:
		return "Protein"
	case NutrientCarbs:
		return "Carbs"
	case NutrientSugars:
		return "Sugars"
	case NutrientFat:
		return "Fat"
	case NutrientSaturated:
		return "Saturated"
	default:
		return name
	}
}

type Nutrient struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// FindNutrient returns the entry called name.
func FindNutrient(list []Nutrient, name string) (Nutrient, bool) {
	for _, n := range list {
		if n.Name == name {
			return n, true
		}
	}
	return Nutrient{}, false
}

// SortNutrients returns list reordered by NutrientOrder; unknown names keep
// their relative order at the end.
func SortNutrients(list []Nutrient) []Nutrient {
	out := make([]Nutrient, 0, len(list))
	used := make([]bool, len(list))
	for _, name := range NutrientOrder {
		for i, n := range list {
			if !used[i] && n.Name == name {
				out = append(out, n)
				used[i] = true
			}
		}
	}
	for i, n := range list {
		if !used[i] {
			out = append(out, n)
		}
	}
	return out
}

type RDIVariant string

const (
	RDIToday        RDIVariant = "today"
	RDIBase         RDIVariant = "base"
	RDIDate         RDIVariant = "date"
	RDIWeek         RDIVariant = "week"
	RDIMonth        RDIVariant = "month"
	RDIWeekAverage  RDIVariant = "weekAverage"
	RDIMonthAverage RDIVariant = "monthAverage"
)

// RDISnapshot is one RDI response. For today/date/week/month the values are
// what is still remaining; for base they are the daily target.
type RDISnapshot struct {
	Variant   RDIVariant `json:"variant"`
	Nutrients []Nutrient `json:"nutrients"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Clone returns a deep copy.
func (s *RDISnapshot) Clone() *RDISnapshot {
	if s == nil {
		return nil
	}
	out := *s
	out.Nutrients = append([]Nutrient(nil), s.Nutrients...)
	return &out
}
