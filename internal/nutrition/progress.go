// Package nutrition turns cached RDI snapshots into the numbers the progress
// views show. Everything here is pure: no I/O, no shared state.
package nutrition

import (
	"fmt"

	"github.com/koriwi/nutriplan-cli/internal/models"
)

const (
	StatusUnderGoal    = "Under goal"
	StatusGoalExceeded = "Goal exceeded"
)

// Progress is how far one nutrient is towards its daily target.
type Progress struct {
	Name      string
	Unit      string
	Target    float64
	Remaining float64
	Consumed  float64
	Percent   float64
	Status    string
}

// CalculateNutritionProgress compares a "remaining" list against a target
// list. It returns nil if either list is nil. Nutrients missing from
// remaining count as 0 remaining.
func CalculateNutritionProgress(remaining, target []models.Nutrient) []Progress {
	if remaining == nil || target == nil {
		return nil
	}
	out := make([]Progress, 0, len(target))
	for _, t := range target {
		var left float64
		if r, ok := models.FindNutrient(remaining, t.Name); ok {
			left = r.Value
		}
		consumed := t.Value - left
		var pct float64
		if t.Value != 0 {
			pct = consumed / t.Value * 100
		}
		status := StatusUnderGoal
		if left < 0 {
			status = StatusGoalExceeded
		}
		out = append(out, Progress{
			Name:      t.Name,
			Unit:      t.Unit,
			Target:    t.Value,
			Remaining: left,
			Consumed:  consumed,
			Percent:   pct,
			Status:    status,
		})
	}
	return out
}

// Row is a display nutrient with its progress attached when one was computed.
type Row struct {
	models.Nutrient
	Progress *Progress
}

// MergeProgress attaches progress to display rows by name. Rows without a
// matching calculation pass through with a nil Progress.
func MergeProgress(display []models.Nutrient, progress []Progress) []Row {
	byName := make(map[string]int, len(progress))
	for i, p := range progress {
		byName[p.Name] = i
	}
	rows := make([]Row, 0, len(display))
	for _, n := range display {
		r := Row{Nutrient: n}
		if i, ok := byName[n.Name]; ok {
			p := progress[i]
			r.Progress = &p
		}
		rows = append(rows, r)
	}
	return rows
}

// FormatPercent renders a percentage with one decimal, e.g. "66.7%".
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// ConsumedList converts progress back into a nutrient list of consumed amounts.
func ConsumedList(progress []Progress) []models.Nutrient {
	if progress == nil {
		return nil
	}
	out := make([]models.Nutrient, 0, len(progress))
	for _, p := range progress {
		out = append(out, models.Nutrient{Name: p.Name, Value: p.Consumed, Unit: p.Unit})
	}
	return out
}
