package nutrition

import "github.com/koriwi/nutriplan-cli/internal/models"

// RadialOrder is the ring order of the percentage chart, outermost first.
var RadialOrder = []string{
	models.NutrientEnergy,
	models.NutrientProtein,
	models.NutrientCarbs,
	models.NutrientFat,
}

// ScaleEntry names the invisible entry that pins the chart range to 100.
const ScaleEntry = "scale"

type RadialEntry struct {
	Name       string
	Percent    float64 // clamped to [0,100]
	RawPercent float64
	Opacity    float64
}

type RadialData struct {
	Entries         []RadialEntry
	AllGoalsReached bool
}

// BuildPercentRadialData normalizes current against base for each nutrient
// in RadialOrder. The last entry is always the zero-opacity scale anchor.
func BuildPercentRadialData(current, base []models.Nutrient) RadialData {
	data := RadialData{
		Entries:         make([]RadialEntry, 0, len(RadialOrder)+1),
		AllGoalsReached: true,
	}
	for _, name := range RadialOrder {
		var cur, goal float64
		if n, ok := models.FindNutrient(current, name); ok {
			cur = n.Value
		}
		if n, ok := models.FindNutrient(base, name); ok {
			goal = n.Value
		}
		var raw float64
		if goal > 0 {
			raw = cur / goal * 100
		}
		if raw < 100 {
			data.AllGoalsReached = false
		}
		data.Entries = append(data.Entries, RadialEntry{
			Name:       name,
			Percent:    clamp(raw, 0, 100),
			RawPercent: raw,
			Opacity:    1,
		})
	}
	data.Entries = append(data.Entries, RadialEntry{
		Name:       ScaleEntry,
		Percent:    100,
		RawPercent: 100,
		Opacity:    0,
	})
	return data
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
