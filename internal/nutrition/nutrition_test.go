package nutrition

import (
	"math"
	"testing"
	"time"

	"github.com/koriwi/nutriplan-cli/internal/models"
)

func n(name string, v float64) models.Nutrient {
	return models.Nutrient{Name: name, Value: v, Unit: "g"}
}

func TestCalculateNutritionProgress(t *testing.T) {
	target := []models.Nutrient{n(models.NutrientProtein, 150), n(models.NutrientEnergy, 0), n(models.NutrientFat, 60)}
	remaining := []models.Nutrient{n(models.NutrientProtein, 50), n(models.NutrientFat, -10)}

	got := CalculateNutritionProgress(remaining, target)
	if len(got) != 3 {
		t.Fatalf("got %d rows, want 3", len(got))
	}

	protein := got[0]
	if protein.Consumed != 100 {
		t.Errorf("protein consumed = %v, want 100", protein.Consumed)
	}
	if s := FormatPercent(protein.Percent); s != "66.7%" {
		t.Errorf("protein percent = %s, want 66.7%%", s)
	}
	if protein.Status != StatusUnderGoal {
		t.Errorf("protein status = %q", protein.Status)
	}

	energy := got[1]
	if energy.Percent != 0 || math.IsNaN(energy.Percent) || math.IsInf(energy.Percent, 0) {
		t.Errorf("zero target percent = %v, want 0", energy.Percent)
	}

	fat := got[2]
	if fat.Status != StatusGoalExceeded {
		t.Errorf("fat status = %q, want %q", fat.Status, StatusGoalExceeded)
	}
	if fat.Consumed != 70 {
		t.Errorf("fat consumed = %v, want 70", fat.Consumed)
	}
}

func TestCalculateNutritionProgressMissingRemainingDefaultsToZero(t *testing.T) {
	got := CalculateNutritionProgress([]models.Nutrient{}, []models.Nutrient{n(models.NutrientCarbs, 200)})
	if got[0].Consumed != 200 || got[0].Percent != 100 {
		t.Errorf("got %+v, want everything consumed", got[0])
	}
}

func TestCalculateNutritionProgressNilLists(t *testing.T) {
	list := []models.Nutrient{n(models.NutrientProtein, 1)}
	if got := CalculateNutritionProgress(nil, list); got != nil {
		t.Errorf("nil remaining: got %v, want nil", got)
	}
	if got := CalculateNutritionProgress(list, nil); got != nil {
		t.Errorf("nil target: got %v, want nil", got)
	}
}

func TestMergeProgress(t *testing.T) {
	display := []models.Nutrient{n(models.NutrientProtein, 150), n("Fiber", 30)}
	progress := CalculateNutritionProgress([]models.Nutrient{n(models.NutrientProtein, 50)}, []models.Nutrient{n(models.NutrientProtein, 150)})

	rows := MergeProgress(display, progress)
	if len(rows) != 2 {
		t.Fatalf("got %d rows", len(rows))
	}
	if rows[0].Progress == nil || rows[0].Progress.Consumed != 100 {
		t.Errorf("protein row progress = %+v", rows[0].Progress)
	}
	if rows[1].Progress != nil {
		t.Errorf("fiber row should pass through, got %+v", rows[1].Progress)
	}
	if rows[1].Value != 30 {
		t.Errorf("fiber value changed to %v", rows[1].Value)
	}
}

func TestBuildPercentRadialData(t *testing.T) {
	current := []models.Nutrient{
		n(models.NutrientEnergy, 3000),
		n(models.NutrientProtein, 75),
		n(models.NutrientCarbs, -20),
	}
	base := []models.Nutrient{
		n(models.NutrientEnergy, 2000),
		n(models.NutrientProtein, 150),
		n(models.NutrientCarbs, 250),
		n(models.NutrientFat, 0),
	}

	data := BuildPercentRadialData(current, base)
	if len(data.Entries) != len(RadialOrder)+1 {
		t.Fatalf("got %d entries", len(data.Entries))
	}
	for i, name := range RadialOrder {
		if data.Entries[i].Name != name {
			t.Errorf("entry %d = %s, want %s", i, data.Entries[i].Name, name)
		}
	}
	for _, e := range data.Entries {
		if e.Percent < 0 || e.Percent > 100 {
			t.Errorf("%s percent %v outside [0,100]", e.Name, e.Percent)
		}
	}
	if got := data.Entries[0].RawPercent; got != 150 {
		t.Errorf("energy raw = %v, want 150", got)
	}
	if got := data.Entries[0].Percent; got != 100 {
		t.Errorf("energy clamped = %v, want 100", got)
	}
	if got := data.Entries[2].Percent; got != 0 {
		t.Errorf("negative carbs clamped = %v, want 0", got)
	}
	if got := data.Entries[3].RawPercent; got != 0 {
		t.Errorf("zero base raw = %v, want 0", got)
	}
	scale := data.Entries[len(data.Entries)-1]
	if scale.Name != ScaleEntry || scale.Opacity != 0 {
		t.Errorf("scale entry = %+v", scale)
	}
	if data.AllGoalsReached {
		t.Error("AllGoalsReached should be false")
	}
}

func TestBuildPercentRadialDataAllGoalsReached(t *testing.T) {
	base := []models.Nutrient{
		n(models.NutrientEnergy, 2000),
		n(models.NutrientProtein, 150),
		n(models.NutrientCarbs, 250),
		n(models.NutrientFat, 70),
	}
	current := []models.Nutrient{
		n(models.NutrientEnergy, 2100),
		n(models.NutrientProtein, 150),
		n(models.NutrientCarbs, 260),
		n(models.NutrientFat, 90),
	}
	if !BuildPercentRadialData(current, base).AllGoalsReached {
		t.Error("AllGoalsReached should be true when every raw percent >= 100")
	}
}

func TestRemainingDaysInWeek(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2026-10-12", 7}, // Monday
		{"2026-10-15", 4}, // Thursday
		{"2026-10-18", 1}, // Sunday
	}
	for _, tt := range tests {
		d, _ := time.Parse(time.DateOnly, tt.date)
		if got := RemainingDaysInWeek(d); got != tt.want {
			t.Errorf("RemainingDaysInWeek(%s) = %d, want %d", tt.date, got, tt.want)
		}
	}
}

func TestRemainingDaysInMonth(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2026-10-01", 31},
		{"2026-10-18", 14},
		{"2026-10-31", 1},
		{"2024-02-10", 20},
		{"2026-02-28", 1},
	}
	for _, tt := range tests {
		d, _ := time.Parse(time.DateOnly, tt.date)
		if got := RemainingDaysInMonth(d); got != tt.want {
			t.Errorf("RemainingDaysInMonth(%s) = %d, want %d", tt.date, got, tt.want)
		}
	}
}

func TestBuildWeeklyAverageRDI(t *testing.T) {
	snap := &models.RDISnapshot{
		Variant:   models.RDIWeek,
		Nutrients: []models.Nutrient{n(models.NutrientEnergy, 7000), n(models.NutrientProtein, 280)},
	}

	thursday, _ := time.Parse(time.DateOnly, "2026-10-15")
	avg := BuildWeeklyAverageRDI(snap, thursday)
	if avg.Variant != models.RDIWeekAverage {
		t.Errorf("variant = %s", avg.Variant)
	}
	if avg.Nutrients[0].Value != 1750 || avg.Nutrients[1].Value != 70 {
		t.Errorf("averaged = %+v", avg.Nutrients)
	}
	if snap.Nutrients[0].Value != 7000 {
		t.Error("input snapshot was mutated")
	}

	sunday, _ := time.Parse(time.DateOnly, "2026-10-18")
	if got := BuildWeeklyAverageRDI(snap, sunday); got != snap {
		t.Error("on Sunday the weekly totals should be returned unchanged")
	}
}

func TestBuildMonthlyAverageRDI(t *testing.T) {
	snap := &models.RDISnapshot{
		Variant:   models.RDIMonth,
		Nutrients: []models.Nutrient{n(models.NutrientCarbs, 1400)},
	}
	d, _ := time.Parse(time.DateOnly, "2026-10-18")
	if got := BuildMonthlyAverageRDI(snap, d).Nutrients[0].Value; got != 100 {
		t.Errorf("monthly average = %v, want 100", got)
	}
	last, _ := time.Parse(time.DateOnly, "2026-10-31")
	if got := BuildMonthlyAverageRDI(snap, last); got != snap {
		t.Error("on the last day the monthly totals should be returned unchanged")
	}
	if BuildMonthlyAverageRDI(nil, d) != nil {
		t.Error("nil snapshot should stay nil")
	}
}
