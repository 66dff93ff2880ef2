package models

import (
	"strings"
	"testing"
	"time"
)

func TestDietDraftValidation(t *testing.T) {
	tests := []struct {
		name    string
		draft   DietDraft
		wantErr string
	}{
		{
			name:  "valid",
			draft: DietDraft{Name: "Cut", Days: []DietDayDraft{{MealIDs: []string{"a", "b"}}}},
		},
		{
			name:    "day with one meal",
			draft:   DietDraft{Name: "Cut", Days: []DietDayDraft{{MealIDs: []string{"a", "b"}}, {MealIDs: []string{"c"}}}},
			wantErr: "Days[1].MealIDs needs at least 2 entries",
		},
		{
			name:    "no days",
			draft:   DietDraft{Name: "Cut"},
			wantErr: "Days is required",
		},
		{
			name:    "missing name",
			draft:   DietDraft{Days: []DietDayDraft{{MealIDs: []string{"a", "b"}}}},
			wantErr: "Name is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.draft)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestProfileValidation(t *testing.T) {
	p := UserProfile{
		Gender: "female", Age: 31, Height: 168, Weight: 64, TargetWeight: 60,
		ActivityLevel: "moderate", Goal: "lose",
	}
	if err := Validate(p); err != nil {
		t.Fatalf("valid profile rejected: %v", err)
	}
	p.ActivityLevel = "couch"
	p.Age = 5
	err := Validate(p)
	if err == nil {
		t.Fatal("invalid profile accepted")
	}
	for _, want := range []string{"Age must be at least 10", "ActivityLevel must be one of"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("err %q missing %q", err, want)
		}
	}
}

func TestWeightEntryRequiresDate(t *testing.T) {
	if err := Validate(WeightEntry{Weight: 70}); err == nil {
		t.Error("missing date accepted")
	}
	if err := Validate(WeightEntry{Weight: 70, Date: time.Now()}); err != nil {
		t.Errorf("valid entry rejected: %v", err)
	}
}

func TestMealKind(t *testing.T) {
	orig := Meal{ID: "m1"}
	orig.Resolve()
	cp := Meal{ID: "c1", OriginalMealID: "m1"}
	cp.Resolve()

	if orig.IsCopy() || !cp.IsCopy() {
		t.Errorf("kinds = %s, %s", orig.Kind, cp.Kind)
	}
	if !cp.Refers("m1") || !cp.Refers("c1") || cp.Refers("x") || cp.Refers("") {
		t.Error("Refers mismatch")
	}
}

func TestDietResolveAndDayMacros(t *testing.T) {
	d := DietPlan{
		ID:             "d2",
		OriginalDietID: "d1",
		Days: []DietDay{{Meals: []Meal{
			{ID: "a", Macros: Macros{Calories: 400, Protein: 30}},
			{ID: "b", OriginalMealID: "z", Macros: Macros{Calories: 600, Protein: 20}},
		}}},
	}
	d.Resolve()
	if !d.IsCopy() || !d.Days[0].Meals[1].IsCopy() {
		t.Error("Resolve did not reach nested meals")
	}
	m := d.DayMacros(0)
	if m.Calories != 1000 || m.Protein != 50 {
		t.Errorf("DayMacros = %+v", m)
	}
	if d.DayMacros(3) != (Macros{}) {
		t.Error("out-of-range day should be zero")
	}
}

func TestSortNutrients(t *testing.T) {
	got := SortNutrients([]Nutrient{
		{Name: "Fiber"},
		{Name: NutrientFat},
		{Name: NutrientEnergy},
		{Name: NutrientProtein},
	})
	want := []string{NutrientEnergy, NutrientProtein, NutrientFat, "Fiber"}
	for i, n := range got {
		if n.Name != want[i] {
			t.Fatalf("order = %v", got)
		}
	}
}
