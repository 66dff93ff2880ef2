package favorites

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/koriwi/nutriplan-cli/internal/api"
	"github.com/koriwi/nutriplan-cli/internal/models"
	"github.com/koriwi/nutriplan-cli/internal/store"
)

type fakeSession bool

func (f fakeSession) Authenticated() bool { return bool(f) }

type fakeAPI struct {
	mu      sync.Mutex
	calls   []string
	addMeal func(id string) (*models.Meal, error)
	rmMeal  func(id string, force bool) error
	addDiet func(id string) (*models.DietPlan, error)
	rmDiet  func(id string, force bool) error
	consume func(id string, date time.Time) error
	block   chan struct{}
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
}

func (f *fakeAPI) AddFavoriteMeal(id string) (*models.Meal, error) {
	f.record("addMeal:" + id)
	if f.addMeal != nil {
		return f.addMeal(id)
	}
	m := models.Meal{ID: id}
	m.Resolve()
	return &m, nil
}

func (f *fakeAPI) RemoveFavoriteMeal(id string, force bool) error {
	f.record("rmMeal:" + id)
	if f.rmMeal != nil {
		return f.rmMeal(id, force)
	}
	return nil
}

func (f *fakeAPI) AddFavoriteDiet(id string) (*models.DietPlan, error) {
	f.record("addDiet:" + id)
	if f.addDiet != nil {
		return f.addDiet(id)
	}
	return &models.DietPlan{ID: id}, nil
}

func (f *fakeAPI) RemoveFavoriteDiet(id string, force bool) error {
	f.record("rmDiet:" + id)
	if f.rmDiet != nil {
		return f.rmDiet(id, force)
	}
	return nil
}

func (f *fakeAPI) ConsumeMeal(id string, date time.Time) error {
	f.record("consume:" + id)
	if f.consume != nil {
		return f.consume(id, date)
	}
	return nil
}

func newToggler(a *fakeAPI, loggedIn bool) (*Toggler, *store.Collection[models.Meal], *store.Collection[models.DietPlan]) {
	meals := store.NewCollection[models.Meal]()
	diets := store.NewCollection[models.DietPlan]()
	return New(a, fakeSession(loggedIn), meals, diets), meals, diets
}

func TestUnauthenticatedNeverCallsAPI(t *testing.T) {
	a := &fakeAPI{}
	tg, _, _ := newToggler(a, false)

	for _, out := range []Outcome{
		tg.ToggleMeal("m1"),
		tg.ToggleDiet("d1"),
		tg.ConsumeMeal("m1", time.Now()),
		tg.ForceUnlinkMeal("m1"),
	} {
		if out.Kind != NeedsAuth {
			t.Errorf("kind = %s, want needs-auth", out.Kind)
		}
	}
	if len(a.calls) != 0 {
		t.Errorf("API called: %v", a.calls)
	}
}

func TestToggleMealAddThenRemove(t *testing.T) {
	a := &fakeAPI{
		addMeal: func(id string) (*models.Meal, error) {
			m := models.Meal{ID: "copy-" + id, OriginalMealID: id}
			m.Resolve()
			return &m, nil
		},
	}
	tg, meals, _ := newToggler(a, true)

	out := tg.ToggleMeal("m1")
	if out.Kind != Mutated || !out.Favorite {
		t.Fatalf("add outcome = %+v", out)
	}
	snap := meals.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].ID != "copy-m1" || !snap.Items[0].IsCopy() {
		t.Fatalf("store = %+v", snap.Items)
	}
	if !tg.IsFavoriteMeal("m1") {
		t.Error("original id should be recognized through the copy")
	}

	out = tg.ToggleMeal("m1")
	if out.Kind != Mutated || out.Favorite {
		t.Fatalf("remove outcome = %+v", out)
	}
	if len(meals.Snapshot().Items) != 0 {
		t.Errorf("store after remove = %+v", meals.Snapshot().Items)
	}
	if len(a.calls) != 2 || a.calls[1] != "rmMeal:m1" {
		t.Errorf("calls = %v", a.calls)
	}
}

func TestToggleMealConflictLeavesStoreAlone(t *testing.T) {
	refs := []models.Reference{{ID: "d1", Name: "Cut", Kind: "diet"}}
	var forced bool
	a := &fakeAPI{
		rmMeal: func(id string, force bool) error {
			if force {
				forced = true
				return nil
			}
			return &api.ConflictError{Message: "Meal is used in diets", References: refs}
		},
	}
	tg, meals, _ := newToggler(a, true)
	meals.Set([]models.Meal{{ID: "m1"}})

	out := tg.ToggleMeal("m1")
	if out.Kind != Conflict {
		t.Fatalf("kind = %s, want conflict", out.Kind)
	}
	if len(out.References) != 1 || out.References[0].ID != "d1" {
		t.Errorf("references = %+v", out.References)
	}
	if !meals.Snapshot().Contains("m1") {
		t.Error("store changed on conflict")
	}

	out = tg.ForceUnlinkMeal("m1")
	if out.Kind != Mutated || !forced {
		t.Fatalf("force outcome = %+v, forced = %v", out, forced)
	}
	if meals.Snapshot().Contains("m1") {
		t.Error("meal still saved after force unlink")
	}
}

func TestToggleDietConflictAndFailure(t *testing.T) {
	a := &fakeAPI{
		rmDiet: func(id string, force bool) error {
			return &api.ConflictError{References: []models.Reference{{ID: "p1", Kind: "plan"}}}
		},
		addDiet: func(id string) (*models.DietPlan, error) {
			return nil, &api.Error{Status: 500}
		},
	}
	tg, _, diets := newToggler(a, true)
	diets.Set([]models.DietPlan{{ID: "d1"}})

	if out := tg.ToggleDiet("d1"); out.Kind != Conflict {
		t.Errorf("remove kind = %s", out.Kind)
	}
	out := tg.ToggleDiet("d2")
	if out.Kind != Failed || out.Message != "Server error, try again later" {
		t.Errorf("add outcome = %+v", out)
	}
	if diets.Snapshot().Contains("d2") {
		t.Error("failed add must not touch the store")
	}
}

func TestExpiredSessionBecomesNeedsAuth(t *testing.T) {
	a := &fakeAPI{consume: func(string, time.Time) error {
		return errors.Join(api.ErrSessionExpired, errors.New("refresh rejected"))
	}}
	tg, _, _ := newToggler(a, true)
	if out := tg.ConsumeMeal("m1", time.Now()); out.Kind != NeedsAuth {
		t.Errorf("kind = %s, want needs-auth", out.Kind)
	}
}

func TestConcurrentToggleIsBusy(t *testing.T) {
	a := &fakeAPI{block: make(chan struct{})}
	tg, _, _ := newToggler(a, true)

	done := make(chan Outcome)
	go func() { done <- tg.ToggleMeal("m1") }()

	deadline := time.Now().Add(2 * time.Second)
	for !tg.Processing("meal:m1") {
		if time.Now().After(deadline) {
			t.Fatal("toggle never started")
		}
		time.Sleep(time.Millisecond)
	}
	if out := tg.ToggleMeal("m1"); out.Kind != Busy {
		t.Errorf("second toggle kind = %s, want busy", out.Kind)
	}
	close(a.block)
	if out := <-done; out.Kind != Mutated {
		t.Errorf("first toggle kind = %s", out.Kind)
	}
	if tg.Processing("meal:m1") {
		t.Error("still processing after completion")
	}
}

func TestRepeatedConsumeIsNotBusy(t *testing.T) {
	a := &fakeAPI{block: make(chan struct{})}
	tg, _, _ := newToggler(a, true)

	now := time.Now()
	done := make(chan Outcome, 2)
	go func() { done <- tg.ConsumeMeal("m1", now) }()
	go func() { done <- tg.ConsumeMeal("m1", now) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		a.mu.Lock()
		n := len(a.calls)
		a.mu.Unlock()
		if n == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("only %d consume calls reached the API", n)
		}
		time.Sleep(time.Millisecond)
	}
	close(a.block)
	for i := 0; i < 2; i++ {
		if out := <-done; out.Kind != Mutated {
			t.Errorf("consume kind = %s, want mutated", out.Kind)
		}
	}
}
