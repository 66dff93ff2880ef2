// Package favorites wraps the save/unsave/consume mutations behind an auth
// gate and mirrors successful calls into the local stores.
//
// Every toggle moves idle -> processing -> idle. A failure never retries;
// the outcome tells the caller what to show.
package favorites

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/koriwi/nutriplan-cli/internal/api"
	"github.com/koriwi/nutriplan-cli/internal/logger"
	"github.com/koriwi/nutriplan-cli/internal/models"
	"github.com/koriwi/nutriplan-cli/internal/store"
)

// API is the slice of the REST client the toggles need.
type API interface {
	AddFavoriteMeal(id string) (*models.Meal, error)
	RemoveFavoriteMeal(id string, force bool) error
	AddFavoriteDiet(id string) (*models.DietPlan, error)
	RemoveFavoriteDiet(id string, force bool) error
	ConsumeMeal(id string, date time.Time) error
}

// SessionChecker reports whether a user is logged in.
type SessionChecker interface {
	Authenticated() bool
}

type Kind int

const (
	// Mutated: the call succeeded and the store was updated.
	Mutated Kind = iota
	// NeedsAuth: no session; the API was not called.
	NeedsAuth
	// Conflict: the entity is still referenced; see Outcome.References.
	Conflict
	// Failed: any other error; see Outcome.Message.
	Failed
	// Busy: a toggle for the same target is already in flight.
	Busy
)

func (k Kind) String() string {
	switch k {
	case Mutated:
		return "mutated"
	case NeedsAuth:
		return "needs-auth"
	case Conflict:
		return "conflict"
	case Failed:
		return "failed"
	case Busy:
		return "busy"
	default:
		return "unknown"
	}
}

type Outcome struct {
	Kind Kind
	// TargetID is the meal or diet acted on.
	TargetID string
	// Favorite is the saved state after a Mutated toggle.
	Favorite   bool
	Message    string
	References []models.Reference
	Err        error
}

type Toggler struct {
	api     API
	session SessionChecker
	meals   *store.Collection[models.Meal]
	diets   *store.Collection[models.DietPlan]

	mu       sync.Mutex
	inflight map[string]bool
}

func New(a API, session SessionChecker, meals *store.Collection[models.Meal], diets *store.Collection[models.DietPlan]) *Toggler {
	return &Toggler{
		api:      a,
		session:  session,
		meals:    meals,
		diets:    diets,
		inflight: map[string]bool{},
	}
}

// Processing reports whether a toggle for key is in flight.
func (t *Toggler) Processing(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inflight[key]
}

func (t *Toggler) begin(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.inflight[key] {
		return false
	}
	t.inflight[key] = true
	return true
}

func (t *Toggler) end(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.inflight, key)
}

// run applies the auth gate and the in-flight guard around fn.
func (t *Toggler) run(key, id string, fn func() Outcome) Outcome {
	if t.session == nil || !t.session.Authenticated() {
		return Outcome{Kind: NeedsAuth, TargetID: id}
	}
	if !t.begin(key) {
		return Outcome{Kind: Busy, TargetID: id}
	}
	defer t.end(key)
	return fn()
}

func failure(op, id string, err error) Outcome {
	var conflict *api.ConflictError
	if errors.As(err, &conflict) {
		logger.Info("still referenced",
			zap.String("op", op),
			zap.String("id", id),
			zap.Int("references", len(conflict.References)))
		return Outcome{
			Kind:       Conflict,
			TargetID:   id,
			Message:    api.Describe(err),
			References: conflict.References,
			Err:        err,
		}
	}
	logger.Error(op+" failed", zap.String("id", id), zap.Error(err))
	if api.IsUnauthorized(err) {
		return Outcome{Kind: NeedsAuth, TargetID: id, Message: api.Describe(err), Err: err}
	}
	return Outcome{Kind: Failed, TargetID: id, Message: api.Describe(err), Err: err}
}

// IsFavoriteMeal reports whether the meal, or a copy of it, is saved.
func (t *Toggler) IsFavoriteMeal(id string) bool {
	return t.meals.Snapshot().Contains(id)
}

func (t *Toggler) IsFavoriteDiet(id string) bool {
	return t.diets.Snapshot().Contains(id)
}

// ToggleMeal saves the meal if it is not saved yet and unsaves it otherwise.
func (t *Toggler) ToggleMeal(id string) Outcome {
	return t.run("meal:"+id, id, func() Outcome {
		if t.IsFavoriteMeal(id) {
			return t.removeMeal(id, false)
		}
		saved, err := t.api.AddFavoriteMeal(id)
		if err != nil {
			return failure("add favorite meal", id, err)
		}
		t.meals.Dispatch(store.Replace(id, *saved))
		return Outcome{Kind: Mutated, TargetID: id, Favorite: true}
	})
}

// ForceUnlinkMeal unsaves a meal even though diets still use it.
func (t *Toggler) ForceUnlinkMeal(id string) Outcome {
	return t.run("meal:"+id, id, func() Outcome {
		return t.removeMeal(id, true)
	})
}

func (t *Toggler) removeMeal(id string, force bool) Outcome {
	if err := t.api.RemoveFavoriteMeal(id, force); err != nil {
		return failure("remove favorite meal", id, err)
	}
	t.meals.Dispatch(store.Remove[models.Meal](id))
	return Outcome{Kind: Mutated, TargetID: id, Favorite: false}
}

func (t *Toggler) ToggleDiet(id string) Outcome {
	return t.run("diet:"+id, id, func() Outcome {
		if t.IsFavoriteDiet(id) {
			return t.removeDiet(id, false)
		}
		saved, err := t.api.AddFavoriteDiet(id)
		if err != nil {
			return failure("add favorite diet", id, err)
		}
		t.diets.Dispatch(store.Replace(id, *saved))
		return Outcome{Kind: Mutated, TargetID: id, Favorite: true}
	})
}

func (t *Toggler) ForceUnlinkDiet(id string) Outcome {
	return t.run("diet:"+id, id, func() Outcome {
		return t.removeDiet(id, true)
	})
}

func (t *Toggler) removeDiet(id string, force bool) Outcome {
	if err := t.api.RemoveFavoriteDiet(id, force); err != nil {
		return failure("remove favorite diet", id, err)
	}
	t.diets.Dispatch(store.Remove[models.DietPlan](id))
	return Outcome{Kind: Mutated, TargetID: id, Favorite: false}
}

// ConsumeMeal records a meal as eaten on date. The caller refetches RDI on
// a Mutated outcome; no store here holds consumption.
//
// Every call adds a record, so two calls for the same meal are both sent.
// The in-flight key is unique per call.
func (t *Toggler) ConsumeMeal(id string, date time.Time) Outcome {
	return t.run("consume:"+id+":"+uuid.NewString(), id, func() Outcome {
		if err := t.api.ConsumeMeal(id, date); err != nil {
			return failure("consume meal", id, err)
		}
		logger.Info("meal consumed", zap.String("id", id), zap.String("date", date.Format(time.DateOnly)))
		return Outcome{Kind: Mutated, TargetID: id, Favorite: t.IsFavoriteMeal(id)}
	})
}
