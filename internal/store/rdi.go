package store

import (
	"sync"
	"time"

	"github.com/koriwi/nutriplan-cli/internal/models"
)

// RDIState is everything the progress page renders from.
type RDIState struct {
	Today *models.RDISnapshot
	Base  *models.RDISnapshot
	Date  *models.RDISnapshot
	Week  *models.RDISnapshot
	Month *models.RDISnapshot

	SelectedDate time.Time
	Generation   uint64
}

// Ticket identifies one fetch round.
type Ticket uint64

// RecommendedNutrition caches RDI snapshots. Each fetch round starts with
// Begin; results carrying an older ticket than the latest Begin are dropped,
// so a slow response can never overwrite a newer one.
type RecommendedNutrition struct {
	mu    sync.RWMutex
	state RDIState
}

func NewRecommendedNutrition() *RecommendedNutrition {
	return &RecommendedNutrition{}
}

func (r *RecommendedNutrition) Begin() Ticket {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Generation++
	return Ticket(r.state.Generation)
}

// Apply stores snap under variant and reports whether it was accepted.
func (r *RecommendedNutrition) Apply(t Ticket, variant models.RDIVariant, snap *models.RDISnapshot) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if uint64(t) != r.state.Generation {
		return false
	}
	snap = snap.Clone()
	switch variant {
	case models.RDIToday:
		r.state.Today = snap
	case models.RDIBase:
		r.state.Base = snap
	case models.RDIDate:
		r.state.Date = snap
	case models.RDIWeek:
		r.state.Week = snap
	case models.RDIMonth:
		r.state.Month = snap
	default:
		return false
	}
	return true
}

// SelectDate sets the date the "date" variant is fetched for.
func (r *RecommendedNutrition) SelectDate(d time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.SelectedDate = d
	r.state.Date = nil
}

func (r *RecommendedNutrition) Snapshot() RDIState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

func (r *RecommendedNutrition) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = RDIState{Generation: r.state.Generation + 1}
}
