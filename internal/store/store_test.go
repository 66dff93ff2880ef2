package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/koriwi/nutriplan-cli/internal/auth"
	"github.com/koriwi/nutriplan-cli/internal/models"
)

func meal(id, original string) models.Meal {
	m := models.Meal{ID: id, Name: id, OriginalMealID: original}
	m.Resolve()
	return m
}

func ids(items []models.Meal) []string {
	out := make([]string, len(items))
	for i, m := range items {
		out[i] = m.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestReduce(t *testing.T) {
	base := []models.Meal{meal("a", ""), meal("b", ""), meal("cb", "c")}

	tests := []struct {
		name   string
		action Action[models.Meal]
		want   []string
	}{
		{"add new", Add(meal("d", "")), []string{"a", "b", "cb", "d"}},
		{"add existing key replaces", Add(meal("b", "")), []string{"a", "b", "cb"}},
		{"remove by id", Remove[models.Meal]("a"), []string{"b", "cb"}},
		{"remove by original id", Remove[models.Meal]("c"), []string{"a", "b"}},
		{"remove unknown", Remove[models.Meal]("zz"), []string{"a", "b", "cb"}},
		{"replace original with copy", Replace("b", meal("bcopy", "b")), []string{"a", "bcopy", "cb"}},
		{"replace unknown appends", Replace("zz", meal("e", "")), []string{"a", "b", "cb", "e"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reduce(base, tt.action)
			if !equal(ids(got), tt.want) {
				t.Errorf("got %v, want %v", ids(got), tt.want)
			}
			if !equal(ids(base), []string{"a", "b", "cb"}) {
				t.Errorf("input mutated: %v", ids(base))
			}
		})
	}
}

func TestCollectionSnapshotsAreImmutable(t *testing.T) {
	c := NewCollection[models.Meal]()
	first := c.Set([]models.Meal{meal("a", "")})
	if !first.Loaded || first.Version != 1 {
		t.Errorf("first = %+v", first)
	}

	second := c.Dispatch(Add(meal("b", "")))
	third := c.Dispatch(Remove[models.Meal]("a"))

	if !equal(ids(first.Items), []string{"a"}) {
		t.Errorf("first changed: %v", ids(first.Items))
	}
	if !equal(ids(second.Items), []string{"a", "b"}) {
		t.Errorf("second = %v", ids(second.Items))
	}
	if !equal(ids(third.Items), []string{"b"}) || third.Version != 3 {
		t.Errorf("third = %v v%d", ids(third.Items), third.Version)
	}
	if !c.Snapshot().Contains("b") || c.Snapshot().Contains("a") {
		t.Error("Contains mismatch")
	}

	c.Reset()
	if s := c.Snapshot(); s.Loaded || len(s.Items) != 0 {
		t.Errorf("after reset = %+v", s)
	}
}

func TestSnapshotFindMatchesCopies(t *testing.T) {
	s := Snapshot[models.Meal]{Items: []models.Meal{meal("copy1", "orig1")}}
	m, ok := s.Find("orig1")
	if !ok || m.ID != "copy1" {
		t.Errorf("Find(orig1) = %v, %v", m.ID, ok)
	}
	if s.Contains("") {
		t.Error("empty id must never match")
	}
}

type memTokens struct {
	t       auth.Tokens
	cleared bool
}

func (m *memTokens) Save(t auth.Tokens) error   { m.t = t; return nil }
func (m *memTokens) Load() (auth.Tokens, error) { return m.t, nil }
func (m *memTokens) Clear() error               { m.t = auth.Tokens{}; m.cleared = true; return nil }

func token(t *testing.T, uid string, exp time.Time) string {
	t.Helper()
	c := jwt.MapClaims{"userId": uid, "email": uid + "@example.com", "exp": exp.Unix()}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("k"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSessionLoginLogout(t *testing.T) {
	ts := auth.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	s := NewSession(ts)
	if s.Authenticated() {
		t.Fatal("new session should not be authenticated")
	}

	tok := token(t, "u1", time.Now().Add(time.Hour))
	if err := s.Login(auth.Tokens{AccessToken: tok, RefreshToken: "r"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !s.Authenticated() || s.Identity().UserID != "u1" {
		t.Errorf("identity = %+v", s.Identity())
	}

	restored := NewSession(ts)
	if err := restored.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.Identity().Email != "u1@example.com" {
		t.Errorf("restored identity = %+v", restored.Identity())
	}

	if err := s.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if s.Authenticated() {
		t.Error("still authenticated after logout")
	}
	if saved, _ := ts.Load(); saved.AccessToken != "" {
		t.Error("token file not cleared")
	}
}

func TestSessionRestoreDropsExpiredWithoutRefresh(t *testing.T) {
	mem := &memTokens{t: auth.Tokens{AccessToken: token(t, "u1", time.Now().Add(-time.Hour))}}
	s := NewSession(mem)
	if err := s.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if s.Authenticated() || !mem.cleared {
		t.Error("expired token without refresh token should be discarded")
	}

	mem = &memTokens{t: auth.Tokens{AccessToken: token(t, "u1", time.Now().Add(-time.Hour)), RefreshToken: "r"}}
	s = NewSession(mem)
	if err := s.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !s.Authenticated() {
		t.Error("expired token with refresh token should be kept")
	}
}

func TestRecommendedNutritionDropsStaleResults(t *testing.T) {
	r := NewRecommendedNutrition()
	old := r.Begin()
	fresh := r.Begin()

	newer := &models.RDISnapshot{Variant: models.RDIToday, Nutrients: []models.Nutrient{{Name: models.NutrientProtein, Value: 10}}}
	stale := &models.RDISnapshot{Variant: models.RDIToday, Nutrients: []models.Nutrient{{Name: models.NutrientProtein, Value: 99}}}

	if !r.Apply(fresh, models.RDIToday, newer) {
		t.Fatal("fresh result rejected")
	}
	if r.Apply(old, models.RDIToday, stale) {
		t.Fatal("stale result accepted")
	}
	if got := r.Snapshot().Today.Nutrients[0].Value; got != 10 {
		t.Errorf("today protein = %v, want 10", got)
	}

	newer.Nutrients[0].Value = 55
	if got := r.Snapshot().Today.Nutrients[0].Value; got != 10 {
		t.Error("store shares memory with the caller's snapshot")
	}

	r.Reset()
	if r.Apply(fresh, models.RDIBase, newer) {
		t.Error("results from before Reset should be dropped")
	}
}

func TestAppClear(t *testing.T) {
	mem := &memTokens{}
	app := NewApp(mem)
	app.Meals.Set([]models.Meal{meal("a", "")})
	if err := app.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if len(app.Meals.Snapshot().Items) != 0 || !mem.cleared {
		t.Error("Clear should empty stores and the token file")
	}
}
