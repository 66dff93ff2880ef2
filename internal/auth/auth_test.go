package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func signed(t *testing.T, c jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	s := NewFileStore(path)

	got, err := s.Load()
	if err != nil || got != (Tokens{}) {
		t.Fatalf("Load before save = %+v, %v", got, err)
	}

	want := Tokens{AccessToken: "a", RefreshToken: "r"}
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("perm = %o, want 600", perm)
	}

	got, err = s.Load()
	if err != nil || got != want {
		t.Fatalf("Load = %+v, %v; want %+v", got, err, want)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file still exists after Clear")
	}
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}

func TestDecode(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := signed(t, &claims{
		UserID: "u1",
		Email:  "ana@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	id, err := Decode(tok)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if id.UserID != "u1" || id.Email != "ana@example.com" {
		t.Errorf("identity = %+v", id)
	}
	if !id.ExpiresAt.Equal(exp) {
		t.Errorf("ExpiresAt = %v, want %v", id.ExpiresAt, exp)
	}
	if id.Expired(time.Now()) {
		t.Error("token should not be expired yet")
	}
	if !id.Expired(exp.Add(time.Second)) {
		t.Error("token should be expired after exp")
	}
}

func TestDecodeFallsBackToSubject(t *testing.T) {
	tok := signed(t, &claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "sub-7"}})
	id, err := Decode(tok)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if id.UserID != "sub-7" {
		t.Errorf("UserID = %q, want sub-7", id.UserID)
	}
	if id.Expired(time.Now()) {
		t.Error("token without exp should not expire")
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := Decode(""); err != ErrNoToken {
		t.Errorf("empty token err = %v", err)
	}
	if _, err := Decode("not-a-jwt"); err == nil {
		t.Error("garbage token should fail")
	}
}
