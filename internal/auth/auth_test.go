package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLocalStoreSignUpAndLogIn(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	created, err := store.SignUp(ctx, "ada@example.com", "difference-engine", "Ada")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if created.Email != "ada@example.com" || created.DisplayName != "Ada" {
		t.Errorf("session = %+v", created)
	}
	if !created.Valid() {
		t.Error("fresh session not valid")
	}

	// Email comparison is case-insensitive.
	if _, err := store.SignUp(ctx, "ADA@example.com", "other", "Ada"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate signup err = %v, want ErrEmailTaken", err)
	}

	logged, err := store.LogIn(ctx, "Ada@Example.com", "difference-engine")
	if err != nil {
		t.Fatalf("LogIn: %v", err)
	}
	if logged.UserID != created.UserID {
		t.Errorf("login UserID = %q, want %q", logged.UserID, created.UserID)
	}

	if _, err := store.LogIn(ctx, "ada@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := store.LogIn(ctx, "nobody@example.com", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLocalStoreValidation(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	if _, err := store.SignUp(ctx, "", "pw", ""); !errors.Is(err, ErrEmptyEmail) {
		t.Errorf("err = %v, want ErrEmptyEmail", err)
	}
	if _, err := store.LogIn(ctx, "a@b.c", ""); !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("err = %v, want ErrEmptyPassword", err)
	}
}

func TestSessionCache(t *testing.T) {
	dir := t.TempDir()

	// No session yet.
	s, err := CurrentSession(dir)
	if err != nil || s != nil {
		t.Fatalf("CurrentSession empty dir = %v, %v; want nil, nil", s, err)
	}

	want := &Session{
		UserID:    "u1",
		Email:     "ada@example.com",
		Token:     "tok",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := SaveSession(dir, want); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	got, err := CurrentSession(dir)
	if err != nil {
		t.Fatalf("CurrentSession: %v", err)
	}
	if got == nil || got.UserID != "u1" || got.Token != "tok" {
		t.Errorf("CurrentSession = %+v", got)
	}

	if err := ClearSession(dir); err != nil {
		t.Fatalf("ClearSession: %v", err)
	}
	if s, _ := CurrentSession(dir); s != nil {
		t.Error("session survived ClearSession")
	}
	// Clearing again is fine.
	if err := ClearSession(dir); err != nil {
		t.Errorf("second ClearSession: %v", err)
	}
}

func TestExpiredSessionDropped(t *testing.T) {
	dir := t.TempDir()

	expired := &Session{
		UserID:    "u1",
		Email:     "ada@example.com",
		Token:     "tok",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if err := SaveSession(dir, expired); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	s, err := CurrentSession(dir)
	if err != nil {
		t.Fatalf("CurrentSession: %v", err)
	}
	if s != nil {
		t.Errorf("expired session returned: %+v", s)
	}
}

// providerStub fakes the identity provider REST surface.
func providerStub(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding request: %v", err)
		}

		writeErr := func(msg string) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{"code": 400, "message": msg},
			})
		}

		switch r.URL.Path {
		case "/v1/accounts:signUp":
			if body["email"] == "taken@example.com" {
				writeErr("EMAIL_EXISTS")
				return
			}
			json.NewEncoder(w).Encode(map[string]string{
				"localId":     "new-user",
				"email":       body["email"],
				"displayName": body["displayName"],
				"idToken":     "signup-token",
				"expiresIn":   "3600",
			})
		case "/v1/accounts:signInWithPassword":
			if body["password"] != "correct" {
				writeErr("INVALID_PASSWORD")
				return
			}
			json.NewEncoder(w).Encode(map[string]string{
				"localId":   "user-1",
				"email":     body["email"],
				"idToken":   "login-token",
				"expiresIn": "3600",
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestClientSignUp(t *testing.T) {
	srv := providerStub(t)
	defer srv.Close()

	c := NewClient(srv.URL+"/v1", WithAPIKey("test-key"))
	ctx := context.Background()

	s, err := c.SignUp(ctx, "ada@example.com", "pw", "Ada")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if s.UserID != "new-user" || s.Token != "signup-token" {
		t.Errorf("session = %+v", s)
	}
	if !s.Valid() {
		t.Error("remote session not valid")
	}

	if _, err := c.SignUp(ctx, "taken@example.com", "pw", ""); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("err = %v, want ErrEmailTaken", err)
	}
}

func TestClientLogIn(t *testing.T) {
	srv := providerStub(t)
	defer srv.Close()

	c := NewClient(srv.URL + "/v1")
	ctx := context.Background()

	s, err := c.LogIn(ctx, "ada@example.com", "correct")
	if err != nil {
		t.Fatalf("LogIn: %v", err)
	}
	if s.Token != "login-token" {
		t.Errorf("token = %q", s.Token)
	}

	if _, err := c.LogIn(ctx, "ada@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestClientProviderDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.LogIn(context.Background(), "ada@example.com", "pw")
	if err == nil {
		t.Fatal("expected error from failing provider")
	}
	// Failure is generic, not one of the credential sentinels.
	if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrEmailTaken) {
		t.Errorf("provider failure mapped to credential error: %v", err)
	}
}
