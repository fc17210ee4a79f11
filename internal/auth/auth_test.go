package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/srithedesigner/bunniesBurger/internal/common/logger"
)

type fakeSessions struct {
	username string
	hash     string
	sessions map[string]time.Time
}

func (f *fakeSessions) StaffByUsername(_ context.Context, username string) (int, string, bool, error) {
	if username != f.username {
		return 0, "", false, nil
	}
	return 1, f.hash, true, nil
}

func (f *fakeSessions) InsertSession(_ context.Context, token string, _ int, expiresAt time.Time) error {
	if f.sessions == nil {
		f.sessions = make(map[string]time.Time)
	}
	f.sessions[token] = expiresAt
	return nil
}

func (f *fakeSessions) SessionExpiry(_ context.Context, token string) (time.Time, bool, error) {
	at, ok := f.sessions[token]
	return at, ok, nil
}

func newService(t *testing.T) (*Service, *fakeSessions) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	fake := &fakeSessions{username: "alex", hash: string(hash)}
	return New(fake, time.Hour, logger.New("test")), fake
}

func TestLoginAndValidate(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	token, err := svc.Login(ctx, "alex", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	ok, err := svc.Validate(ctx, token)
	if err != nil || !ok {
		t.Fatalf("Validate(%q) = %v, %v", token, ok, err)
	}
	if ok, _ := svc.Validate(ctx, "bogus"); ok {
		t.Error("bogus token validated")
	}
}

func TestLoginRejections(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.Login(ctx, "alex", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v", err)
	}
	if _, err := svc.Login(ctx, "nobody", "hunter2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user error = %v", err)
	}
}

func TestExpiredSession(t *testing.T) {
	svc, fake := newService(t)
	fake.sessions = map[string]time.Time{"old": time.Now().UTC().Add(-time.Minute)}

	if ok, _ := svc.Validate(context.Background(), "old"); ok {
		t.Error("expired session validated")
	}
}

func TestMiddleware(t *testing.T) {
	svc, _ := newService(t)
	token, err := svc.Login(context.Background(), "alex", "hunter2")
	if err != nil {
		t.Fatal(err)
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	handler := svc.Middleware(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tables", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/tables", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("valid token: status = %d, want 204", rec.Code)
	}
}
