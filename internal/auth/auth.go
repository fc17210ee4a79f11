// Package auth is the entry gate: a session is either valid or the
// request is turned away entirely. No partial or read-only mode exists.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/srithedesigner/bunniesBurger/internal/common/httpx"
	"github.com/srithedesigner/bunniesBurger/internal/common/logger"
	"github.com/srithedesigner/bunniesBurger/internal/store"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	store store.SessionStore
	ttl   time.Duration
	log   *logger.Logger
}

func New(s store.SessionStore, ttl time.Duration, log *logger.Logger) *Service {
	return &Service{store: s, ttl: ttl, log: log}
}

// Login verifies the credentials and opens a session. There is no retry
// counter and no lockout.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	staffID, hash, ok, err := s.store.StaffByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("look up staff: %w", err)
	}
	if !ok {
		return "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	token := uuid.NewString()
	if err := s.store.InsertSession(ctx, token, staffID, time.Now().UTC().Add(s.ttl)); err != nil {
		return "", fmt.Errorf("open session: %w", err)
	}
	s.log.Info("session_opened", map[string]any{"username": username})
	return token, nil
}

// Validate reports whether the session token is active.
func (s *Service) Validate(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	expires, ok, err := s.store.SessionExpiry(ctx, token)
	if err != nil {
		return false, fmt.Errorf("look up session: %w", err)
	}
	return ok && time.Now().UTC().Before(expires), nil
}

// Middleware denies any request without a valid session.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, err := s.Validate(r.Context(), bearerToken(r))
		if err != nil {
			s.log.Error("session_check_failed", err, nil)
			httpx.WriteProblem(w, http.StatusInternalServerError, "session_check_failed", "could not verify session")
			return
		}
		if !ok {
			httpx.WriteProblem(w, http.StatusUnauthorized, "no_session", "a valid session is required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.Header.Get("X-Session-Token")
}
