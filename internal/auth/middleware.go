// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/streamrank/internal/logging"
	"github.com/tomtom215/streamrank/internal/models"
)

// Middleware attaches the authenticated user to the request context.
type Middleware struct {
	manager *JWTManager
}

// NewMiddleware creates the middleware. A nil manager disables
// authentication.
func NewMiddleware(manager *JWTManager) *Middleware {
	return &Middleware{manager: manager}
}

// Enabled reports whether tokens are verified.
func (m *Middleware) Enabled() bool {
	return m.manager != nil
}

// Optional lets anonymous requests through and attaches the user when a
// valid token is present. A token that fails verification is rejected
// rather than silently downgraded to anonymous.
func (m *Middleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.manager == nil {
			next.ServeHTTP(w, r)
			return
		}
		userID, err := m.manager.Authenticate(r)
		switch {
		case errors.Is(err, ErrNoCredentials):
			next.ServeHTTP(w, r)
		case err != nil:
			unauthorized(w, r, err)
		default:
			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), userID)))
		}
	})
}

// Required rejects requests without a valid token.
func (m *Middleware) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.manager == nil {
			unauthorized(w, r, ErrAuthDisabled)
			return
		}
		userID, err := m.manager.Authenticate(r)
		if err != nil {
			unauthorized(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), userID)))
	})
}

// UserID returns the authenticated user of the request, or "" for an
// anonymous caller.
func UserID(ctx context.Context) string {
	return logging.UserIDFromContext(ctx)
}

func withUser(ctx context.Context, userID string) context.Context {
	return logging.ContextWithUserID(ctx, userID)
}

func unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	logging.Ctx(r.Context()).Debug().Err(err).Msg("Authentication failed")

	message := "Authentication required"
	switch {
	case errors.Is(err, ErrExpiredCredentials):
		message = "Token expired"
	case errors.Is(err, ErrInvalidCredentials):
		message = "Invalid token"
	case errors.Is(err, ErrAuthDisabled):
		message = "Authentication is not configured"
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="streamrank"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(&models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now()},
		Error: &models.APIError{
			Code:    "AUTHENTICATION_ERROR",
			Message: message,
		},
	})
}
