// Package auth verifies bearer tokens and exposes the caller's identity.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

type (
	userIDCtxKey   struct{}
	usernameCtxKey struct{}
)

var (
	ErrMissingToken     = errors.New("missing bearer token")
	ErrInvalidToken     = errors.New("invalid bearer token")
	ErrUnexpectedMethod = errors.New("unexpected token signing method")
)

// UserIDFromContext retrieves the authenticated user's ID from the context.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDCtxKey{}).(uuid.UUID)
	return id, ok
}

// UsernameFromContext retrieves the authenticated user's name claim from the
// context. Empty when the token carries no username.
func UsernameFromContext(ctx context.Context) string {
	username, _ := ctx.Value(usernameCtxKey{}).(string)
	return username
}

// Middleware verifies HMAC-signed bearer tokens issued by the auth provider
// and stores the subject in the request context.
type Middleware struct {
	secret []byte
	logger *zap.Logger
}

// New creates a new auth middleware.
func New(secret string, logger *zap.Logger) *Middleware {
	return &Middleware{
		secret: []byte(secret),
		logger: logger.Named("auth"),
	}
}

// AsRESTMiddleware authenticates a request before passing it on. Requests
// without a valid token are rejected with 401.
func (m *Middleware) AsRESTMiddleware(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
	return func(w http.ResponseWriter, req bunrouter.Request) error {
		ctx, err := m.authenticate(req.Context(), req.Header.Get("Authorization"))
		if err != nil {
			m.logger.Debug("Rejected request", zap.Error(err))

			w.Header().Set("WWW-Authenticate", "Bearer")
			w.WriteHeader(http.StatusUnauthorized)

			return bunrouter.JSON(w, bunrouter.H{"error": "unauthorized"})
		}

		return next(w, req.WithContext(ctx))
	}
}

// authenticate parses the Authorization header and returns a context carrying
// the verified identity claims.
func (m *Middleware) authenticate(ctx context.Context, header string) (context.Context, error) {
	rawToken, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || rawToken == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.Parse(rawToken, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedMethod, token.Header["alg"])
		}

		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a UUID", ErrInvalidToken)
	}

	ctx = context.WithValue(ctx, userIDCtxKey{}, userID)

	if username, ok := claims["username"].(string); ok {
		ctx = context.WithValue(ctx, usernameCtxKey{}, username)
	}

	return ctx, nil
}
