package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/memegrid/memegrid/internal/rest/middleware/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	return signed
}

func runRequest(t *testing.T, authHeader string) (*httptest.ResponseRecorder, uuid.UUID, string, bool) {
	t.Helper()

	middleware := auth.New(testSecret, zap.NewNop())

	var (
		gotUserID   uuid.UUID
		gotUsername string
		called      bool
	)

	handler := middleware.AsRESTMiddleware(func(w http.ResponseWriter, req bunrouter.Request) error {
		called = true
		gotUserID, _ = auth.UserIDFromContext(req.Context())
		gotUsername = auth.UsernameFromContext(req.Context())

		w.WriteHeader(http.StatusOK)

		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/feed", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	rec := httptest.NewRecorder()
	err := handler(rec, bunrouter.NewRequest(req))
	require.NoError(t, err)

	return rec, gotUserID, gotUsername, called
}

func TestValidToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":      userID.String(),
		"username": "memelord",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	rec, gotUserID, gotUsername, called := runRequest(t, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
	assert.Equal(t, userID, gotUserID)
	assert.Equal(t, "memelord", gotUsername)
}

func TestMissingToken(t *testing.T) {
	t.Parallel()

	rec, _, _, called := runRequest(t, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestWrongSecret(t *testing.T) {
	t.Parallel()

	token := signToken(t, "other-secret", jwt.MapClaims{
		"sub": uuid.New().String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	rec, _, _, called := runRequest(t, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestExpiredToken(t *testing.T) {
	t.Parallel()

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": uuid.New().String(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	rec, _, _, called := runRequest(t, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestNonUUIDSubject(t *testing.T) {
	t.Parallel()

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "not-a-uuid",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	rec, _, _, called := runRequest(t, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}
