package handler

import (
	"encoding/json"
	"loan-engine/internal/api/handler/dto"
	"loan-engine/internal/config"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandlerGenerateBearerToken(t *testing.T) {
	cfg := config.AuthConfig{JWTSecret: "test-secret"}

	t.Run("issues a signed token", func(t *testing.T) {
		h := NewAuthHandler(cfg, logger)
		issued := time.Now()
		h.now = func() time.Time { return issued }

		rec := httptest.NewRecorder()
		h.GenerateBearerToken(rec, httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{"username":"ops"}`)))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp dto.TokenResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.True(t, strings.HasPrefix(resp.Token, "Bearer "))

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(resp.Token, "Bearer "), claims,
			func(*jwt.Token) (interface{}, error) { return []byte("test-secret"), nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		require.NoError(t, err)
		assert.True(t, token.Valid)
		assert.Equal(t, "ops", claims["username"])
		assert.Equal(t, float64(issued.Add(24*time.Hour).Unix()), claims["exp"])
	})

	t.Run("username is required", func(t *testing.T) {
		h := NewAuthHandler(cfg, logger)

		rec := httptest.NewRecorder()
		h.GenerateBearerToken(rec, httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{"username":""}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "username", decodeError(t, rec).Field)
	})

	t.Run("malformed body", func(t *testing.T) {
		h := NewAuthHandler(cfg, logger)

		rec := httptest.NewRecorder()
		h.GenerateBearerToken(rec, httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`not json`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_ARGUMENT", decodeError(t, rec).Code)
	})
}
