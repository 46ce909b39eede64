package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okValidator(claims *Claims) TokenValidator {
	return func(token string) (*Claims, error) {
		if token != "good-token" {
			return nil, errors.New("invalid token")
		}
		return claims, nil
	}
}

func echoUserHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-User-ID", UserIDFromContext(r.Context()))
		w.Header().Set("X-Role", RoleFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_ValidToken(t *testing.T) {
	claims := &Claims{UserID: "user-1", Role: "customer"}
	handler := Auth(okValidator(claims))(echoUserHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", rec.Header().Get("X-User-ID"))
	assert.Equal(t, "customer", rec.Header().Get("X-Role"))
}

func TestAuth_MissingHeader(t *testing.T) {
	handler := Auth(okValidator(&Claims{}))(echoUserHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_MalformedHeader(t *testing.T) {
	handler := Auth(okValidator(&Claims{}))(echoUserHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	handler := Auth(okValidator(&Claims{}))(echoUserHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	handler := OptionalAuth(okValidator(&Claims{}))(echoUserHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-User-ID"))
}

func TestOptionalAuth_ValidTokenInjectsClaims(t *testing.T) {
	claims := &Claims{UserID: "admin-1", Role: "admin"}
	handler := OptionalAuth(okValidator(claims))(echoUserHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin-1", rec.Header().Get("X-User-ID"))
	assert.Equal(t, "admin", rec.Header().Get("X-Role"))
}

func TestOptionalAuth_InvalidTokenRejected(t *testing.T) {
	handler := OptionalAuth(okValidator(&Claims{}))(echoUserHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole_Allowed(t *testing.T) {
	handler := RequireRole("admin")(echoUserHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUser(req.Context(), "admin-1", "admin"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_Forbidden(t *testing.T) {
	handler := RequireRole("admin")(echoUserHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUser(req.Context(), "user-1", "customer"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_AnonymousForbidden(t *testing.T) {
	handler := RequireRole("admin")(echoUserHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
