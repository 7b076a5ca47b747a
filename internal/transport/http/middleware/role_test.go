package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/trade-docs-api/internal/domain"
	jwtinfra "github.com/trade-docs-api/internal/infrastructure/jwt"
)

func requestWithRole(role domain.Role) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	claims := &jwtinfra.Claims{UserID: "u1", Role: role}
	ctx := context.WithValue(req.Context(), ClaimsKey, claims)
	return req.WithContext(ctx)
}

func TestRequireRole_NoClaims(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	RequireRole(domain.RoleAdmin)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireRole_WrongRole(t *testing.T) {
	rr := httptest.NewRecorder()
	RequireRole(domain.RoleDCA)(http.HandlerFunc(okHandler)).ServeHTTP(rr, requestWithRole(domain.RoleExporter))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRequireRole_AllowedRole(t *testing.T) {
	rr := httptest.NewRecorder()
	RequireRole(domain.RoleExporter, domain.RoleImporter)(http.HandlerFunc(okHandler)).ServeHTTP(rr, requestWithRole(domain.RoleImporter))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireRole_AdminOnly(t *testing.T) {
	rr := httptest.NewRecorder()
	RequireRole(domain.RoleAdmin)(http.HandlerFunc(okHandler)).ServeHTTP(rr, requestWithRole(domain.RoleDCA))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
