package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/trade-docs-api/internal/domain"
	jwtinfra "github.com/trade-docs-api/internal/infrastructure/jwt"
	"github.com/trade-docs-api/internal/transport/http/middleware"
)

// --- mocks ---

type mockLifecycleService struct{ mock.Mock }

func (m *mockLifecycleService) Decide(ctx context.Context, applicationID, reviewerID, decision, comment string) (*domain.Application, error) {
	args := m.Called(ctx, applicationID, reviewerID, decision, comment)
	if a, _ := args.Get(0).(*domain.Application); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockLifecycleService) Modify(ctx context.Context, applicationID, userID, newDetails string) (*domain.Application, error) {
	args := m.Called(ctx, applicationID, userID, newDetails)
	if a, _ := args.Get(0).(*domain.Application); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockLifecycleService) List(ctx context.Context, role domain.Role, userID string) ([]domain.Application, error) {
	args := m.Called(ctx, role, userID)
	return args.Get(0).([]domain.Application), args.Error(1)
}
func (m *mockLifecycleService) ListComments(ctx context.Context, applicationID string) ([]domain.ApplicationComment, error) {
	args := m.Called(ctx, applicationID)
	return args.Get(0).([]domain.ApplicationComment), args.Error(1)
}

// --- helpers ---

func newDecideRequest(t *testing.T, applicationID, body string, role domain.Role) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, "/applications/"+applicationID+"/decision", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", applicationID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)

	claims := &jwtinfra.Claims{UserID: "dca1", Email: "dca@example.com", Role: role}
	ctx = context.WithValue(ctx, middleware.ClaimsKey, claims)
	return req.WithContext(ctx)
}

// --- Decide tests ---

func TestDecide_NoClaims(t *testing.T) {
	h := NewApplicationHandler(&mockLifecycleService{}, nil)

	req := httptest.NewRequest(http.MethodPut, "/applications/a1/decision", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	h.Decide(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestDecide_MissingStatus(t *testing.T) {
	h := NewApplicationHandler(&mockLifecycleService{}, nil)

	rr := httptest.NewRecorder()
	h.Decide(rr, newDecideRequest(t, "a1", `{"comment":"looks fine"}`, domain.RoleDCA))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDecide_InvalidStateMapsTo400(t *testing.T) {
	svc := &mockLifecycleService{}
	svc.On("Decide", mock.Anything, "a1", "dca1", "APPROVED", "ok").
		Return(nil, domain.ErrInvalidState)
	h := NewApplicationHandler(svc, nil)

	rr := httptest.NewRecorder()
	h.Decide(rr, newDecideRequest(t, "a1", `{"status":"APPROVED","comment":"ok"}`, domain.RoleDCA))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertExpectations(t)
}

func TestDecide_NotFoundMapsTo404(t *testing.T) {
	svc := &mockLifecycleService{}
	svc.On("Decide", mock.Anything, "missing", "dca1", "DECLINED", "no").
		Return(nil, domain.ErrNotFound)
	h := NewApplicationHandler(svc, nil)

	rr := httptest.NewRecorder()
	h.Decide(rr, newDecideRequest(t, "missing", `{"status":"DECLINED","comment":"no"}`, domain.RoleDCA))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDecide_HappyPath(t *testing.T) {
	svc := &mockLifecycleService{}
	svc.On("Decide", mock.Anything, "a1", "dca1", "APPROVED", "all documents in order").
		Return(&domain.Application{ApplicationID: "a1", Status: domain.StatusApproved}, nil)
	h := NewApplicationHandler(svc, nil)

	rr := httptest.NewRecorder()
	h.Decide(rr, newDecideRequest(t, "a1", `{"status":"APPROVED","comment":"all documents in order"}`, domain.RoleDCA))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"APPROVED"`)
	svc.AssertExpectations(t)
}

// --- Modify tests ---

func TestModify_ForbiddenMapsTo403(t *testing.T) {
	svc := &mockLifecycleService{}
	svc.On("Modify", mock.Anything, "a1", "dca1", "new details").
		Return(nil, domain.ErrForbidden)
	h := NewApplicationHandler(svc, nil)

	req := newDecideRequest(t, "a1", `{"new_details":"new details"}`, domain.RoleExporter)
	rr := httptest.NewRecorder()
	h.Modify(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

// --- List tests ---

func TestList_PassesCallerScope(t *testing.T) {
	svc := &mockLifecycleService{}
	svc.On("List", mock.Anything, domain.RoleDCA, "dca1").
		Return([]domain.Application{{ApplicationID: "a1", Status: domain.StatusPending}}, nil)
	h := NewApplicationHandler(svc, nil)

	req := newDecideRequest(t, "a1", "", domain.RoleDCA)
	rr := httptest.NewRecorder()
	h.List(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"PENDING"`)
	svc.AssertExpectations(t)
}
