package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/foliohq/folio-api/internal/auth"
	"github.com/foliohq/folio-api/internal/models"
	"github.com/foliohq/folio-api/internal/services"
	pkghttp "github.com/foliohq/folio-api/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithPrincipal attaches an authenticated admin to the request context
func WithPrincipal(req *http.Request, admin *models.Admin) *http.Request {
	principal := &auth.Principal{
		Claims: &auth.Claims{
			AdminID: admin.ID,
			Email:   admin.Email,
			Role:    models.SessionRoleFor(admin.Role),
		},
		Admin: admin,
	}
	return req.WithContext(auth.ContextWithPrincipal(req.Context(), principal))
}

// TestPrincipalAdmin returns an active admin for authenticated-request tests
func TestPrincipalAdmin() *models.Admin {
	now := time.Now()
	return &models.Admin{
		ID:        "33333333-3333-3333-3333-333333333333",
		Email:     "owner@example.com",
		Name:      "Owner",
		Role:      models.RoleAdmin,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithChiID injects an {id} URL parameter into the chi route context
func WithChiID(req *http.Request, id string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

// DecodeEnvelope asserts the response status and JSON content type, then
// returns the decoded response envelope.
func DecodeEnvelope(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int) pkghttp.Envelope {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "response status mismatch")
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var envelope pkghttp.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

// EnvelopeData re-marshals the envelope's data field into target
func EnvelopeData(t *testing.T, envelope pkghttp.Envelope, target interface{}) {
	t.Helper()
	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, target))
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	LoginFunc          func(ctx context.Context, email, password, ipAddress string) (*services.LoginResult, error)
	RefreshFunc        func(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	LogoutFunc         func(ctx context.Context, adminID, refreshToken string) error
	ProfileFunc        func(ctx context.Context, adminID string) (*services.AdminProfile, error)
	UpdateProfileFunc  func(ctx context.Context, adminID, name, email string) (*services.AdminProfile, error)
	ChangePasswordFunc func(ctx context.Context, adminID, currentPassword, newPassword, ipAddress string) error
}

func (m *MockAuthService) Login(ctx context.Context, email, password, ipAddress string) (*services.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password, ipAddress)
	}
	return nil, models.ErrInvalidCredentials
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return nil, models.ErrUnauthorized
}

func (m *MockAuthService) Logout(ctx context.Context, adminID, refreshToken string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, adminID, refreshToken)
	}
	return nil
}

func (m *MockAuthService) Profile(ctx context.Context, adminID string) (*services.AdminProfile, error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx, adminID)
	}
	return nil, models.ErrNotFound
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, adminID, name, email string) (*services.AdminProfile, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, adminID, name, email)
	}
	return nil, models.ErrInternalServer
}

func (m *MockAuthService) ChangePassword(ctx context.Context, adminID, currentPassword, newPassword, ipAddress string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, adminID, currentPassword, newPassword, ipAddress)
	}
	return models.ErrInternalServer
}
