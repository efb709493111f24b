package services

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/foliohq/folio-api/internal/models"
)

// MockAdminRepository implements AdminRepository for testing
type MockAdminRepository struct {
	GetByIDFunc            func(ctx context.Context, id string) (*models.Admin, error)
	GetByEmailFunc         func(ctx context.Context, email string) (*models.Admin, error)
	RecordLoginFunc        func(ctx context.Context, id, refreshToken string, at time.Time) error
	RotateRefreshTokenFunc func(ctx context.Context, id, oldToken, newToken string) error
	RemoveRefreshTokenFunc func(ctx context.Context, id, refreshToken string) error
	UpdatePasswordFunc     func(ctx context.Context, id, passwordHash string) error
	UpdateProfileFunc      func(ctx context.Context, id, name, email string) (*models.Admin, error)
}

func (m *MockAdminRepository) GetByID(ctx context.Context, id string) (*models.Admin, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockAdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockAdminRepository) RecordLogin(ctx context.Context, id, refreshToken string, at time.Time) error {
	if m.RecordLoginFunc != nil {
		return m.RecordLoginFunc(ctx, id, refreshToken, at)
	}
	return nil
}

func (m *MockAdminRepository) RotateRefreshToken(ctx context.Context, id, oldToken, newToken string) error {
	if m.RotateRefreshTokenFunc != nil {
		return m.RotateRefreshTokenFunc(ctx, id, oldToken, newToken)
	}
	return nil
}

func (m *MockAdminRepository) RemoveRefreshToken(ctx context.Context, id, refreshToken string) error {
	if m.RemoveRefreshTokenFunc != nil {
		return m.RemoveRefreshTokenFunc(ctx, id, refreshToken)
	}
	return nil
}

func (m *MockAdminRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, passwordHash)
	}
	return nil
}

func (m *MockAdminRepository) UpdateProfile(ctx context.Context, id, name, email string) (*models.Admin, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, id, name, email)
	}
	return nil, models.ErrInternalServer
}

// memoryAdminRepo is a stateful in-memory AdminRepository with the same
// refresh-token set semantics as the SQL implementation. Session lifecycle
// tests use it to observe how the token set evolves across operations.
type memoryAdminRepo struct {
	admin *models.Admin
}

func newMemoryAdminRepo(admin *models.Admin) *memoryAdminRepo {
	if admin.RefreshTokens == nil {
		admin.RefreshTokens = []string{}
	}
	return &memoryAdminRepo{admin: admin}
}

func (r *memoryAdminRepo) get(id string) (*models.Admin, error) {
	if r.admin == nil || r.admin.ID != id {
		return nil, models.ErrNotFound
	}
	copied := *r.admin
	copied.RefreshTokens = slices.Clone(r.admin.RefreshTokens)
	return &copied, nil
}

func (r *memoryAdminRepo) GetByID(ctx context.Context, id string) (*models.Admin, error) {
	return r.get(id)
}

func (r *memoryAdminRepo) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	if r.admin == nil || r.admin.Email != strings.ToLower(email) {
		return nil, models.ErrNotFound
	}
	return r.get(r.admin.ID)
}

func (r *memoryAdminRepo) RecordLogin(ctx context.Context, id, refreshToken string, at time.Time) error {
	if r.admin == nil || r.admin.ID != id {
		return models.ErrNotFound
	}
	r.admin.RefreshTokens = append(r.admin.RefreshTokens, refreshToken)
	r.admin.LastLoginAt = &at
	return nil
}

func (r *memoryAdminRepo) RotateRefreshToken(ctx context.Context, id, oldToken, newToken string) error {
	if r.admin == nil || r.admin.ID != id {
		return models.ErrNotFound
	}
	idx := slices.Index(r.admin.RefreshTokens, oldToken)
	if idx < 0 {
		return models.ErrUnauthorized
	}
	r.admin.RefreshTokens = slices.Delete(r.admin.RefreshTokens, idx, idx+1)
	r.admin.RefreshTokens = append(r.admin.RefreshTokens, newToken)
	return nil
}

func (r *memoryAdminRepo) RemoveRefreshToken(ctx context.Context, id, refreshToken string) error {
	if r.admin == nil || r.admin.ID != id {
		return models.ErrNotFound
	}
	if idx := slices.Index(r.admin.RefreshTokens, refreshToken); idx >= 0 {
		r.admin.RefreshTokens = slices.Delete(r.admin.RefreshTokens, idx, idx+1)
	}
	return nil
}

func (r *memoryAdminRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if r.admin == nil || r.admin.ID != id {
		return models.ErrNotFound
	}
	r.admin.PasswordHash = passwordHash
	r.admin.RefreshTokens = []string{}
	return nil
}

func (r *memoryAdminRepo) UpdateProfile(ctx context.Context, id, name, email string) (*models.Admin, error) {
	if r.admin == nil || r.admin.ID != id {
		return nil, models.ErrNotFound
	}
	r.admin.Name = name
	r.admin.Email = strings.ToLower(email)
	return r.get(id)
}
