package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/foliohq/folio-api/internal/auth"
	"github.com/foliohq/folio-api/internal/models"
	pkgauth "github.com/foliohq/folio-api/pkg/auth"
	pkglogger "github.com/foliohq/folio-api/pkg/logger"
)

// AdminRepository defines the credential-store operations the session
// lifecycle depends on.
type AdminRepository interface {
	GetByID(ctx context.Context, id string) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	RecordLogin(ctx context.Context, id, refreshToken string, at time.Time) error
	RotateRefreshToken(ctx context.Context, id, oldToken, newToken string) error
	RemoveRefreshToken(ctx context.Context, id, refreshToken string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateProfile(ctx context.Context, id, name, email string) (*models.Admin, error)
}

// AuthService orchestrates login, refresh, logout and profile/password
// mutations. It is the only component that writes Admin records.
type AuthService struct {
	repo        AdminRepository
	tm          *auth.TokenManager
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewAuthService creates a new AuthService
func NewAuthService(repo AdminRepository, tm *auth.TokenManager, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *AuthService {
	return &AuthService{
		repo:        repo,
		tm:          tm,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// AdminProfile is the public view of an admin; the password hash and the
// refresh-token set are never part of it. Role is the session role.
type AdminProfile struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	Role        models.SessionRole `json:"role"`
	IsActive    *bool              `json:"isActive,omitempty"`
	LastLoginAt *time.Time         `json:"lastLoginAt,omitempty"`
	CreatedAt   *time.Time         `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time         `json:"updatedAt,omitempty"`
}

// LoginResult carries the issued pair plus the public profile view.
type LoginResult struct {
	Admin  *AdminProfile   `json:"admin"`
	Tokens *auth.TokenPair `json:"tokens"`
}

// Login authenticates by email and password and opens a new session. Lookup
// misses, inactive accounts and password mismatches all collapse into
// ErrInvalidCredentials so responses cannot be used for account enumeration.
func (s *AuthService) Login(ctx context.Context, email, password, ipAddress string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, models.ErrInvalidCredentials
	}

	admin, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
				EventType:     "login_failed",
				IPAddress:     ipAddress,
				FailureReason: "invalid_credentials",
				Success:       false,
			})
			return nil, models.ErrInvalidCredentials
		}
		s.logger.Error("failed to get admin by email", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if !admin.IsActive {
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			AdminID:       admin.ID,
			IPAddress:     ipAddress,
			FailureReason: "account_inactive",
			Success:       false,
		})
		return nil, models.ErrInvalidCredentials
	}

	if err := pkgauth.ComparePassword(admin.PasswordHash, password); err != nil {
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			AdminID:       admin.ID,
			IPAddress:     ipAddress,
			FailureReason: "invalid_credentials",
			Success:       false,
		})
		return nil, models.ErrInvalidCredentials
	}

	pair, err := s.tm.IssuePair(admin)
	if err != nil {
		s.logger.Error("failed to issue token pair", slog.String("admin_id", admin.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	now := time.Now()
	if err := s.repo.RecordLogin(ctx, admin.ID, pair.RefreshToken, now); err != nil {
		s.logger.Error("failed to record login", slog.String("admin_id", admin.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	admin.LastLoginAt = &now

	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "login_success",
		AdminID:   admin.ID,
		IPAddress: ipAddress,
		Success:   true,
	})

	return &LoginResult{
		Admin: &AdminProfile{
			ID:          admin.ID,
			Name:        admin.Name,
			Email:       admin.Email,
			Role:        models.SessionRoleFor(admin.Role),
			LastLoginAt: admin.LastLoginAt,
		},
		Tokens: pair,
	}, nil
}

// Refresh exchanges a valid, unconsumed refresh token for a new pair. The
// old token is removed and the new one appended in a single atomic update,
// so a token can be consumed exactly once even under concurrent calls.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, models.ErrUnauthorized
	}

	claims, err := s.tm.VerifyRefreshToken(refreshToken)
	if err != nil {
		// Expired vs invalid is preserved for the response message
		return nil, err
	}

	admin, err := s.repo.GetByID(ctx, claims.AdminID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to get admin for refresh", slog.String("admin_id", claims.AdminID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if !admin.IsActive {
		s.auditLogger.LogSessionAction("refresh_blocked_inactive", admin.ID, "", nil)
		return nil, models.ErrUnauthorized
	}

	pair, err := s.tm.IssuePair(admin)
	if err != nil {
		s.logger.Error("failed to issue token pair", slog.String("admin_id", admin.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := s.repo.RotateRefreshToken(ctx, admin.ID, refreshToken, pair.RefreshToken); err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			// Token signature is fine but it is no longer in the stored set:
			// replay of a rotated or revoked token.
			s.auditLogger.LogSessionAction("refresh_replay_rejected", admin.ID, "", nil)
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to rotate refresh token", slog.String("admin_id", admin.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.auditLogger.LogSessionAction("token_refreshed", admin.ID, "", nil)
	return pair, nil
}

// Logout removes one refresh token from the caller's session set. Removing
// an already-gone token is still a success; logout never fails the caller.
func (s *AuthService) Logout(ctx context.Context, adminID, refreshToken string) error {
	if refreshToken = strings.TrimSpace(refreshToken); refreshToken == "" {
		return nil
	}

	if err := s.repo.RemoveRefreshToken(ctx, adminID, refreshToken); err != nil {
		// Logged but swallowed: logout must not fail the caller-visible flow
		s.logger.Error("failed to remove refresh token", slog.String("admin_id", adminID), slog.Any("error", err))
		return nil
	}

	s.auditLogger.LogSessionAction("logout", adminID, "", nil)
	return nil
}

// Profile returns the public view of the admin record.
func (s *AuthService) Profile(ctx context.Context, adminID string) (*AdminProfile, error) {
	admin, err := s.repo.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get admin profile", slog.String("admin_id", adminID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	createdAt := admin.CreatedAt
	return &AdminProfile{
		ID:          admin.ID,
		Name:        admin.Name,
		Email:       admin.Email,
		Role:        models.SessionRoleFor(admin.Role),
		LastLoginAt: admin.LastLoginAt,
		CreatedAt:   &createdAt,
	}, nil
}

// UpdateProfile mutates name and/or email; tokens are untouched. Empty
// fields keep their current value.
func (s *AuthService) UpdateProfile(ctx context.Context, adminID, name, email string) (*AdminProfile, error) {
	admin, err := s.repo.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get admin for profile update", slog.String("admin_id", adminID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if name = strings.TrimSpace(name); name == "" {
		name = admin.Name
	}
	if email = strings.ToLower(strings.TrimSpace(email)); email == "" {
		email = admin.Email
	}

	updated, err := s.repo.UpdateProfile(ctx, adminID, name, email)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to update profile", slog.String("admin_id", adminID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.auditLogger.LogSessionAction("profile_updated", adminID, "", map[string]string{
		"email": pkglogger.SanitizedEmail(updated.Email),
	})

	return &AdminProfile{
		ID:    updated.ID,
		Name:  updated.Name,
		Email: updated.Email,
		Role:  models.SessionRoleFor(updated.Role),
	}, nil
}

// ChangePassword verifies the current password, stores the new hash and
// clears every refresh token, invalidating all other sessions system-wide.
// A wrong current password is a business-rule failure, not an authentication
// failure; the caller already holds a valid session.
func (s *AuthService) ChangePassword(ctx context.Context, adminID, currentPassword, newPassword, ipAddress string) error {
	admin, err := s.repo.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to get admin for password change", slog.String("admin_id", adminID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := pkgauth.ComparePassword(admin.PasswordHash, currentPassword); err != nil {
		s.auditLogger.LogPasswordChange(adminID, ipAddress, false)
		return models.ErrWrongPassword
	}

	if err := pkgauth.ValidatePassword(newPassword); err != nil {
		return err
	}

	newHash, err := pkgauth.HashPassword(newPassword)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.repo.UpdatePassword(ctx, adminID, newHash); err != nil {
		s.logger.Error("failed to update password", slog.String("admin_id", adminID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.auditLogger.LogPasswordChange(adminID, ipAddress, true)
	return nil
}
