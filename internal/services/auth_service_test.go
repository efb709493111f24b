package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/foliohq/folio-api/internal/auth"
	"github.com/foliohq/folio-api/internal/config"
	"github.com/foliohq/folio-api/internal/models"
	pkgauth "github.com/foliohq/folio-api/pkg/auth"
	pkglogger "github.com/foliohq/folio-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAdminID  = "22222222-2222-2222-2222-222222222222"
	testEmail    = "owner@example.com"
	testPassword = "CorrectHorse1"
)

func testTokenManager() *auth.TokenManager {
	return auth.NewTokenManager(config.AuthConfig{
		AccessTokenSecret:  "access-secret-for-tests-0123456789",
		RefreshTokenSecret: "refresh-secret-for-tests-0123456789",
		AccessTokenExpiry:  1 * time.Hour,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
		Issuer:             "folio-api",
		Audience:           "folio-admin",
	})
}

func newTestAdmin(t *testing.T) *models.Admin {
	t.Helper()
	hash, err := pkgauth.HashPassword(testPassword)
	require.NoError(t, err)

	return &models.Admin{
		ID:           testAdminID,
		Email:        testEmail,
		PasswordHash: hash,
		Name:         "Owner",
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
}

func newTestAuthService(repo AdminRepository) *AuthService {
	logger := slog.Default()
	return NewAuthService(repo, testTokenManager(), logger, pkglogger.NewAuditLogger(logger))
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newMemoryAdminRepo(newTestAdmin(t))
	svc := newTestAuthService(repo)

	result, err := svc.Login(context.Background(), testEmail, testPassword, "203.0.113.10")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
	assert.Equal(t, testAdminID, result.Admin.ID)
	assert.Equal(t, models.SessionRoleAdmin, result.Admin.Role)
	assert.NotNil(t, result.Admin.LastLoginAt)

	// The issued refresh token is recorded in the session set
	assert.Contains(t, repo.admin.RefreshTokens, result.Tokens.RefreshToken)
}

func TestAuthService_Login_EmailCaseInsensitive(t *testing.T) {
	repo := newMemoryAdminRepo(newTestAdmin(t))
	svc := newTestAuthService(repo)

	result, err := svc.Login(context.Background(), "Owner@Example.COM", testPassword, "")
	require.NoError(t, err)
	assert.Equal(t, testAdminID, result.Admin.ID)
}

func TestAuthService_Login_IndistinguishableFailures(t *testing.T) {
	// Unknown email, wrong password and inactive account must all fail with
	// the same error so responses cannot be used for account enumeration.
	inactive := newTestAdmin(t)
	inactive.IsActive = false

	tests := []struct {
		name     string
		repo     AdminRepository
		email    string
		password string
	}{
		{"unknown email", newMemoryAdminRepo(newTestAdmin(t)), "nobody@example.com", testPassword},
		{"wrong password", newMemoryAdminRepo(newTestAdmin(t)), testEmail, "WrongPassword1"},
		{"inactive account", newMemoryAdminRepo(inactive), testEmail, testPassword},
		{"empty email", newMemoryAdminRepo(newTestAdmin(t)), "", testPassword},
		{"empty password", newMemoryAdminRepo(newTestAdmin(t)), testEmail, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestAuthService(tt.repo)
			result, err := svc.Login(context.Background(), tt.email, tt.password, "")
			assert.Nil(t, result)
			assert.ErrorIs(t, err, models.ErrInvalidCredentials)
		})
	}
}

func TestAuthService_Refresh_RotatesToken(t *testing.T) {
	repo := newMemoryAdminRepo(newTestAdmin(t))
	svc := newTestAuthService(repo)

	result, err := svc.Login(context.Background(), testEmail, testPassword, "")
	require.NoError(t, err)
	oldToken := result.Tokens.RefreshToken

	pair, err := svc.Refresh(context.Background(), oldToken)
	require.NoError(t, err)
	require.NotNil(t, pair)

	// Old token is gone from the set, the new one replaced it
	assert.NotContains(t, repo.admin.RefreshTokens, oldToken)
	assert.Contains(t, repo.admin.RefreshTokens, pair.RefreshToken)
	assert.Len(t, repo.admin.RefreshTokens, 1)
}

func TestAuthService_Refresh_SingleUse(t *testing.T) {
	repo := newMemoryAdminRepo(newTestAdmin(t))
	svc := newTestAuthService(repo)

	result, err := svc.Login(context.Background(), testEmail, testPassword, "")
	require.NoError(t, err)
	oldToken := result.Tokens.RefreshToken

	_, err = svc.Refresh(context.Background(), oldToken)
	require.NoError(t, err)

	// Replaying the consumed token must fail even though its signature is valid
	pair, err := svc.Refresh(context.Background(), oldToken)
	assert.Nil(t, pair)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestAuthService_Refresh_SessionIsolation(t *testing.T) {
	repo := newMemoryAdminRepo(newTestAdmin(t))
	svc := newTestAuthService(repo)

	// Two independent sessions
	first, err := svc.Login(context.Background(), testEmail, testPassword, "")
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), testEmail, testPassword, "")
	require.NoError(t, err)

	// Rotating the first session leaves the second usable
	_, err = svc.Refresh(context.Background(), first.Tokens.RefreshToken)
	require.NoError(t, err)

	pair, err := svc.Refresh(context.Background(), second.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotNil(t, pair)
}

func TestAuthService_Refresh_EmptyToken(t *testing.T) {
	svc := newTestAuthService(newMemoryAdminRepo(newTestAdmin(t)))

	pair, err := svc.Refresh(context.Background(), "")
	assert.Nil(t, pair)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestAuthService_Refresh_GarbageToken(t *testing.T) {
	svc := newTestAuthService(newMemoryAdminRepo(newTestAdmin(t)))

	pair, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.Nil(t, pair)
	assert.ErrorIs(t, err, models.ErrTokenInvalid)
}

func TestAuthService_Refresh_ExpiredToken(t *testing.T) {
	expiredTM := auth.NewTokenManager(config.AuthConfig{
		AccessTokenSecret:  "access-secret-for-tests-0123456789",
		RefreshTokenSecret: "refresh-secret-for-tests-0123456789",
		AccessTokenExpiry:  1 * time.Hour,
		RefreshTokenExpiry: -1 * time.Minute,
		Issuer:             "folio-api",
		Audience:           "folio-admin",
	})

	admin := newTestAdmin(t)
	token, err := expiredTM.IssueRefreshToken(admin)
	require.NoError(t, err)

	svc := newTestAuthService(newMemoryAdminRepo(admin))
	pair, err := svc.Refresh(context.Background(), token)
	assert.Nil(t, pair)
	assert.ErrorIs(t, err, models.ErrTokenExpired)
}

func TestAuthService_Refresh_InactiveAdmin(t *testing.T) {
	repo := newMemoryAdminRepo(newTestAdmin(t))
	svc := newTestAuthService(repo)

	result, err := svc.Login(context.Background(), testEmail, testPassword, "")
	require.NoError(t, err)

	// Account deactivated after the session was opened
	repo.admin.IsActive = false

	pair, err := svc.Refresh(context.Background(), result.Tokens.RefreshToken)
	assert.Nil(t, pair)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestAuthService_Logout_RemovesOnlyGivenToken(t *testing.T) {
	repo := newMemoryAdminRepo(newTestAdmin(t))
	svc := newTestAuthService(repo)

	first, err := svc.Login(context.Background(), testEmail, testPassword, "")
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), testEmail, testPassword, "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), testAdminID, first.Tokens.RefreshToken))

	assert.NotContains(t, repo.admin.RefreshTokens, first.Tokens.RefreshToken)
	assert.Contains(t, repo.admin.RefreshTokens, second.Tokens.RefreshToken)
}

func TestAuthService_Logout_Idempotent(t *testing.T) {
	repo := newMemoryAdminRepo(newTestAdmin(t))
	svc := newTestAuthService(repo)

	result, err := svc.Login(context.Background(), testEmail, testPassword, "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), testAdminID, result.Tokens.RefreshToken))
	require.NoError(t, svc.Logout(context.Background(), testAdminID, result.Tokens.RefreshToken))
	require.NoError(t, svc.Logout(context.Background(), testAdminID, ""))
}

func TestAuthService_Logout_SwallowsRepositoryError(t *testing.T) {
	repo := &MockAdminRepository{
		RemoveRefreshTokenFunc: func(ctx context.Context, id, refreshToken string) error {
			return models.ErrInternalServer
		},
	}
	svc := newTestAuthService(repo)

	assert.NoError(t, svc.Logout(context.Background(), testAdminID, "some-token"))
}

func TestAuthService_Profile(t *testing.T) {
	repo := newMemoryAdminRepo(newTestAdmin(t))
	svc := newTestAuthService(repo)

	profile, err := svc.Profile(context.Background(), testAdminID)
	require.NoError(t, err)
	assert.Equal(t, testAdminID, profile.ID)
	assert.Equal(t, testEmail, profile.Email)
	assert.Equal(t, models.SessionRoleAdmin, profile.Role)
}

func TestAuthService_Profile_NotFound(t *testing.T) {
	svc := newTestAuthService(&MockAdminRepository{})

	profile, err := svc.Profile(context.Background(), "missing")
	assert.Nil(t, profile)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAuthService_UpdateProfile_EmptyFieldsKeepCurrent(t *testing.T) {
	repo := newMemoryAdminRepo(newTestAdmin(t))
	svc := newTestAuthService(repo)

	profile, err := svc.UpdateProfile(context.Background(), testAdminID, "New Name", "")
	require.NoError(t, err)
	assert.Equal(t, "New Name", profile.Name)
	assert.Equal(t, testEmail, profile.Email)
}

func TestAuthService_UpdateProfile_EmailConflict(t *testing.T) {
	admin := newTestAdmin(t)
	repo := &MockAdminRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Admin, error) {
			return admin, nil
		},
		UpdateProfileFunc: func(ctx context.Context, id, name, email string) (*models.Admin, error) {
			return nil, models.ErrConflict
		},
	}
	svc := newTestAuthService(repo)

	profile, err := svc.UpdateProfile(context.Background(), testAdminID, "", "taken@example.com")
	assert.Nil(t, profile)
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestAuthService_ChangePassword_Success(t *testing.T) {
	repo := newMemoryAdminRepo(newTestAdmin(t))
	svc := newTestAuthService(repo)

	// Open two sessions first; both must be revoked by the change
	_, err := svc.Login(context.Background(), testEmail, testPassword, "")
	require.NoError(t, err)
	_, err = svc.Login(context.Background(), testEmail, testPassword, "")
	require.NoError(t, err)
	require.Len(t, repo.admin.RefreshTokens, 2)

	err = svc.ChangePassword(context.Background(), testAdminID, testPassword, "BrandNewPass1", "")
	require.NoError(t, err)

	assert.Empty(t, repo.admin.RefreshTokens, "password change must revoke every session")

	// The old password no longer works, the new one does
	_, err = svc.Login(context.Background(), testEmail, testPassword, "")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	result, err := svc.Login(context.Background(), testEmail, "BrandNewPass1", "")
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestAuthService_ChangePassword_WrongCurrent(t *testing.T) {
	repo := newMemoryAdminRepo(newTestAdmin(t))
	svc := newTestAuthService(repo)

	err := svc.ChangePassword(context.Background(), testAdminID, "WrongPassword1", "BrandNewPass1", "")
	assert.ErrorIs(t, err, models.ErrWrongPassword)
}

func TestAuthService_ChangePassword_WeakNewPassword(t *testing.T) {
	repo := newMemoryAdminRepo(newTestAdmin(t))
	svc := newTestAuthService(repo)

	tests := []struct {
		name     string
		password string
	}{
		{"too short", "Ab1"},
		{"no uppercase", "lowercase1234"},
		{"no lowercase", "UPPERCASE1234"},
		{"no digit", "NoDigitsHere"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ChangePassword(context.Background(), testAdminID, testPassword, tt.password, "")
			require.Error(t, err)

			var pwErr *pkgauth.PasswordValidationError
			assert.ErrorAs(t, err, &pwErr)

			// The stored hash is untouched on rejection
			_, loginErr := svc.Login(context.Background(), testEmail, testPassword, "")
			assert.NoError(t, loginErr)
		})
	}
}
