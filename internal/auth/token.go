package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/foliohq/folio-api/internal/config"
	"github.com/foliohq/folio-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the payload embedded in both access and refresh tokens. The role
// is the session role, not the stored role.
type Claims struct {
	AdminID string             `json:"admin_id"`
	Email   string             `json:"email"`
	Role    models.SessionRole `json:"role"`
	jwt.RegisteredClaims
}

// TokenPair is the result of a login or refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenManager issues and verifies JWT access and refresh tokens. Access and
// refresh tokens are signed with distinct secrets so a leaked secret for one
// kind cannot forge the other.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	issuer        string
	audience      string
}

// NewTokenManager creates a TokenManager from the injected auth configuration.
func NewTokenManager(cfg config.AuthConfig) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessExpiry:  cfg.AccessTokenExpiry,
		refreshExpiry: cfg.RefreshTokenExpiry,
		issuer:        cfg.Issuer,
		audience:      cfg.Audience,
	}
}

func (tm *TokenManager) sign(admin *models.Admin, secret []byte, expiry time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := &Claims{
		AdminID: admin.ID,
		Email:   admin.Email,
		Role:    models.SessionRoleFor(admin.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   admin.ID,
			Issuer:    tm.issuer,
			Audience:  jwt.ClaimStrings{tm.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// IssueAccessToken creates a short-lived signed access token.
func (tm *TokenManager) IssueAccessToken(admin *models.Admin) (string, error) {
	return tm.sign(admin, tm.accessSecret, tm.accessExpiry)
}

// IssueRefreshToken creates a long-lived signed refresh token.
func (tm *TokenManager) IssueRefreshToken(admin *models.Admin) (string, error) {
	return tm.sign(admin, tm.refreshSecret, tm.refreshExpiry)
}

// IssuePair issues an access/refresh token pair for the given admin.
func (tm *TokenManager) IssuePair(admin *models.Admin) (*TokenPair, error) {
	accessToken, err := tm.IssueAccessToken(admin)
	if err != nil {
		return nil, err
	}
	refreshToken, err := tm.IssueRefreshToken(admin)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (tm *TokenManager) verify(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tm.issuer),
		jwt.WithAudience(tm.audience),
	)
	if err != nil {
		// Expired is the only failure the caller may report distinctly;
		// everything else collapses to invalid.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, models.ErrTokenExpired
		}
		return nil, models.ErrTokenInvalid
	}

	if !token.Valid {
		return nil, models.ErrTokenInvalid
	}

	return claims, nil
}

// VerifyAccessToken validates signature, expiry, issuer and audience of an
// access token, returning its claims. Fails with models.ErrTokenExpired or
// models.ErrTokenInvalid.
func (tm *TokenManager) VerifyAccessToken(tokenString string) (*Claims, error) {
	return tm.verify(tokenString, tm.accessSecret)
}

// VerifyRefreshToken validates a refresh token the same way, against the
// refresh secret.
func (tm *TokenManager) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return tm.verify(tokenString, tm.refreshSecret)
}

// ExtractBearerToken returns the token portion of an "Authorization: Bearer
// <token>" header value. ok is false when the prefix is absent.
func ExtractBearerToken(header string) (token string, ok bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
