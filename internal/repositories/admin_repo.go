package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/foliohq/folio-api/internal/database"
	"github.com/foliohq/folio-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const adminColumns = "id, email, password_hash, name, role, is_active, last_login_at, refresh_tokens, created_at, updated_at"

type AdminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(db *database.DB) *AdminRepository {
	return &AdminRepository{pool: db.Pool}
}

// rowScanner interface for scanning admin rows (single row or result set)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAdminRow(scanner rowScanner) (*models.Admin, error) {
	var admin models.Admin
	var lastLoginAt *time.Time

	err := scanner.Scan(
		&admin.ID, &admin.Email, &admin.PasswordHash, &admin.Name,
		&admin.Role, &admin.IsActive, &lastLoginAt, &admin.RefreshTokens,
		&admin.CreatedAt, &admin.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	admin.LastLoginAt = lastLoginAt
	return &admin, nil
}

func (r *AdminRepository) GetByID(ctx context.Context, id string) (*models.Admin, error) {
	query := fmt.Sprintf(`SELECT %s FROM admins WHERE id = $1`, adminColumns)
	return scanAdminRow(r.pool.QueryRow(ctx, query, id))
}

// GetByEmail looks up an admin by its lowercased email.
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	query := fmt.Sprintf(`SELECT %s FROM admins WHERE email = $1`, adminColumns)
	return scanAdminRow(r.pool.QueryRow(ctx, query, strings.ToLower(email)))
}

func (r *AdminRepository) List(ctx context.Context) ([]*models.Admin, error) {
	query := fmt.Sprintf(`SELECT %s FROM admins ORDER BY created_at`, adminColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query admins: %w", err)
	}
	defer rows.Close()

	admins := make([]*models.Admin, 0)
	for rows.Next() {
		admin, err := scanAdminRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan admin: %w", err)
		}
		admins = append(admins, admin)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return admins, nil
}

func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) (*models.Admin, error) {
	admin.ID = uuid.New().String()
	admin.Email = strings.ToLower(admin.Email)

	now := time.Now()
	admin.CreatedAt = now
	admin.UpdatedAt = now

	if admin.Role == "" {
		admin.Role = models.RoleAdmin
	}
	if admin.RefreshTokens == nil {
		admin.RefreshTokens = []string{}
	}

	query := fmt.Sprintf(`
		INSERT INTO admins (id, email, password_hash, name, role, is_active, refresh_tokens, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s
	`, adminColumns)

	return scanAdminRow(r.pool.QueryRow(ctx, query,
		admin.ID, admin.Email, admin.PasswordHash, admin.Name,
		admin.Role, admin.IsActive, admin.RefreshTokens,
		admin.CreatedAt, admin.UpdatedAt,
	))
}

// RecordLogin appends a freshly issued refresh token and stamps the login
// time in a single update.
func (r *AdminRepository) RecordLogin(ctx context.Context, id, refreshToken string, at time.Time) error {
	query := `
		UPDATE admins
		SET refresh_tokens = array_append(refresh_tokens, $2),
		    last_login_at = $3,
		    updated_at = now()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, refreshToken, at)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// RotateRefreshToken removes the consumed token and appends the replacement
// in one atomic statement. The WHERE membership check makes the token
// single-use: a replayed or already-rotated token affects zero rows and
// surfaces as ErrUnauthorized.
func (r *AdminRepository) RotateRefreshToken(ctx context.Context, id, oldToken, newToken string) error {
	query := `
		UPDATE admins
		SET refresh_tokens = array_append(array_remove(refresh_tokens, $2), $3),
		    updated_at = now()
		WHERE id = $1 AND $2 = ANY(refresh_tokens)
	`

	result, err := r.pool.Exec(ctx, query, id, oldToken, newToken)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrUnauthorized
	}
	return nil
}

// RemoveRefreshToken drops a single token from the set. Removing a token
// that is already gone is not an error; logout is idempotent.
func (r *AdminRepository) RemoveRefreshToken(ctx context.Context, id, refreshToken string) error {
	query := `
		UPDATE admins
		SET refresh_tokens = array_remove(refresh_tokens, $2),
		    updated_at = now()
		WHERE id = $1
	`

	if _, err := r.pool.Exec(ctx, query, id, refreshToken); err != nil {
		return database.MapPostgresError(err)
	}
	return nil
}

// UpdatePassword stores the new hash and clears every refresh token, forcing
// re-login on all sessions.
func (r *AdminRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `
		UPDATE admins
		SET password_hash = $2,
		    refresh_tokens = '{}',
		    updated_at = now()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// UpdateProfile mutates name and email only; tokens are untouched.
func (r *AdminRepository) UpdateProfile(ctx context.Context, id, name, email string) (*models.Admin, error) {
	query := fmt.Sprintf(`
		UPDATE admins
		SET name = $2, email = $3, updated_at = now()
		WHERE id = $1
		RETURNING %s
	`, adminColumns)

	return scanAdminRow(r.pool.QueryRow(ctx, query, id, name, strings.ToLower(email)))
}
