package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/foliohq/folio-api/internal/database"
	"github.com/foliohq/folio-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Experience and education entries share the same shape and lifecycle, so
// both repositories live here.

const experienceColumns = "id, company, position, summary, start_date, end_date, display_order, created_at, updated_at"

type ExperienceRepository struct {
	pool *pgxpool.Pool
}

func NewExperienceRepository(db *database.DB) *ExperienceRepository {
	return &ExperienceRepository{pool: db.Pool}
}

func scanExperienceRow(scanner rowScanner) (*models.Experience, error) {
	var e models.Experience
	var endDate *time.Time
	err := scanner.Scan(
		&e.ID, &e.Company, &e.Position, &e.Summary, &e.StartDate, &endDate,
		&e.DisplayOrder, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	e.EndDate = endDate
	return &e, nil
}

func (r *ExperienceRepository) List(ctx context.Context) ([]*models.Experience, error) {
	query := fmt.Sprintf(`SELECT %s FROM experience ORDER BY display_order, start_date DESC`, experienceColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query experience: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.Experience, 0)
	for rows.Next() {
		entry, err := scanExperienceRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return entries, nil
}

func (r *ExperienceRepository) Create(ctx context.Context, entry *models.Experience) (*models.Experience, error) {
	entry.ID = uuid.New().String()
	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	query := fmt.Sprintf(`
		INSERT INTO experience (id, company, position, summary, start_date, end_date, display_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s
	`, experienceColumns)

	return scanExperienceRow(r.pool.QueryRow(ctx, query,
		entry.ID, entry.Company, entry.Position, entry.Summary,
		entry.StartDate, entry.EndDate, entry.DisplayOrder,
		entry.CreatedAt, entry.UpdatedAt,
	))
}

func (r *ExperienceRepository) Update(ctx context.Context, id string, entry *models.Experience) (*models.Experience, error) {
	query := fmt.Sprintf(`
		UPDATE experience
		SET company = $2, position = $3, summary = $4, start_date = $5,
		    end_date = $6, display_order = $7, updated_at = now()
		WHERE id = $1
		RETURNING %s
	`, experienceColumns)

	return scanExperienceRow(r.pool.QueryRow(ctx, query,
		id, entry.Company, entry.Position, entry.Summary,
		entry.StartDate, entry.EndDate, entry.DisplayOrder,
	))
}

func (r *ExperienceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM experience WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

const educationColumns = "id, institution, degree, field, start_date, end_date, display_order, created_at, updated_at"

type EducationRepository struct {
	pool *pgxpool.Pool
}

func NewEducationRepository(db *database.DB) *EducationRepository {
	return &EducationRepository{pool: db.Pool}
}

func scanEducationRow(scanner rowScanner) (*models.Education, error) {
	var e models.Education
	var endDate *time.Time
	err := scanner.Scan(
		&e.ID, &e.Institution, &e.Degree, &e.Field, &e.StartDate, &endDate,
		&e.DisplayOrder, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	e.EndDate = endDate
	return &e, nil
}

func (r *EducationRepository) List(ctx context.Context) ([]*models.Education, error) {
	query := fmt.Sprintf(`SELECT %s FROM education ORDER BY display_order, start_date DESC`, educationColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query education: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.Education, 0)
	for rows.Next() {
		entry, err := scanEducationRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan education: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return entries, nil
}

func (r *EducationRepository) Create(ctx context.Context, entry *models.Education) (*models.Education, error) {
	entry.ID = uuid.New().String()
	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	query := fmt.Sprintf(`
		INSERT INTO education (id, institution, degree, field, start_date, end_date, display_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s
	`, educationColumns)

	return scanEducationRow(r.pool.QueryRow(ctx, query,
		entry.ID, entry.Institution, entry.Degree, entry.Field,
		entry.StartDate, entry.EndDate, entry.DisplayOrder,
		entry.CreatedAt, entry.UpdatedAt,
	))
}

func (r *EducationRepository) Update(ctx context.Context, id string, entry *models.Education) (*models.Education, error) {
	query := fmt.Sprintf(`
		UPDATE education
		SET institution = $2, degree = $3, field = $4, start_date = $5,
		    end_date = $6, display_order = $7, updated_at = now()
		WHERE id = $1
		RETURNING %s
	`, educationColumns)

	return scanEducationRow(r.pool.QueryRow(ctx, query,
		id, entry.Institution, entry.Degree, entry.Field,
		entry.StartDate, entry.EndDate, entry.DisplayOrder,
	))
}

func (r *EducationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM education WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
