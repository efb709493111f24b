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

const technologyColumns = "id, name, category, icon_url, proficiency, display_order, created_at, updated_at"

type TechnologyRepository struct {
	pool *pgxpool.Pool
}

func NewTechnologyRepository(db *database.DB) *TechnologyRepository {
	return &TechnologyRepository{pool: db.Pool}
}

func scanTechnologyRow(scanner rowScanner) (*models.Technology, error) {
	var t models.Technology
	err := scanner.Scan(
		&t.ID, &t.Name, &t.Category, &t.IconURL, &t.Proficiency,
		&t.DisplayOrder, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &t, nil
}

func (r *TechnologyRepository) List(ctx context.Context) ([]*models.Technology, error) {
	query := fmt.Sprintf(`SELECT %s FROM technologies ORDER BY category, display_order`, technologyColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query technologies: %w", err)
	}
	defer rows.Close()

	technologies := make([]*models.Technology, 0)
	for rows.Next() {
		tech, err := scanTechnologyRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan technology: %w", err)
		}
		technologies = append(technologies, tech)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return technologies, nil
}

func (r *TechnologyRepository) Create(ctx context.Context, tech *models.Technology) (*models.Technology, error) {
	tech.ID = uuid.New().String()
	now := time.Now()
	tech.CreatedAt = now
	tech.UpdatedAt = now

	query := fmt.Sprintf(`
		INSERT INTO technologies (id, name, category, icon_url, proficiency, display_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s
	`, technologyColumns)

	return scanTechnologyRow(r.pool.QueryRow(ctx, query,
		tech.ID, tech.Name, tech.Category, tech.IconURL,
		tech.Proficiency, tech.DisplayOrder, tech.CreatedAt, tech.UpdatedAt,
	))
}

func (r *TechnologyRepository) Update(ctx context.Context, id string, tech *models.Technology) (*models.Technology, error) {
	query := fmt.Sprintf(`
		UPDATE technologies
		SET name = $2, category = $3, icon_url = $4, proficiency = $5,
		    display_order = $6, updated_at = now()
		WHERE id = $1
		RETURNING %s
	`, technologyColumns)

	return scanTechnologyRow(r.pool.QueryRow(ctx, query,
		id, tech.Name, tech.Category, tech.IconURL, tech.Proficiency, tech.DisplayOrder,
	))
}

func (r *TechnologyRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM technologies WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
