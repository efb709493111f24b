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

const projectColumns = "id, title, slug, description, technologies, image_url, live_url, repo_url, featured, display_order, created_at, updated_at"

type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(db *database.DB) *ProjectRepository {
	return &ProjectRepository{pool: db.Pool}
}

func scanProjectRow(scanner rowScanner) (*models.Project, error) {
	var p models.Project
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.Technologies,
		&p.ImageURL, &p.LiveURL, &p.RepoURL, &p.Featured, &p.DisplayOrder,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &p, nil
}

func (r *ProjectRepository) List(ctx context.Context, featuredOnly bool) ([]*models.Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM projects ORDER BY display_order, created_at DESC`, projectColumns)
	if featuredOnly {
		query = fmt.Sprintf(`SELECT %s FROM projects WHERE featured ORDER BY display_order, created_at DESC`, projectColumns)
	}

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	projects := make([]*models.Project, 0)
	for rows.Next() {
		project, err := scanProjectRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return projects, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM projects WHERE id = $1`, projectColumns)
	return scanProjectRow(r.pool.QueryRow(ctx, query, id))
}

func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	project.ID = uuid.New().String()
	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now
	if project.Technologies == nil {
		project.Technologies = []string{}
	}

	query := fmt.Sprintf(`
		INSERT INTO projects (id, title, slug, description, technologies, image_url, live_url, repo_url, featured, display_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING %s
	`, projectColumns)

	return scanProjectRow(r.pool.QueryRow(ctx, query,
		project.ID, project.Title, project.Slug, project.Description,
		project.Technologies, project.ImageURL, project.LiveURL, project.RepoURL,
		project.Featured, project.DisplayOrder, project.CreatedAt, project.UpdatedAt,
	))
}

func (r *ProjectRepository) Update(ctx context.Context, id string, project *models.Project) (*models.Project, error) {
	query := fmt.Sprintf(`
		UPDATE projects
		SET title = $2, slug = $3, description = $4, technologies = $5,
		    image_url = $6, live_url = $7, repo_url = $8, featured = $9,
		    display_order = $10, updated_at = now()
		WHERE id = $1
		RETURNING %s
	`, projectColumns)

	return scanProjectRow(r.pool.QueryRow(ctx, query,
		id, project.Title, project.Slug, project.Description, project.Technologies,
		project.ImageURL, project.LiveURL, project.RepoURL, project.Featured,
		project.DisplayOrder,
	))
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
