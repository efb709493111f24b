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

const messageColumns = "id, name, email, subject, body, is_read, created_at"

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(db *database.DB) *MessageRepository {
	return &MessageRepository{pool: db.Pool}
}

func scanMessageRow(scanner rowScanner) (*models.Message, error) {
	var m models.Message
	err := scanner.Scan(
		&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.Read, &m.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &m, nil
}

func (r *MessageRepository) List(ctx context.Context, limit, offset int) ([]*models.Message, error) {
	query := fmt.Sprintf(`SELECT %s FROM messages ORDER BY created_at DESC LIMIT $1 OFFSET $2`, messageColumns)

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*models.Message, 0)
	for rows.Next() {
		msg, err := scanMessageRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return messages, nil
}

func (r *MessageRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	query := fmt.Sprintf(`SELECT %s FROM messages WHERE id = $1`, messageColumns)
	return scanMessageRow(r.pool.QueryRow(ctx, query, id))
}

func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) (*models.Message, error) {
	msg.ID = uuid.New().String()
	msg.CreatedAt = time.Now()

	query := fmt.Sprintf(`
		INSERT INTO messages (id, name, email, subject, body, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s
	`, messageColumns)

	return scanMessageRow(r.pool.QueryRow(ctx, query,
		msg.ID, msg.Name, msg.Email, msg.Subject, msg.Body, msg.Read, msg.CreatedAt,
	))
}

func (r *MessageRepository) MarkRead(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `UPDATE messages SET is_read = true WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
