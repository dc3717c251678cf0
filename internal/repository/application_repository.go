package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/apartment-bureau/landing-service/internal/domain"
)

// ApplicationRepository defines persistence access for contact requests.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	MarkSentToTelegram(ctx context.Context, id string) error
	RecordTelegramError(ctx context.Context, id, message string) error
	UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) error
	List(ctx context.Context) ([]domain.Application, error)
}

type applicationRepository struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository returns a Postgres-backed implementation.
func NewApplicationRepository(pool *pgxpool.Pool) ApplicationRepository {
	return &applicationRepository{pool: pool}
}

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	const query = `
        INSERT INTO applications (name, phone, message, status)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	if r.pool == nil {
		return ErrDatabaseUnavailable
	}
	if app.Status == "" {
		app.Status = domain.ApplicationStatusNew
	}
	return r.pool.QueryRow(ctx, query,
		app.Name,
		app.Phone,
		app.Message,
		app.Status,
	).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
}

func (r *applicationRepository) MarkSentToTelegram(ctx context.Context, id string) error {
	const query = `
        UPDATE applications SET is_sent_to_telegram=TRUE, telegram_error='', updated_at=NOW()
        WHERE id=$1`

	return r.exec(ctx, query, id)
}

func (r *applicationRepository) RecordTelegramError(ctx context.Context, id, message string) error {
	const query = `
        UPDATE applications SET telegram_error=$1, updated_at=NOW() WHERE id=$2`

	return r.exec(ctx, query, message, id)
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) error {
	const query = `
        UPDATE applications SET status=$1, updated_at=NOW() WHERE id=$2`

	return r.exec(ctx, query, status, id)
}

func (r *applicationRepository) List(ctx context.Context) ([]domain.Application, error) {
	const query = `
        SELECT id, name, phone, message, status, is_sent_to_telegram, telegram_error, created_at, updated_at
        FROM applications ORDER BY created_at DESC`

	if r.pool == nil {
		return nil, ErrDatabaseUnavailable
	}
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		var app domain.Application
		if err := rows.Scan(
			&app.ID,
			&app.Name,
			&app.Phone,
			&app.Message,
			&app.Status,
			&app.IsSentToTelegram,
			&app.TelegramError,
			&app.CreatedAt,
			&app.UpdatedAt,
		); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

func (r *applicationRepository) exec(ctx context.Context, query string, args ...any) error {
	if r.pool == nil {
		return ErrDatabaseUnavailable
	}
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
