package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/apartment-bureau/landing-service/internal/domain"
)

// SubscriberRepository defines persistence access for Telegram subscribers.
// Writes are idempotent upserts keyed by the external chat id, so the relay
// never needs locking beyond the storage engine's row-level guarantees.
type SubscriberRepository interface {
	Upsert(ctx context.Context, sub *domain.Subscriber) error
	ListActive(ctx context.Context) ([]domain.Subscriber, error)
	List(ctx context.Context) ([]domain.Subscriber, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type subscriberRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriberRepository returns a Postgres-backed implementation.
func NewSubscriberRepository(pool *pgxpool.Pool) SubscriberRepository {
	return &subscriberRepository{pool: pool}
}

func (r *subscriberRepository) Upsert(ctx context.Context, sub *domain.Subscriber) error {
	const query = `
        INSERT INTO telegram_subscribers (chat_id, username, first_name, last_name, is_active)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (chat_id) DO UPDATE
        SET username=$2, first_name=$3, last_name=$4, is_active=$5, updated_at=NOW()
        RETURNING id, created_at, updated_at`

	if r.pool == nil {
		return ErrDatabaseUnavailable
	}
	return r.pool.QueryRow(ctx, query,
		sub.ChatID,
		sub.Username,
		sub.FirstName,
		sub.LastName,
		sub.IsActive,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
}

func (r *subscriberRepository) ListActive(ctx context.Context) ([]domain.Subscriber, error) {
	const query = `
        SELECT id, chat_id, username, first_name, last_name, is_active, created_at, updated_at
        FROM telegram_subscribers WHERE is_active=TRUE ORDER BY created_at DESC`

	return r.scanList(ctx, query)
}

func (r *subscriberRepository) List(ctx context.Context) ([]domain.Subscriber, error) {
	const query = `
        SELECT id, chat_id, username, first_name, last_name, is_active, created_at, updated_at
        FROM telegram_subscribers ORDER BY created_at DESC`

	return r.scanList(ctx, query)
}

func (r *subscriberRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `
        UPDATE telegram_subscribers SET is_active=$1, updated_at=NOW() WHERE id=$2`

	if r.pool == nil {
		return ErrDatabaseUnavailable
	}
	cmd, err := r.pool.Exec(ctx, query, active, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *subscriberRepository) scanList(ctx context.Context, query string) ([]domain.Subscriber, error) {
	if r.pool == nil {
		return nil, ErrDatabaseUnavailable
	}
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []domain.Subscriber
	for rows.Next() {
		var sub domain.Subscriber
		if err := rows.Scan(
			&sub.ID,
			&sub.ChatID,
			&sub.Username,
			&sub.FirstName,
			&sub.LastName,
			&sub.IsActive,
			&sub.CreatedAt,
			&sub.UpdatedAt,
		); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
