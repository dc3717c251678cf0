package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/apartment-bureau/landing-service/internal/domain"
)

// ContentRepository reads the display-only landing page entities: services,
// sold properties and team members. They are maintained through the admin
// console and only ever listed on the public site.
type ContentRepository interface {
	ListActiveServices(ctx context.Context) ([]domain.Service, error)
	ListActiveProperties(ctx context.Context, limit int) ([]domain.Property, error)
	ListActiveTeamMembers(ctx context.Context) ([]domain.TeamMember, error)
}

type contentRepository struct {
	pool *pgxpool.Pool
}

// NewContentRepository returns a Postgres-backed implementation.
func NewContentRepository(pool *pgxpool.Pool) ContentRepository {
	return &contentRepository{pool: pool}
}

func (r *contentRepository) ListActiveServices(ctx context.Context) ([]domain.Service, error) {
	const query = `
        SELECT id, title, description, icon_url, display_order, is_active, created_at, updated_at
        FROM services WHERE is_active=TRUE
        ORDER BY display_order, created_at`

	if r.pool == nil {
		return nil, ErrDatabaseUnavailable
	}
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []domain.Service
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(
			&s.ID,
			&s.Title,
			&s.Description,
			&s.IconURL,
			&s.Order,
			&s.IsActive,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (r *contentRepository) ListActiveProperties(ctx context.Context, limit int) ([]domain.Property, error) {
	const query = `
        SELECT id, title, description, location, price, property_type, image_url,
               is_sold, display_order, is_active, created_at, updated_at
        FROM properties WHERE is_active=TRUE
        ORDER BY display_order, created_at DESC
        LIMIT $1`

	if r.pool == nil {
		return nil, ErrDatabaseUnavailable
	}
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []domain.Property
	for rows.Next() {
		var p domain.Property
		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Description,
			&p.Location,
			&p.Price,
			&p.PropertyType,
			&p.ImageURL,
			&p.IsSold,
			&p.Order,
			&p.IsActive,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

func (r *contentRepository) ListActiveTeamMembers(ctx context.Context) ([]domain.TeamMember, error) {
	const query = `
        SELECT id, name, position, photo_url, display_order, is_active, created_at, updated_at
        FROM team_members WHERE is_active=TRUE
        ORDER BY display_order, created_at`

	if r.pool == nil {
		return nil, ErrDatabaseUnavailable
	}
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.TeamMember
	for rows.Next() {
		var m domain.TeamMember
		if err := rows.Scan(
			&m.ID,
			&m.Name,
			&m.Position,
			&m.PhotoURL,
			&m.Order,
			&m.IsActive,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
