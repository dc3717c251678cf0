package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/apartment-bureau/landing-service/internal/domain"
)

// ArticleRepository defines persistence access for blog articles.
type ArticleRepository interface {
	ListPublished(ctx context.Context, limit, offset int) ([]domain.Article, error)
	CountPublished(ctx context.Context) (int, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*domain.Article, error)
	List(ctx context.Context) ([]domain.Article, error)
}

type articleRepository struct {
	pool *pgxpool.Pool
}

// NewArticleRepository returns a Postgres-backed implementation.
func NewArticleRepository(pool *pgxpool.Pool) ArticleRepository {
	return &articleRepository{pool: pool}
}

const articleColumns = `
        id, title, slug, short_description, content, image_url, published_at,
        is_published, display_order, created_at, updated_at`

func (r *articleRepository) ListPublished(ctx context.Context, limit, offset int) ([]domain.Article, error) {
	const query = `
        SELECT` + articleColumns + `
        FROM articles WHERE is_published=TRUE
        ORDER BY published_at DESC
        LIMIT $1 OFFSET $2`

	if r.pool == nil {
		return nil, ErrDatabaseUnavailable
	}
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArticles(rows)
}

func (r *articleRepository) CountPublished(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM articles WHERE is_published=TRUE`

	if r.pool == nil {
		return 0, ErrDatabaseUnavailable
	}
	var count int
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *articleRepository) GetPublishedBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	const query = `
        SELECT` + articleColumns + `
        FROM articles WHERE slug=$1 AND is_published=TRUE`

	if r.pool == nil {
		return nil, ErrDatabaseUnavailable
	}
	var a domain.Article
	if err := r.pool.QueryRow(ctx, query, slug).Scan(
		&a.ID,
		&a.Title,
		&a.Slug,
		&a.ShortDescription,
		&a.Content,
		&a.ImageURL,
		&a.PublishedAt,
		&a.IsPublished,
		&a.Order,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *articleRepository) List(ctx context.Context) ([]domain.Article, error) {
	const query = `
        SELECT` + articleColumns + `
        FROM articles ORDER BY display_order, published_at DESC`

	if r.pool == nil {
		return nil, ErrDatabaseUnavailable
	}
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArticles(rows)
}

func scanArticles(rows pgx.Rows) ([]domain.Article, error) {
	var articles []domain.Article
	for rows.Next() {
		var a domain.Article
		if err := rows.Scan(
			&a.ID,
			&a.Title,
			&a.Slug,
			&a.ShortDescription,
			&a.Content,
			&a.ImageURL,
			&a.PublishedAt,
			&a.IsPublished,
			&a.Order,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}
