package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/apartment-bureau/landing-service/internal/domain"
	"github.com/apartment-bureau/landing-service/internal/repository"
	apperrors "github.com/apartment-bureau/landing-service/pkg/util"
)

const (
	landingPropertiesLimit = 3
	landingArticlesLimit   = 3
	defaultArticlesPerPage = 10
)

// LandingPage aggregates everything the public index shows.
type LandingPage struct {
	Services    []domain.Service
	TeamMembers []domain.TeamMember
	Properties  []domain.Property
	Articles    []domain.Article
}

// ArticlePage is one page of the published article listing.
type ArticlePage struct {
	Articles []domain.Article
	Page     int
	PageSize int
	Total    int
}

// ContentService reads the public site content.
type ContentService struct {
	content  repository.ContentRepository
	articles repository.ArticleRepository
	logger   *zap.Logger
}

// NewContentService builds the service.
func NewContentService(content repository.ContentRepository, articles repository.ArticleRepository, logger *zap.Logger) *ContentService {
	return &ContentService{content: content, articles: articles, logger: logger}
}

// Landing returns the index page data. A fresh deployment may not have a
// reachable or migrated database yet; the page degrades to empty sections
// instead of failing.
func (s *ContentService) Landing(ctx context.Context) LandingPage {
	page := LandingPage{}

	var err error
	if page.Services, err = s.content.ListActiveServices(ctx); err != nil {
		s.logger.Warn("failed to load services", zap.Error(err))
	}
	if page.TeamMembers, err = s.content.ListActiveTeamMembers(ctx); err != nil {
		s.logger.Warn("failed to load team members", zap.Error(err))
	}
	if page.Properties, err = s.content.ListActiveProperties(ctx, landingPropertiesLimit); err != nil {
		s.logger.Warn("failed to load properties", zap.Error(err))
	}
	if page.Articles, err = s.articles.ListPublished(ctx, landingArticlesLimit, 0); err != nil {
		s.logger.Warn("failed to load articles", zap.Error(err))
	}

	return page
}

// Articles returns one page of published articles, newest first.
func (s *ContentService) Articles(ctx context.Context, page, pageSize int) (*ArticlePage, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultArticlesPerPage
	}

	total, err := s.articles.CountPublished(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	articles, err := s.articles.ListPublished(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	return &ArticlePage{Articles: articles, Page: page, PageSize: pageSize, Total: total}, nil
}

// Article returns one published article by slug.
func (s *ContentService) Article(ctx context.Context, slug string) (*domain.Article, error) {
	article, err := s.articles.GetPublishedBySlug(ctx, slug)
	if err == pgx.ErrNoRows {
		return nil, apperrors.NewNotFound("article", map[string]any{"slug": slug})
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return article, nil
}
