package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/apartment-bureau/landing-service/internal/repository"
)

// databaselessContentService builds the service over repositories with no
// connection pool, the state the process runs in when POSTGRES_DSN is unset.
func databaselessContentService() *ContentService {
	return NewContentService(
		repository.NewContentRepository(nil),
		repository.NewArticleRepository(nil),
		zap.NewNop(),
	)
}

func TestLandingDegradesWithoutDatabase(t *testing.T) {
	svc := databaselessContentService()

	page := svc.Landing(context.Background())

	assert.Empty(t, page.Services)
	assert.Empty(t, page.TeamMembers)
	assert.Empty(t, page.Properties)
	assert.Empty(t, page.Articles)
}

func TestArticlesWithoutDatabase(t *testing.T) {
	svc := databaselessContentService()

	_, err := svc.Articles(context.Background(), 1, 10)
	require.Error(t, err)
}

func TestArticleWithoutDatabase(t *testing.T) {
	svc := databaselessContentService()

	_, err := svc.Article(context.Background(), "some-slug")
	require.Error(t, err)
}
