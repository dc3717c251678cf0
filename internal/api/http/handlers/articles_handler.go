package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/apartment-bureau/landing-service/internal/api/dto"
	"github.com/apartment-bureau/landing-service/internal/service"
)

// ArticlesHandler serves the public article pages.
type ArticlesHandler struct {
	content *service.ContentService
}

// NewArticlesHandler constructs handler.
func NewArticlesHandler(content *service.ContentService) *ArticlesHandler {
	return &ArticlesHandler{content: content}
}

// List handles GET /articles.
func (h *ArticlesHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 10)

	result, err := h.content.Articles(c.Context(), page, pageSize)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": mapArticleSummaries(result.Articles),
		"meta": fiber.Map{
			"page":      result.Page,
			"page_size": result.PageSize,
			"total":     result.Total,
		},
	})
}

// Detail handles GET /articles/:slug.
func (h *ArticlesHandler) Detail(c *fiber.Ctx) error {
	article, err := h.content.Article(c.Context(), c.Params("slug"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.ArticleResponse{
			ArticleSummaryResponse: dto.ArticleSummaryResponse{
				ID:               article.ID,
				Title:            article.Title,
				Slug:             article.Slug,
				ShortDescription: article.ShortDescription,
				ImageURL:         article.ImageURL,
				PublishedAt:      article.PublishedAt,
			},
			Content: article.Content,
		},
	})
}
