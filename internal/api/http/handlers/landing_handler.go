package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/apartment-bureau/landing-service/internal/api/dto"
	"github.com/apartment-bureau/landing-service/internal/domain"
	"github.com/apartment-bureau/landing-service/internal/service"
)

// LandingHandler serves the public index data and the contact form.
type LandingHandler struct {
	content      *service.ContentService
	applications *service.ApplicationService
}

// NewLandingHandler constructs handler.
func NewLandingHandler(content *service.ContentService, applications *service.ApplicationService) *LandingHandler {
	return &LandingHandler{content: content, applications: applications}
}

// Index handles GET /.
func (h *LandingHandler) Index(c *fiber.Ctx) error {
	page := h.content.Landing(c.Context())

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"services":     mapServices(page.Services),
			"team_members": mapTeamMembers(page.TeamMembers),
			"properties":   mapProperties(page.Properties),
			"articles":     mapArticleSummaries(page.Articles),
		},
	})
}

// Contact handles POST /contact. The request is stored before any
// notification is attempted; a failed notification never fails the visitor.
func (h *LandingHandler) Contact(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	app, err := h.applications.Submit(c.Context(), req.Name, req.Phone, req.Message)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"id":      app.ID,
			"status":  string(app.Status),
			"message": "Thank you! We received your request and will contact you shortly.",
		},
	})
}

func mapServices(services []domain.Service) []dto.ServiceResponse {
	out := make([]dto.ServiceResponse, 0, len(services))
	for _, s := range services {
		out = append(out, dto.ServiceResponse{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			IconURL:     s.IconURL,
		})
	}
	return out
}

func mapTeamMembers(members []domain.TeamMember) []dto.TeamMemberResponse {
	out := make([]dto.TeamMemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, dto.TeamMemberResponse{
			ID:       m.ID,
			Name:     m.Name,
			Position: m.Position,
			PhotoURL: m.PhotoURL,
		})
	}
	return out
}

func mapProperties(properties []domain.Property) []dto.PropertyResponse {
	out := make([]dto.PropertyResponse, 0, len(properties))
	for _, p := range properties {
		out = append(out, dto.PropertyResponse{
			ID:           p.ID,
			Title:        p.Title,
			Description:  p.Description,
			Location:     p.Location,
			Price:        p.Price,
			PropertyType: string(p.PropertyType),
			ImageURL:     p.ImageURL,
			IsSold:       p.IsSold,
		})
	}
	return out
}

func mapArticleSummaries(articles []domain.Article) []dto.ArticleSummaryResponse {
	out := make([]dto.ArticleSummaryResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, dto.ArticleSummaryResponse{
			ID:               a.ID,
			Title:            a.Title,
			Slug:             a.Slug,
			ShortDescription: a.ShortDescription,
			ImageURL:         a.ImageURL,
			PublishedAt:      a.PublishedAt,
		})
	}
	return out
}
