package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/apartment-bureau/landing-service/internal/api/dto"
	"github.com/apartment-bureau/landing-service/internal/domain"
	"github.com/apartment-bureau/landing-service/internal/relay"
	"github.com/apartment-bureau/landing-service/internal/repository"
	"github.com/apartment-bureau/landing-service/internal/service"
)

// consolePage deliberately references admin links the plain way; the gate's
// link rewriter re-inserts the access token into every one of them before the
// page reaches the browser.
const consolePage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Apartment Bureau — Admin</title></head>
<body>
<h1>Apartment Bureau — Admin Console</h1>
<nav>
  <a href="/admin/applications">Applications</a>
  <a href="/admin/subscribers">Subscribers</a>
  <a href="/admin/articles">Articles</a>
</nav>
<form method="post" action="" id="broadcast-form">
  <textarea name="text" placeholder="Broadcast message"></textarea>
  <button type="submit" data-endpoint="/admin/broadcast">Send to subscribers</button>
</form>
<script>
  const endpoints = {
    applications: '/admin/applications',
    subscribers: '/admin/subscribers',
    broadcast: '/admin/broadcast'
  };
  document.getElementById('broadcast-form').addEventListener('submit', function (ev) {
    ev.preventDefault();
    fetch(endpoints.broadcast, {
      method: 'POST',
      headers: {'Content-Type': 'application/json'},
      body: JSON.stringify({text: this.elements.text.value})
    }).then(() => this.reset());
  });
</script>
</body>
</html>`

// AdminHandler serves the token-gated admin console. All routes here are
// registered on canonical admin paths; the gate middleware has already
// verified and stripped the token by the time a request arrives.
type AdminHandler struct {
	applications *service.ApplicationService
	subscribers  repository.SubscriberRepository
	articles     repository.ArticleRepository
	sender       *relay.Sender
}

// NewAdminHandler constructs handler.
func NewAdminHandler(applications *service.ApplicationService, subscribers repository.SubscriberRepository, articles repository.ArticleRepository, sender *relay.Sender) *AdminHandler {
	return &AdminHandler{
		applications: applications,
		subscribers:  subscribers,
		articles:     articles,
		sender:       sender,
	}
}

// Console handles GET /admin/.
func (h *AdminHandler) Console(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(consolePage)
}

// Applications handles GET /admin/applications.
func (h *AdminHandler) Applications(c *fiber.Ctx) error {
	apps, err := h.applications.List(c.Context())
	if err != nil {
		return err
	}

	out := make([]dto.ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, dto.ApplicationResponse{
			ID:               app.ID,
			Name:             app.Name,
			Phone:            app.Phone,
			Message:          app.Message,
			Status:           string(app.Status),
			IsSentToTelegram: app.IsSentToTelegram,
			TelegramError:    app.TelegramError,
			CreatedAt:        app.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": out})
}

// UpdateApplicationStatus handles PATCH /admin/applications/:id.
func (h *AdminHandler) UpdateApplicationStatus(c *fiber.Ctx) error {
	var req dto.ApplicationStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.applications.UpdateStatus(c.Context(), c.Params("id"), domain.ApplicationStatus(req.Status)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": c.Params("id"), "status": req.Status}})
}

// Subscribers handles GET /admin/subscribers.
func (h *AdminHandler) Subscribers(c *fiber.Ctx) error {
	subs, err := h.subscribers.List(c.Context())
	if err != nil {
		return err
	}

	out := make([]dto.SubscriberResponse, 0, len(subs))
	for _, sub := range subs {
		out = append(out, dto.SubscriberResponse{
			ID:        sub.ID,
			ChatID:    sub.ChatID,
			Username:  sub.Username,
			FirstName: sub.FirstName,
			LastName:  sub.LastName,
			IsActive:  sub.IsActive,
			CreatedAt: sub.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": out})
}

// SetSubscriberActive handles PATCH /admin/subscribers/:id. Deactivation is
// the administrative counterpart of the relay's subscribe-only writes.
func (h *AdminHandler) SetSubscriberActive(c *fiber.Ctx) error {
	var req dto.SubscriberActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.subscribers.SetActive(c.Context(), c.Params("id"), req.IsActive); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": c.Params("id"), "is_active": req.IsActive}})
}

// Articles handles GET /admin/articles (all articles, drafts included).
func (h *AdminHandler) Articles(c *fiber.Ctx) error {
	articles, err := h.articles.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapArticleSummaries(articles)})
}

// Broadcast handles POST /admin/broadcast: manual delivery to every active
// subscriber. The result is reported, not raised.
func (h *AdminHandler) Broadcast(c *fiber.Ctx) error {
	var req struct {
		Text string `json:"text" form:"text"`
	}
	if err := c.BodyParser(&req); err != nil || req.Text == "" {
		return fiber.NewError(http.StatusBadRequest, "text required")
	}

	result := h.sender.Send(c.Context(), req.Text, "")
	return c.JSON(fiber.Map{"data": result})
}
