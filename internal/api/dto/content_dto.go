package dto

import "time"

// ServiceResponse is a landing page service card.
type ServiceResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IconURL     string `json:"icon_url,omitempty"`
}

// PropertyResponse is a sold object card.
type PropertyResponse struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description,omitempty"`
	Location     string  `json:"location"`
	Price        float64 `json:"price"`
	PropertyType string  `json:"property_type"`
	ImageURL     string  `json:"image_url,omitempty"`
	IsSold       bool    `json:"is_sold"`
}

// TeamMemberResponse is a team section card.
type TeamMemberResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	PhotoURL string `json:"photo_url,omitempty"`
}

// ArticleSummaryResponse is a list-view article.
type ArticleSummaryResponse struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Slug             string    `json:"slug"`
	ShortDescription string    `json:"short_description,omitempty"`
	ImageURL         string    `json:"image_url,omitempty"`
	PublishedAt      time.Time `json:"published_at"`
}

// ArticleResponse is a detail-view article.
type ArticleResponse struct {
	ArticleSummaryResponse
	Content string `json:"content"`
}
