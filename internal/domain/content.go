package domain

import "time"

// Service is a company service offering shown on the landing page.
type Service struct {
	ID          string
	Title       string
	Description string
	IconURL     string
	Order       int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PropertyType enumerates supported real-estate categories.
type PropertyType string

const (
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeHouse      PropertyType = "house"
	PropertyTypeCottage    PropertyType = "cottage"
	PropertyTypeCommercial PropertyType = "commercial"
	PropertyTypeLand       PropertyType = "land"
)

// Property is a sold object showcased in the portfolio section.
type Property struct {
	ID           string
	Title        string
	Description  string
	Location     string
	Price        float64
	PropertyType PropertyType
	ImageURL     string
	IsSold       bool
	Order        int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Article is a blog post or news item.
type Article struct {
	ID               string
	Title            string
	Slug             string
	ShortDescription string
	Content          string
	ImageURL         string
	PublishedAt      time.Time
	IsPublished      bool
	Order            int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TeamMember is an employee shown in the team section.
type TeamMember struct {
	ID        string
	Name      string
	Position  string
	PhotoURL  string
	Order     int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
