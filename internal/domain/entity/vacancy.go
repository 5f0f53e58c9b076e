package entity

import "time"

// Vacancy vacante de empleo publicada por una empresa.
type Vacancy struct {
	ID           string
	CompanyID    string
	Title        string
	Description  string
	ContactEmail string
	Active       bool
	PublishedAt  time.Time
}
