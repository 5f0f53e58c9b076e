package dto

import "time"

// CreateVacancyRequest body para POST /api/vacancies.
type CreateVacancyRequest struct {
	CompanyID    string `json:"company_id,omitempty"` // admin: obligatorio; empresa: se ignora/propia
	Title        string `json:"title"`
	Description  string `json:"description"`
	ContactEmail string `json:"contact_email"`
}

// VacancyResponse vacante publicada.
type VacancyResponse struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"company_id"`
	CompanyName  string    `json:"company_name,omitempty"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ContactEmail string    `json:"contact_email"`
	Active       bool      `json:"active"`
	PublishedAt  time.Time `json:"published_at"`
}
