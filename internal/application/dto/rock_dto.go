package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterRockRequest body (JSON o multipart) para POST /api/rocks.
// UseExistingID redirige el alta a una roca duplicada ya existente.
type RegisterRockRequest struct {
	CompanyID       string     `json:"company_id" form:"company_id"`
	Name            string     `json:"name" form:"name"`
	Type            string     `json:"type" form:"type"`
	Finish          string     `json:"finish" form:"finish"`
	InitialQuantity NumberText `json:"initial_quantity,omitempty" form:"initial_quantity"`
	UseExistingID   string     `json:"use_existing_id,omitempty" form:"use_existing_id"`
}

// RegisterRockResponse resultado del alta.
type RegisterRockResponse struct {
	Rock     RockResponse      `json:"rock"`
	Created  bool              `json:"created"`
	Movement *MovementResponse `json:"movement,omitempty"`
	Balance  decimal.Decimal   `json:"balance"`
	Warnings []string          `json:"warnings,omitempty"`
}

// RockResponse roca.
type RockResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Finish    string    `json:"finish"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DuplicateCheckResponse coincidencias para GET /api/rocks/duplicates.
type DuplicateCheckResponse struct {
	Exists  bool           `json:"exists"`
	Matches []RockResponse `json:"matches"`
}

// CatalogItemResponse roca del catálogo público.
type CatalogItemResponse struct {
	RockResponse
	CompanyName string `json:"company_name"`
}
