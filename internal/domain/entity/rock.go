package entity

import "time"

// Rock es un ítem de inventario ("rocha") de una empresa.
// Name, Type y Finish se guardan normalizados (trim + minúsculas).
type Rock struct {
	ID        string
	CompanyID string
	Name      string
	Type      string
	Finish    string
	PhotoURL  string
	CreatedAt time.Time
}
