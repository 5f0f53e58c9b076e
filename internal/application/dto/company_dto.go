package dto

import "time"

// CreateCompanyRequest body para POST /api/companies.
// Si OwnerEmail viene informado se crea también la cuenta "empresa" vinculada.
type CreateCompanyRequest struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	OwnerEmail    string `json:"owner_email,omitempty"`
	OwnerPassword string `json:"owner_password,omitempty"`
}

// CompanyResponse respuesta de empresa.
type CompanyResponse struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Address   string        `json:"address"`
	CreatedAt time.Time     `json:"created_at"`
	Owner     *UserResponse `json:"owner,omitempty"`
}
