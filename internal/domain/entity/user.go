package entity

import "time"

// Roles válidos para UserProfile.
const (
	RoleAdmin   = "admin"
	RoleEmpresa = "empresa"
)

// User credenciales de acceso (proveedor de identidad local).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt
	Name         string
	Status       string // active, inactive
	CreatedAt    time.Time
}

// UserProfile rol y empresa de un usuario. Se crea una vez al aprovisionar la cuenta
// y no es editable por el propio usuario. CompanyID sólo aplica a RoleEmpresa.
type UserProfile struct {
	UserID    string
	Role      string
	CompanyID string
	CreatedAt time.Time
}
