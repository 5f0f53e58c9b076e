package entity

import "time"

// Company representa una empresa (tenant) dueña de rocas.
type Company struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
}
