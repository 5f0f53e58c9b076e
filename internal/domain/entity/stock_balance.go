package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBalance saldo denormalizado de una roca. Se crea con el primer movimiento.
type StockBalance struct {
	RockID    string
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}
