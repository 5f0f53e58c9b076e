package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementEntrada = "entrada"
	MovementSaida   = "saida"
)

// StockMovement es un registro inmutable del kardex de una roca (m²).
type StockMovement struct {
	ID           string
	RockID       string
	Kind         string
	Quantity     decimal.Decimal // siempre positiva; el signo lo da Kind
	BalanceAfter decimal.Decimal
	Note         string
	ActorID      string
	CreatedAt    time.Time // asignado por el almacén
}
