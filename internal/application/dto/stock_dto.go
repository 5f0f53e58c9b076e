package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest body para POST /api/rocks/:id/movements.
type RecordMovementRequest struct {
	Kind     string     `json:"kind"` // entrada | saida
	Quantity NumberText `json:"quantity"`
	Note     string     `json:"note,omitempty"`
}

// MovementResponse registro del kardex.
type MovementResponse struct {
	ID           string          `json:"id"`
	RockID       string          `json:"rock_id"`
	Kind         string          `json:"kind"`
	Quantity     decimal.Decimal `json:"quantity"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Note         string          `json:"note,omitempty"`
	ActorID      string          `json:"actor_id"`
	CreatedAt    time.Time       `json:"created_at"`
}

// RecordMovementResponse nuevo saldo devuelto por la transacción.
type RecordMovementResponse struct {
	Movement MovementResponse `json:"movement"`
	Balance  decimal.Decimal  `json:"balance"`
}

// StockItemResponse fila del listado de stock.
type StockItemResponse struct {
	RockResponse
	CompanyName string          `json:"company_name"`
	Balance     decimal.Decimal `json:"balance"`
}

// ReconcileDriftResponse roca cuyo saldo no coincide con el kardex.
type ReconcileDriftResponse struct {
	RockID    string          `json:"rock_id"`
	CompanyID string          `json:"company_id"`
	Balance   decimal.Decimal `json:"balance"`
	LedgerSum decimal.Decimal `json:"ledger_sum"`
	Repaired  bool            `json:"repaired"`
}

// ReconcileResponse resumen de una conciliación.
type ReconcileResponse struct {
	Checked int                      `json:"checked"`
	Drifts  []ReconcileDriftResponse `json:"drifts"`
}
