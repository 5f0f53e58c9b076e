package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/rochas-api/internal/domain/entity"
)

// StockMovementRepository kardex append-only de una roca.
type StockMovementRepository interface {
	// Create asigna CreatedAt con el reloj del almacén.
	Create(ctx context.Context, mov *entity.StockMovement) error
	// ListByRock devuelve los movimientos del más reciente al más antiguo.
	ListByRock(ctx context.Context, rockID string) ([]*entity.StockMovement, error)
	// SumByRock Σ entrada − Σ saida.
	SumByRock(ctx context.Context, rockID string) (decimal.Decimal, error)
	DeleteByRock(ctx context.Context, rockID string) error
}

// StockBalanceRepository saldo denormalizado (1:1 con la roca).
// Usado dentro de transacciones para garantizar consistencia con el kardex.
type StockBalanceRepository interface {
	// Get devuelve (nil, nil) si la roca aún no tiene movimientos.
	Get(ctx context.Context, rockID string) (*entity.StockBalance, error)
	// ListByRocks saldos indexados por rock_id; las rocas sin saldo se omiten.
	ListByRocks(ctx context.Context, rockIDs []string) (map[string]*entity.StockBalance, error)
	Upsert(ctx context.Context, balance *entity.StockBalance) error
	Delete(ctx context.Context, rockID string) error
}
