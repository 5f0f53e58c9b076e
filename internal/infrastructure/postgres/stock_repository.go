package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/rochas-api/internal/domain/entity"
	"github.com/jhoicas/rochas-api/internal/domain/repository"
)

var (
	_ repository.StockMovementRepository = (*StockMovementRepo)(nil)
	_ repository.StockBalanceRepository  = (*StockBalanceRepo)(nil)
)

// StockMovementRepo kardex sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta el movimiento; created_at lo asigna el servidor.
func (r *StockMovementRepo) Create(ctx context.Context, mov *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, rock_id, kind, quantity, balance_after, note, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, '')::uuid, now())
		RETURNING created_at`
	err := r.q.QueryRow(ctx, query,
		mov.ID, mov.RockID, mov.Kind, mov.Quantity, mov.BalanceAfter, mov.Note, mov.ActorID,
	).Scan(&mov.CreatedAt)
	if err != nil {
		return wrapErr("create stock movement", err)
	}
	return nil
}

// ListByRock kardex de una roca, del más reciente al más antiguo.
func (r *StockMovementRepo) ListByRock(ctx context.Context, rockID string) ([]*entity.StockMovement, error) {
	if !validID(rockID) {
		return nil, nil
	}
	query := `
		SELECT id, rock_id, kind, quantity, balance_after, note, COALESCE(actor_id::text, ''), created_at
		FROM stock_movements WHERE rock_id = $1
		ORDER BY created_at DESC, seq DESC`
	rows, err := r.q.Query(ctx, query, rockID)
	if err != nil {
		return nil, wrapErr("list stock movements", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.RockID, &m.Kind, &m.Quantity, &m.BalanceAfter, &m.Note, &m.ActorID, &m.CreatedAt); err != nil {
			return nil, wrapErr("scan stock movement", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumByRock Σ entradas − Σ salidas.
func (r *StockMovementRepo) SumByRock(ctx context.Context, rockID string) (decimal.Decimal, error) {
	if !validID(rockID) {
		return decimal.Zero, nil
	}
	query := `
		SELECT COALESCE(SUM(CASE WHEN kind = 'entrada' THEN quantity ELSE -quantity END), 0)
		FROM stock_movements WHERE rock_id = $1`
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query, rockID).Scan(&sum); err != nil {
		return decimal.Zero, wrapErr("sum stock movements", err)
	}
	return sum, nil
}

// DeleteByRock elimina el kardex de una roca.
func (r *StockMovementRepo) DeleteByRock(ctx context.Context, rockID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stock_movements WHERE rock_id = $1`, rockID); err != nil {
		return wrapErr("delete stock movements", err)
	}
	return nil
}

// StockBalanceRepo saldo denormalizado por roca.
type StockBalanceRepo struct {
	q Querier
}

// NewStockBalanceRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewStockBalanceRepository(q Querier) *StockBalanceRepo {
	return &StockBalanceRepo{q: q}
}

// Get devuelve (nil, nil) si la roca no tiene saldo.
func (r *StockBalanceRepo) Get(ctx context.Context, rockID string) (*entity.StockBalance, error) {
	if !validID(rockID) {
		return nil, nil
	}
	query := `SELECT rock_id, quantity, updated_at FROM stock_balances WHERE rock_id = $1`
	var b entity.StockBalance
	err := r.q.QueryRow(ctx, query, rockID).Scan(&b.RockID, &b.Quantity, &b.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapErr("get stock balance", err)
	}
	return &b, nil
}

// ListByRocks saldos de varias rocas en una sola consulta; las rocas sin saldo no aparecen.
func (r *StockBalanceRepo) ListByRocks(ctx context.Context, rockIDs []string) (map[string]*entity.StockBalance, error) {
	out := make(map[string]*entity.StockBalance, len(rockIDs))
	ids := make([]string, 0, len(rockIDs))
	for _, id := range rockIDs {
		if validID(id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return out, nil
	}
	query := `SELECT rock_id, quantity, updated_at FROM stock_balances WHERE rock_id = ANY($1::uuid[])`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, wrapErr("list stock balances", err)
	}
	defer rows.Close()
	for rows.Next() {
		var b entity.StockBalance
		if err := rows.Scan(&b.RockID, &b.Quantity, &b.UpdatedAt); err != nil {
			return nil, wrapErr("scan stock balance", err)
		}
		out[b.RockID] = &b
	}
	return out, rows.Err()
}

// Upsert inserta o actualiza el saldo de la roca.
func (r *StockBalanceRepo) Upsert(ctx context.Context, b *entity.StockBalance) error {
	query := `
		INSERT INTO stock_balances (rock_id, quantity, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (rock_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, b.RockID, b.Quantity); err != nil {
		return wrapErr("upsert stock balance", err)
	}
	return nil
}

// Delete elimina el saldo de la roca.
func (r *StockBalanceRepo) Delete(ctx context.Context, rockID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stock_balances WHERE rock_id = $1`, rockID); err != nil {
		return wrapErr("delete stock balance", err)
	}
	return nil
}
