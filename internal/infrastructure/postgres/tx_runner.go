package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/rochas-api/internal/application/ports"
	"github.com/jhoicas/rochas-api/internal/domain"
	"github.com/jhoicas/rochas-api/internal/domain/repository"
	"github.com/jhoicas/rochas-api/pkg/logger"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool        *pgxpool.Pool
	maxAttempts int
	log         *logger.Logger
}

// NewTxRunner construye el runner con el pool. maxAttempts < 1 equivale a 1.
func NewTxRunner(pool *pgxpool.Pool, maxAttempts int, log *logger.Logger) *TxRunner {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &TxRunner{pool: pool, maxAttempts: maxAttempts, log: log}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// serialization_failure y deadlock repiten fn completa; fn debe ser idempotente respecto
// a su propio estado local.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.Registry) error) error {
	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		err := r.runOnce(ctx, fn)
		if err == nil || !isRetryable(err) {
			return err
		}
		lastErr = err
		r.log.Debug().Err(err).Int("attempt", attempt).Msg("conflicto de transacción, reintentando")
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, ctx.Err())
		case <-time.After(time.Duration(attempt*attempt) * 10 * time.Millisecond):
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrTransactionRetryExceeded, lastErr)
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(tx repository.Registry) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", domain.ErrBackendUnavailable, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRegistry(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
