package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/rochas-api/internal/application/dto"
	"github.com/jhoicas/rochas-api/internal/application/ports"
	"github.com/jhoicas/rochas-api/internal/domain"
	"github.com/jhoicas/rochas-api/internal/domain/entity"
	"github.com/jhoicas/rochas-api/internal/domain/repository"
	"github.com/jhoicas/rochas-api/pkg/logger"
)

// Drift roca cuyo saldo difiere de Σ kardex.
type Drift struct {
	RockID    string
	CompanyID string
	Balance   decimal.Decimal
	LedgerSum decimal.Decimal
	Repaired  bool
}

// Reconciler compara cada saldo con la suma de su kardex.
type Reconciler struct {
	txRunner ports.TxRunner
	repos    repository.Registry
	log      *logger.Logger
}

// NewReconciler construye el conciliador.
func NewReconciler(txRunner ports.TxRunner, repos repository.Registry, log *logger.Logger) *Reconciler {
	if log == nil {
		log = logger.Nop()
	}
	return &Reconciler{txRunner: txRunner, repos: repos, log: log}
}

// ReconcileRock verifica una roca bajo bloqueo. Sin diferencia devuelve (nil, nil).
// Con diferencia y repair=false devuelve el Drift y ErrPartialWrite; con repair=true
// fija el saldo a Σ kardex.
func (r *Reconciler) ReconcileRock(ctx context.Context, rockID string, repair bool) (*Drift, error) {
	var drift *Drift
	err := r.txRunner.Run(ctx, func(tx repository.Registry) error {
		rock, err := tx.Rocks().GetForUpdate(ctx, rockID)
		if err != nil {
			return err
		}
		if rock == nil {
			return domain.ErrNotFound
		}
		sum, err := tx.Movements().SumByRock(ctx, rockID)
		if err != nil {
			return err
		}
		balance := decimal.Zero
		bal, err := tx.Balances().Get(ctx, rockID)
		if err != nil {
			return err
		}
		if bal != nil {
			balance = bal.Quantity
		}
		if balance.Equal(sum) {
			return nil
		}
		drift = &Drift{RockID: rockID, CompanyID: rock.CompanyID, Balance: balance, LedgerSum: sum}
		if !repair {
			return nil
		}
		drift.Repaired = true
		return tx.Balances().Upsert(ctx, &entity.StockBalance{RockID: rockID, Quantity: sum, UpdatedAt: time.Now().UTC()})
	})
	if err != nil {
		return nil, ports.StoreError(err)
	}
	if drift != nil && !drift.Repaired {
		return drift, fmt.Errorf("%w: roca %s saldo=%s kardex=%s", domain.ErrPartialWrite, rockID, drift.Balance, drift.LedgerSum)
	}
	return drift, nil
}

// ReconcileAll recorre todas las rocas. Un error de almacén aborta; las diferencias se acumulan.
func (r *Reconciler) ReconcileAll(ctx context.Context, repair bool) (*dto.ReconcileResponse, error) {
	rocks, err := r.repos.Rocks().Find(ctx, repository.RockFilter{})
	if err != nil {
		return nil, ports.StoreError(err)
	}
	report := &dto.ReconcileResponse{Drifts: []dto.ReconcileDriftResponse{}}
	for _, rock := range rocks {
		drift, err := r.ReconcileRock(ctx, rock.ID, repair)
		if err != nil && drift == nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue // eliminada entre el listado y la verificación
			}
			return nil, err
		}
		report.Checked++
		if drift == nil {
			continue
		}
		r.log.Warn().
			Str("rock_id", drift.RockID).Str("company_id", drift.CompanyID).
			Str("balance", drift.Balance.String()).Str("ledger_sum", drift.LedgerSum.String()).
			Bool("repaired", drift.Repaired).
			Msg("saldo inconsistente con el kardex")
		report.Drifts = append(report.Drifts, dto.ReconcileDriftResponse{
			RockID:    drift.RockID,
			CompanyID: drift.CompanyID,
			Balance:   drift.Balance,
			LedgerSum: drift.LedgerSum,
			Repaired:  drift.Repaired,
		})
	}
	r.log.Info().Int("checked", report.Checked).Int("drifts", len(report.Drifts)).Msg("conciliación terminada")
	return report, nil
}
