package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/rochas-api/internal/application/dto"
	"github.com/jhoicas/rochas-api/internal/application/ports"
	"github.com/jhoicas/rochas-api/internal/domain"
	"github.com/jhoicas/rochas-api/internal/domain/access"
	"github.com/jhoicas/rochas-api/internal/domain/entity"
	"github.com/jhoicas/rochas-api/internal/domain/repository"
	"github.com/jhoicas/rochas-api/internal/domain/stock"
	"github.com/jhoicas/rochas-api/pkg/logger"
)

// MovementUseCase registra movimientos de stock: kardex + saldo en una única transacción,
// con bloqueo de la fila de la roca (SELECT FOR UPDATE) y Commit/Rollback.
type MovementUseCase struct {
	txRunner     ports.TxRunner
	repos        repository.Registry
	log          *logger.Logger
	writeTimeout time.Duration
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(txRunner ports.TxRunner, repos repository.Registry, log *logger.Logger, writeTimeout time.Duration) *MovementUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &MovementUseCase{txRunner: txRunner, repos: repos, log: log, writeTimeout: writeTimeout}
}

// RecordMovementInput entrada de RecordMovement. Quantity llega como texto y se valida aquí.
type RecordMovementInput struct {
	RockID   string
	Kind     string
	Quantity string
	Note     string
}

// MovementResult movimiento confirmado y saldo resultante.
type MovementResult struct {
	Movement *entity.StockMovement
	Balance  decimal.Decimal
}

// RecordMovement valida, y en una transacción: bloquea la roca, lee el saldo (ausente = 0),
// calcula el nuevo saldo, rechaza saldos negativos, hace upsert del saldo e inserta el movimiento.
// ErrInvalidQuantity / ErrInsufficientBalance nunca se reintentan.
func (uc *MovementUseCase) RecordMovement(ctx context.Context, sess access.Session, in RecordMovementInput) (*MovementResult, error) {
	if !stock.ValidKind(in.Kind) || in.RockID == "" {
		return nil, domain.ErrInvalidInput
	}
	qty, err := stock.ParseQuantity(in.Quantity)
	if err != nil {
		return nil, err
	}
	if sess.Capability.IsZero() {
		return nil, domain.ErrForbidden
	}

	wctx, cancel := detach(ctx, uc.writeTimeout)
	defer cancel()

	var mov *entity.StockMovement
	err = uc.txRunner.Run(wctx, func(tx repository.Registry) error {
		rock, err := tx.Rocks().GetForUpdate(wctx, in.RockID)
		if err != nil {
			return err
		}
		if rock == nil {
			return domain.ErrNotFound
		}
		if !sess.Capability.CanAccess(rock.CompanyID) {
			return domain.ErrForbidden
		}
		mov, err = appendMovement(wctx, tx, rock.ID, sess.UserID, in.Kind, qty, in.Note)
		return err
	})
	if err != nil {
		err = ports.StoreError(err)
		uc.log.Warn().Err(err).
			Str("rock_id", in.RockID).Str("kind", in.Kind).Str("quantity", qty.String()).
			Msg("movimiento rechazado")
		return nil, err
	}

	uc.log.Info().
		Str("rock_id", in.RockID).Str("kind", mov.Kind).
		Str("quantity", mov.Quantity.String()).Str("balance", mov.BalanceAfter.String()).
		Str("actor_id", sess.UserID).
		Msg("movimiento registrado")
	return &MovementResult{Movement: mov, Balance: mov.BalanceAfter}, nil
}

// RecordMovementFromRequest adapta el request HTTP al caso de uso.
func (uc *MovementUseCase) RecordMovementFromRequest(ctx context.Context, sess access.Session, rockID string, in dto.RecordMovementRequest) (*dto.RecordMovementResponse, error) {
	res, err := uc.RecordMovement(ctx, sess, RecordMovementInput{
		RockID:   rockID,
		Kind:     in.Kind,
		Quantity: string(in.Quantity),
		Note:     in.Note,
	})
	if err != nil {
		return nil, err
	}
	return &dto.RecordMovementResponse{Movement: toMovementResponse(res.Movement), Balance: res.Balance}, nil
}

// History kardex de una roca, del más reciente al más antiguo.
func (uc *MovementUseCase) History(ctx context.Context, sess access.Session, rockID string) ([]dto.MovementResponse, error) {
	rock, err := uc.repos.Rocks().GetByID(ctx, rockID)
	if err != nil {
		return nil, ports.StoreError(err)
	}
	if rock == nil {
		return nil, domain.ErrNotFound
	}
	if !sess.Capability.CanAccess(rock.CompanyID) {
		return nil, domain.ErrForbidden
	}
	list, err := uc.repos.Movements().ListByRock(ctx, rockID)
	if err != nil {
		return nil, ports.StoreError(err)
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(m))
	}
	return out, nil
}

// appendMovement lee el saldo autoritativo dentro de tx, aplica el movimiento y escribe
// saldo + kardex. El caller debe haber bloqueado la roca en la misma tx.
func appendMovement(
	ctx context.Context,
	tx repository.Registry,
	rockID, actorID, kind string,
	qty decimal.Decimal,
	note string,
) (*entity.StockMovement, error) {
	current := decimal.Zero
	bal, err := tx.Balances().Get(ctx, rockID)
	if err != nil {
		return nil, err
	}
	if bal != nil {
		current = bal.Quantity
	}
	next, err := stock.Apply(current, kind, qty)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := tx.Balances().Upsert(ctx, &entity.StockBalance{RockID: rockID, Quantity: next, UpdatedAt: now}); err != nil {
		return nil, err
	}
	mov := &entity.StockMovement{
		ID:           uuid.New().String(),
		RockID:       rockID,
		Kind:         kind,
		Quantity:     qty,
		BalanceAfter: next,
		Note:         note,
		ActorID:      actorID,
	}
	if err := tx.Movements().Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}
