// Package inventory contiene los casos de uso de rocas y su kardex: detección de duplicados,
// alta de rocas, registro de movimientos con saldo transaccional, consultas y conciliación.
package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/rochas-api/internal/application/dto"
	"github.com/jhoicas/rochas-api/internal/domain/entity"
)

// rockNamespace espacio UUIDv5 para los IDs de roca.
var rockNamespace = uuid.MustParse("6f1c3a52-8d0e-4b7a-9c51-2f4e6d8a0b13")

// RockID deriva el ID de una roca de (companyID, nombre normalizado). Dos altas
// concurrentes del mismo nombre chocan en la clave primaria.
func RockID(companyID, normalizedName string) string {
	return uuid.NewSHA1(rockNamespace, []byte(companyID+"\x00"+normalizedName)).String()
}

var errRendererMissing = errors.New("generador de informes no configurado")

// DefaultWriteTimeout límite de una escritura desacoplada de la petición.
const DefaultWriteTimeout = 15 * time.Second

// detach: una escritura enviada se completa aunque el cliente se desconecte.
func detach(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}

func toRockResponse(r *entity.Rock) dto.RockResponse {
	return dto.RockResponse{
		ID:        r.ID,
		CompanyID: r.CompanyID,
		Name:      r.Name,
		Type:      r.Type,
		Finish:    r.Finish,
		PhotoURL:  r.PhotoURL,
		CreatedAt: r.CreatedAt,
	}
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:           m.ID,
		RockID:       m.RockID,
		Kind:         m.Kind,
		Quantity:     m.Quantity,
		BalanceAfter: m.BalanceAfter,
		Note:         m.Note,
		ActorID:      m.ActorID,
		CreatedAt:    m.CreatedAt,
	}
}
