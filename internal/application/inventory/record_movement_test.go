package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rochas-api/internal/application/dto"
	"github.com/jhoicas/rochas-api/internal/application/inventory"
	"github.com/jhoicas/rochas-api/internal/domain"
	"github.com/jhoicas/rochas-api/internal/domain/access"
	"github.com/jhoicas/rochas-api/internal/domain/entity"
	"github.com/jhoicas/rochas-api/internal/infrastructure/memory"
)

func record(f *fixture, sess access.Session, rockID, kind, qty string) (*inventory.MovementResult, error) {
	return f.movements.RecordMovement(context.Background(), sess, inventory.RecordMovementInput{
		RockID: rockID, Kind: kind, Quantity: qty,
	})
}

// Entrada 12.5, salida 20 rechazada, salida 12.5 deja el saldo en 0.
func TestRecordMovement_EscenarioCompleto(t *testing.T) {
	f := newFixture(t)
	rock := f.createRock(t, sessA, "", "Branco Siena")

	res, err := record(f, sessA, rock.ID, entity.MovementEntrada, "12.5")
	require.NoError(t, err)
	assert.True(t, dec("12.5").Equal(res.Balance))

	_, err = record(f, sessA, rock.ID, entity.MovementSaida, "20")
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.True(t, dec("12.5").Equal(f.balance(t, rock.ID)), "el saldo no debe cambiar")
	assert.Equal(t, 1, f.ledgerLen(t, rock.ID), "la salida rechazada no deja registro")

	res, err = record(f, sessA, rock.ID, entity.MovementSaida, "12.5")
	require.NoError(t, err)
	assert.True(t, res.Balance.IsZero())
	assert.True(t, dec("0").Equal(res.Movement.BalanceAfter))
	assert.True(t, f.balance(t, rock.ID).Equal(f.ledgerSum(t, rock.ID)))

	history, err := f.movements.History(context.Background(), sessA, rock.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, entity.MovementSaida, history[0].Kind, "el historial empieza por el más reciente")
}

func TestRecordMovement_SaldoIgualSumaKardex(t *testing.T) {
	f := newFixture(t)
	rock := f.createRock(t, sessA, "", "Preto Absoluto")

	steps := []struct{ kind, qty string }{
		{entity.MovementEntrada, "10"},
		{entity.MovementEntrada, "2,75"},
		{entity.MovementSaida, "4.5"},
		{entity.MovementSaida, "100"}, // rechazada
		{entity.MovementEntrada, "0.0001"},
	}
	for _, s := range steps {
		_, _ = record(f, sessA, rock.ID, s.kind, s.qty)
		assert.True(t, f.balance(t, rock.ID).Equal(f.ledgerSum(t, rock.ID)))
	}
	assert.True(t, dec("8.2501").Equal(f.balance(t, rock.ID)))
}

func TestRecordMovement_CantidadInvalidaNoEscribe(t *testing.T) {
	f := newFixture(t)
	rock := f.createRock(t, sessA, "", "Verde Ubatuba")

	for _, q := range []string{"", "abc", "0", "-3", "1.23456"} {
		_, err := record(f, sessA, rock.ID, entity.MovementEntrada, q)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "cantidad %q", q)
	}
	assert.Equal(t, 0, f.ledgerLen(t, rock.ID))
	bal, err := f.store.Balances().Get(context.Background(), rock.ID)
	require.NoError(t, err)
	assert.Nil(t, bal)
}

func TestRecordMovement_TipoInvalido(t *testing.T) {
	f := newFixture(t)
	rock := f.createRock(t, sessA, "", "Verde Ubatuba")
	_, err := record(f, sessA, rock.ID, "ajuste", "1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordMovement_EntradasConcurrentes(t *testing.T) {
	f := newFixture(t)
	rock := f.createRock(t, sessA, "", "Amarelo Ornamental")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = record(f, sessA, rock.ID, entity.MovementEntrada, "5")
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.True(t, dec("10").Equal(f.balance(t, rock.ID)))
	assert.Equal(t, 2, f.ledgerLen(t, rock.ID))
}

func TestRecordMovement_SalidasConcurrentesNoSobrevenden(t *testing.T) {
	f := newFixture(t)
	rock := f.createRock(t, sessA, "", "Cinza Andorinha")
	_, err := record(f, sessA, rock.ID, entity.MovementEntrada, "5")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = record(f, sessA, rock.ID, entity.MovementSaida, "3")
		}(i)
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
			failed++
		}
	}
	assert.Equal(t, 1, failed, "exactamente una salida debe ser rechazada")
	assert.True(t, dec("2").Equal(f.balance(t, rock.ID)))
}

func TestRecordMovement_FalloDelKardexRevierteSaldo(t *testing.T) {
	f := newFixture(t)
	rock := f.createRock(t, sessA, "", "Branco Itaúnas")
	_, err := record(f, sessA, rock.ID, entity.MovementEntrada, "7")
	require.NoError(t, err)

	f.store.InjectFault(memory.FaultMovementCreate, errors.New("conexión perdida"))
	_, err = record(f, sessA, rock.ID, entity.MovementEntrada, "3")
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)

	assert.True(t, dec("7").Equal(f.balance(t, rock.ID)), "el saldo no debe reflejar el movimiento fallido")
	assert.Equal(t, 1, f.ledgerLen(t, rock.ID))
}

func TestRecordMovement_OtraEmpresaProhibido(t *testing.T) {
	f := newFixture(t)
	rock := f.createRock(t, sessA, "", "Branco Siena")

	_, err := record(f, sessB, rock.ID, entity.MovementEntrada, "1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.movements.History(context.Background(), sessB, rock.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = record(f, adminSess, rock.ID, entity.MovementEntrada, "1")
	assert.NoError(t, err, "admin opera sobre cualquier empresa")
}

func TestRecordMovement_RocaInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := record(f, sessA, "no-existe", entity.MovementEntrada, "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordMovement_SesionSinCapacidad(t *testing.T) {
	f := newFixture(t)
	rock := f.createRock(t, sessA, "", "Branco Siena")
	_, err := record(f, access.Session{UserID: "x"}, rock.ID, entity.MovementEntrada, "1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRecordMovementFromRequest(t *testing.T) {
	f := newFixture(t)
	rock := f.createRock(t, sessA, "", "Branco Siena")
	resp, err := f.movements.RecordMovementFromRequest(context.Background(), sessA, rock.ID, dto.RecordMovementRequest{
		Kind: entity.MovementEntrada, Quantity: "4,5", Note: "compra",
	})
	require.NoError(t, err)
	assert.True(t, dec("4.5").Equal(resp.Balance))
	assert.Equal(t, "compra", resp.Movement.Note)
	assert.Equal(t, sessA.UserID, resp.Movement.ActorID)
	assert.False(t, resp.Movement.CreatedAt.IsZero())
}
