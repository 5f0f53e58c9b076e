package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rochas-api/internal/application/inventory"
	"github.com/jhoicas/rochas-api/internal/domain"
	"github.com/jhoicas/rochas-api/internal/domain/entity"
)

func TestReconciler_DetectaYRepara(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ok := f.createRock(t, sessA, "", "Branco Siena")
	bad := f.createRock(t, sessB, "", "Preto Absoluto")
	_, err := record(f, sessA, ok.ID, entity.MovementEntrada, "4")
	require.NoError(t, err)
	_, err = record(f, sessB, bad.ID, entity.MovementEntrada, "9")
	require.NoError(t, err)

	// Saldo alterado fuera del protocolo.
	require.NoError(t, f.store.Balances().Upsert(ctx, &entity.StockBalance{RockID: bad.ID, Quantity: dec("7"), UpdatedAt: time.Now()}))

	rec := inventory.NewReconciler(f.store, f.store, nil)

	drift, err := rec.ReconcileRock(ctx, bad.ID, false)
	assert.ErrorIs(t, err, domain.ErrPartialWrite)
	require.NotNil(t, drift)
	assert.True(t, dec("7").Equal(drift.Balance))
	assert.True(t, dec("9").Equal(drift.LedgerSum))
	assert.True(t, dec("7").Equal(f.balance(t, bad.ID)), "sin repair no se toca el saldo")

	drift, err = rec.ReconcileRock(ctx, ok.ID, false)
	assert.NoError(t, err)
	assert.Nil(t, drift)

	report, err := rec.ReconcileAll(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Checked)
	require.Len(t, report.Drifts, 1)
	assert.Equal(t, bad.ID, report.Drifts[0].RockID)
	assert.True(t, report.Drifts[0].Repaired)
	assert.True(t, dec("9").Equal(f.balance(t, bad.ID)))

	report, err = rec.ReconcileAll(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, report.Drifts)
}

func TestReconciler_RocaInexistente(t *testing.T) {
	f := newFixture(t)
	rec := inventory.NewReconciler(f.store, f.store, nil)
	_, err := rec.ReconcileRock(context.Background(), "nope", true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
