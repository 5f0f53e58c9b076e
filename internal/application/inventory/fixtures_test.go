package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rochas-api/internal/application/inventory"
	"github.com/jhoicas/rochas-api/internal/domain/access"
	"github.com/jhoicas/rochas-api/internal/domain/entity"
	"github.com/jhoicas/rochas-api/internal/infrastructure/memory"
)

const (
	companyA = "00000000-0000-0000-0000-00000000000a"
	companyB = "00000000-0000-0000-0000-00000000000b"
)

var (
	adminSess = access.Session{UserID: "admin-1", Capability: access.Admin()}
	sessA     = access.Session{UserID: "user-a", Capability: access.CompanyScoped(companyA)}
	sessB     = access.Session{UserID: "user-b", Capability: access.CompanyScoped(companyB)}
)

type fixture struct {
	store     *memory.Store
	rocks     *inventory.RockUseCase
	movements *inventory.MovementUseCase
	queries   *inventory.StockQueryUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.New()
	ctx := context.Background()
	for id, name := range map[string]string{companyA: "Marmoraria Alfa", companyB: "Pedras Beta"} {
		require.NoError(t, st.Companies().Create(ctx, &entity.Company{ID: id, Name: name, CreatedAt: time.Now()}))
	}
	return &fixture{
		store:     st,
		rocks:     inventory.NewRockUseCase(st, st, nil, nil, time.Second),
		movements: inventory.NewMovementUseCase(st, st, nil, time.Second),
		queries:   inventory.NewStockQueryUseCase(st, nil),
	}
}

func (f *fixture) createRock(t *testing.T, sess access.Session, companyID, name string) *entity.Rock {
	t.Helper()
	rock, err := f.rocks.CreateRock(context.Background(), sess, inventory.CreateRockInput{
		CompanyID: companyID, Name: name, Type: "granito", Finish: "polido",
	})
	require.NoError(t, err)
	return rock
}

func (f *fixture) balance(t *testing.T, rockID string) decimal.Decimal {
	t.Helper()
	bal, err := f.store.Balances().Get(context.Background(), rockID)
	require.NoError(t, err)
	if bal == nil {
		return decimal.Zero
	}
	return bal.Quantity
}

func (f *fixture) ledgerSum(t *testing.T, rockID string) decimal.Decimal {
	t.Helper()
	sum, err := f.store.Movements().SumByRock(context.Background(), rockID)
	require.NoError(t, err)
	return sum
}

func (f *fixture) ledgerLen(t *testing.T, rockID string) int {
	t.Helper()
	list, err := f.store.Movements().ListByRock(context.Background(), rockID)
	require.NoError(t, err)
	return len(list)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
