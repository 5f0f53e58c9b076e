package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rochas-api/internal/application/dto"
	"github.com/jhoicas/rochas-api/internal/application/ports"
)

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "12,5", formatQuantity(decimal.RequireFromString("12.5")))
	assert.Equal(t, "1000", formatQuantity(decimal.RequireFromString("1000")))
	assert.Equal(t, "0,0001", formatQuantity(decimal.RequireFromString("0.0001")))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Branco Siena", titleCase("branco siena"))
	assert.Equal(t, "Preto São Gabriel", titleCase("preto  são gabriel"))
	assert.Equal(t, "", titleCase(""))
}

func TestRenderStockReport(t *testing.T) {
	g := NewStockReportGenerator()
	out, err := g.RenderStockReport(context.Background(), ports.StockReport{
		Title:       "Controle de Estoque",
		GeneratedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Items: []dto.StockItemResponse{
			{RockResponse: dto.RockResponse{Name: "branco siena", Type: "granito"}, CompanyName: "Alfa", Balance: decimal.RequireFromString("12.5")},
			{RockResponse: dto.RockResponse{Name: "preto absoluto"}, CompanyName: "Beta", Balance: decimal.Zero},
		},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
