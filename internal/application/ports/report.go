package ports

import (
	"context"
	"time"

	"github.com/jhoicas/rochas-api/internal/application/dto"
)

// StockReport datos de entrada del informe de stock.
type StockReport struct {
	Title       string
	GeneratedAt time.Time
	Items       []dto.StockItemResponse
}

// StockReportRenderer genera el informe de stock (PDF).
type StockReportRenderer interface {
	RenderStockReport(ctx context.Context, report StockReport) ([]byte, error)
}
