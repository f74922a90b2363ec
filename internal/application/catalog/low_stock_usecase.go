package catalog

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-prep/internal/application/dto"
	"github.com/jhoicas/gestion-prep/internal/domain/repository"
)

// LowStockUseCase genera la lista de alertas de stock: artículos en o por debajo de su
// seuil_alerte, priorizados por déficit.
type LowStockUseCase struct {
	repo repository.ArticleRepository
}

// NewLowStockUseCase construye el caso de uso de alertas.
func NewLowStockUseCase(repo repository.ArticleRepository) *LowStockUseCase {
	return &LowStockUseCase{repo: repo}
}

// LowStock devuelve las alertas; el repositorio ya las ordena por déficit descendente.
func (uc *LowStockUseCase) LowStock(ctx context.Context) ([]dto.LowStockAlertDTO, error) {
	items, err := uc.repo.ListBelowThreshold(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockAlertDTO, 0, len(items))
	for i, a := range items {
		deficit := a.AlertThreshold.Sub(a.Quantity)
		if deficit.IsNegative() {
			deficit = decimal.Zero
		}
		out = append(out, dto.LowStockAlertDTO{
			ArticleID:      a.ID,
			Code:           a.Code,
			Description:    a.Description,
			StockID:        a.StockID,
			Quantity:       a.Quantity,
			AlertThreshold: a.AlertThreshold,
			Deficit:        deficit,
			Priority:       i + 1,
		})
	}
	return out, nil
}
