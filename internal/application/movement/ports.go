package movement

import (
	"context"

	"github.com/jhoicas/gestion-prep/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error no queda ninguna escritura visible (Rollback).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		lineRepo repository.MovementLineRepository,
		articleRepo repository.ArticleRepository,
		historyRepo repository.HistoryRepository,
	) error) error
}
