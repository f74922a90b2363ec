package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-prep/internal/domain/entity"
)

// ArticleFilter filtros de listado de artículos.
type ArticleFilter struct {
	StockID    string
	CategoryID string
	Limit      int
	Offset     int
}

// ArticleRepository define el puerto de persistencia para Article (DIP).
// GetByID devuelve (nil, nil) si no existe.
type ArticleRepository interface {
	Create(ctx context.Context, article *entity.Article) error
	GetByID(ctx context.Context, id string) (*entity.Article, error)
	// GetForUpdate bloquea la fila del artículo hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Article, error)
	// Update persiste solo los campos descriptivos; nunca quantite_stock.
	Update(ctx context.Context, article *entity.Article) error
	// UpdateQuantity es la única escritura de quantite_stock; la usa el ledger.
	UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal) error
	List(ctx context.Context, filter ArticleFilter) ([]*entity.Article, error)
	// ListBelowThreshold devuelve los artículos con quantite_stock <= seuil_alerte, mayor déficit primero.
	ListBelowThreshold(ctx context.Context) ([]*entity.Article, error)
	// IsReferenced indica si alguna línea de movimiento referencia el artículo.
	IsReferenced(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}
