package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-prep/internal/domain/entity"
)

// MovementFilter filtros de listado de BMM.
type MovementFilter struct {
	Status string
	Kind   string
	Limit  int
	Offset int
}

// MovementRepository define el puerto de persistencia para el BMM.
// GetByID y GetByNumber devuelven (nil, nil) si no existe.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	GetByNumber(ctx context.Context, number string) (*entity.Movement, error)
	// GetForUpdate bloquea la fila del documento (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Movement, error)
	Update(ctx context.Context, movement *entity.Movement) error
	// Delete elimina el documento; líneas e historial se borran en cascada.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)

	// LockNumbering serializa la asignación de números hasta el fin de la transacción.
	LockNumbering(ctx context.Context) error
	// LastNumber devuelve el número más alto asignado con el prefijo dado ("" si no hay).
	LastNumber(ctx context.Context, prefix string) (string, error)
}

// MovementLineRepository define el puerto de persistencia para las líneas de un BMM.
type MovementLineRepository interface {
	// Create falla con domain.ErrDuplicateArticleInDocument si ya existe (documento, artículo).
	Create(ctx context.Context, line *entity.MovementLine) error
	GetByID(ctx context.Context, id string) (*entity.MovementLine, error)
	ListByMovement(ctx context.Context, movementID string) ([]*entity.MovementLine, error)
	// ListByMovementForUpdate bloquea las líneas del documento.
	ListByMovementForUpdate(ctx context.Context, movementID string) ([]*entity.MovementLine, error)
	// Update persiste artículo y cantidad.
	Update(ctx context.Context, line *entity.MovementLine) error
	// UpdateSnapshot persiste stock_avant/stock_apres (campos internos del sistema).
	UpdateSnapshot(ctx context.Context, lineID string, before, after decimal.Decimal) error
	Delete(ctx context.Context, id string) error
}

// HistoryRepository historial append-only: no existe Update ni Delete.
type HistoryRepository interface {
	Create(ctx context.Context, entry *entity.HistoryEntry) error
	ListByMovement(ctx context.Context, movementID string) ([]*entity.HistoryEntry, error)
}
