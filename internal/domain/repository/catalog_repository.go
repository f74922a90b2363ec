package repository

import (
	"context"

	"github.com/jhoicas/gestion-prep/internal/domain/entity"
)

// CatalogRepository define el puerto de persistencia del referencial:
// sitios, unidades, trenes, equipos, stocks, categorías de artículos y platinages.
// Los Get* devuelven (nil, nil) si no existe.
type CatalogRepository interface {
	CreateSite(ctx context.Context, site *entity.Site) error
	GetSite(ctx context.Context, id string) (*entity.Site, error)
	ListSites(ctx context.Context) ([]*entity.Site, error)

	CreateUnit(ctx context.Context, unit *entity.Unit) error
	GetUnit(ctx context.Context, id string) (*entity.Unit, error)
	ListUnits(ctx context.Context, siteID string) ([]*entity.Unit, error)

	CreateTrain(ctx context.Context, train *entity.Train) error
	GetTrain(ctx context.Context, id string) (*entity.Train, error)
	ListTrains(ctx context.Context, unitID string) ([]*entity.Train, error)

	CreateEquipment(ctx context.Context, equipment *entity.Equipment) error
	GetEquipment(ctx context.Context, id string) (*entity.Equipment, error)
	ListEquipment(ctx context.Context, trainID string) ([]*entity.Equipment, error)

	CreateStock(ctx context.Context, stock *entity.Stock) error
	GetStock(ctx context.Context, id string) (*entity.Stock, error)
	ListStocks(ctx context.Context, siteID string) ([]*entity.Stock, error)

	CreateCategory(ctx context.Context, category *entity.ArticleCategory) error
	GetCategory(ctx context.Context, id string) (*entity.ArticleCategory, error)
	ListCategories(ctx context.Context) ([]*entity.ArticleCategory, error)

	CreatePlatinageType(ctx context.Context, t *entity.PlatinageType) error
	GetPlatinageType(ctx context.Context, id string) (*entity.PlatinageType, error)
	ListPlatinageTypes(ctx context.Context) ([]*entity.PlatinageType, error)

	// CreatePlatinage devuelve ErrNotFound si el equipo, el artículo o el tipo no existen.
	CreatePlatinage(ctx context.Context, p *entity.Platinage) error
	GetPlatinage(ctx context.Context, id string) (*entity.Platinage, error)
	ListPlatinages(ctx context.Context, equipmentID string) ([]*entity.Platinage, error)

	// CreatePhase devuelve ErrNotFound si algún platinage de la fase no existe.
	CreatePhase(ctx context.Context, phase *entity.Phase) error
	GetPhase(ctx context.Context, id string) (*entity.Phase, error)
	ListPhases(ctx context.Context) ([]*entity.Phase, error)
}
