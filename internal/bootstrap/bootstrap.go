// Package bootstrap arma los casos de uso sobre el backend elegido por STORE_DRIVER.
// Lo comparten el servidor HTTP y gestionctl.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/gestion-prep/internal/application/catalog"
	"github.com/jhoicas/gestion-prep/internal/application/movement"
	"github.com/jhoicas/gestion-prep/internal/application/report"
	dommov "github.com/jhoicas/gestion-prep/internal/domain/movement"
	"github.com/jhoicas/gestion-prep/internal/domain/repository"
	"github.com/jhoicas/gestion-prep/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/gestion-prep/internal/infrastructure/pdf"
	"github.com/jhoicas/gestion-prep/internal/infrastructure/postgres"
	"github.com/jhoicas/gestion-prep/pkg/config"
	"github.com/jhoicas/gestion-prep/pkg/logger"
)

// Services reúne los casos de uso listos para usar.
type Services struct {
	Movement    *movement.MovementUseCase
	Article     *catalog.ArticleUseCase
	LowStock    *catalog.LowStockUseCase
	Referential *catalog.ReferentialUseCase
	MovementPDF *report.PDFUseCase

	// Pool es nil con el driver memory.
	Pool *pgxpool.Pool
}

type repos struct {
	tx       movement.TxRunner
	movement repository.MovementRepository
	line     repository.MovementLineRepository
	article  repository.ArticleRepository
	history  repository.HistoryRepository
	catalog  repository.CatalogRepository
}

// Open conecta el backend y construye los servicios. close libera el pool.
// Con migrate=true aplica las migraciones embebidas antes de devolver (solo postgres).
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger, migrate bool) (svc *Services, closeFn func(), err error) {
	var r repos
	svc = &Services{}
	closeFn = func() {}

	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		store := memory.New()
		r = repos{
			tx:       store,
			movement: store.Movements(),
			line:     store.Lines(),
			article:  store.Articles(),
			history:  store.History(),
			catalog:  store.Catalog(),
		}
		log.Warn().Msg("STORE_DRIVER=memory: los datos no sobreviven al proceso")
	case config.StoreDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if migrate {
			applied, err := postgres.Migrate(ctx, pool)
			if err != nil {
				pool.Close()
				return nil, nil, err
			}
			log.Info().Strs("versions", applied).Msg("migraciones aplicadas")
		}
		svc.Pool = pool
		closeFn = pool.Close
		r = repos{
			tx:       postgres.NewTxRunner(pool, cfg.DB.LockTimeout),
			movement: postgres.NewMovementRepository(pool),
			line:     postgres.NewMovementLineRepository(pool),
			article:  postgres.NewArticleRepository(pool),
			history:  postgres.NewHistoryRepository(pool),
			catalog:  postgres.NewCatalogRepository(pool),
		}
	default:
		return nil, nil, fmt.Errorf("STORE_DRIVER desconocido: %q", cfg.Store.Driver)
	}

	svc.Movement = movement.NewMovementUseCase(r.tx, r.movement, r.line, r.article, r.history, r.catalog,
		dommov.NewNumbering(cfg.BMM.Prefix), log.Zerolog())
	svc.Article = catalog.NewArticleUseCase(r.article, r.catalog)
	svc.LowStock = catalog.NewLowStockUseCase(r.article)
	svc.Referential = catalog.NewReferentialUseCase(r.catalog)
	svc.MovementPDF = report.NewPDFUseCase(r.movement, r.line, r.article, r.catalog,
		infrapdf.NewMarotoPDFGenerator(), cfg.PDF.Organization)
	return svc, closeFn, nil
}
