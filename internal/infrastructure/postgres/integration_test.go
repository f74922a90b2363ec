package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/gestion-prep/internal/application/catalog"
	"github.com/jhoicas/gestion-prep/internal/application/dto"
	"github.com/jhoicas/gestion-prep/internal/application/movement"
	"github.com/jhoicas/gestion-prep/internal/domain"
	"github.com/jhoicas/gestion-prep/internal/domain/entity"
	dommov "github.com/jhoicas/gestion-prep/internal/domain/movement"
	"github.com/jhoicas/gestion-prep/internal/domain/repository"
	"github.com/jhoicas/gestion-prep/internal/infrastructure/postgres"
	"github.com/jhoicas/gestion-prep/pkg/config"
)

// Estos tests necesitan una base PostgreSQL real en DATABASE_URL; sin ella se omiten.
// Los nombres llevan un sufijo aleatorio para poder repetirlos sobre la misma base.

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var magasinier = entity.Actor{UserID: "u-mag", Role: entity.RoleMagasinier}

func newPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" || testing.Short() {
		t.Skip("DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 8})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = postgres.Migrate(ctx, pool)
	require.NoError(t, err)
	again, err := postgres.Migrate(ctx, pool)
	require.NoError(t, err)
	assert.Empty(t, again, "una segunda pasada no aplica nada")
	return pool
}

type pgFixture struct {
	pool     *pgxpool.Pool
	ref      *catalog.ReferentialUseCase
	articles *catalog.ArticleUseCase
	uc       *movement.MovementUseCase
	stockID  string
}

func newPGFixture(t *testing.T, lockTimeout time.Duration) *pgFixture {
	t.Helper()
	pool := newPool(t)
	ctx := context.Background()
	catalogRepo := postgres.NewCatalogRepository(pool)
	articleRepo := postgres.NewArticleRepository(pool)

	ref := catalog.NewReferentialUseCase(catalogRepo)
	site, err := ref.CreateSite(ctx, dto.CreateSiteRequest{Name: "Site " + uuid.NewString()})
	require.NoError(t, err)
	stock, err := ref.CreateStock(ctx, dto.CreateStockRequest{Name: "Magasin", SiteID: site.ID, Location: uuid.NewString()})
	require.NoError(t, err)

	return &pgFixture{
		pool:     pool,
		ref:      ref,
		articles: catalog.NewArticleUseCase(articleRepo, catalogRepo),
		uc: movement.NewMovementUseCase(postgres.NewTxRunner(pool, lockTimeout),
			postgres.NewMovementRepository(pool), postgres.NewMovementLineRepository(pool), articleRepo,
			postgres.NewHistoryRepository(pool), catalogRepo, dommov.NewNumbering(""), zerolog.Nop()),
		stockID: stock.ID,
	}
}

func (f *pgFixture) article(t *testing.T, qty int64) string {
	t.Helper()
	a, err := f.articles.Create(context.Background(), dto.CreateArticleRequest{
		Code:            "PG-" + uuid.NewString()[:8],
		Description:     "Article PG",
		StockID:         f.stockID,
		InitialQuantity: decimal.NewFromInt(qty),
	})
	require.NoError(t, err)
	return a.ID
}

func (f *pgFixture) exit(t *testing.T, articleID string, qty int64) string {
	t.Helper()
	m, err := f.uc.Create(context.Background(), magasinier, dto.CreateMovementRequest{
		Kind:         entity.MovementKindExitFinal,
		Description:  "Sortie PG",
		Counterparty: "Atelier",
		Department:   "Maintenance",
		Lines:        []dto.LineRequest{{ArticleID: articleID, Quantity: decimal.NewFromInt(qty)}},
	})
	require.NoError(t, err)
	return m.ID
}

func (f *pgFixture) quantity(t *testing.T, articleID string) decimal.Decimal {
	t.Helper()
	a, err := f.articles.GetByID(context.Background(), articleID)
	require.NoError(t, err)
	return a.Quantity
}

// ──────────────────────────────────────────────────────────────────────────────
// Ledger con bloqueos reales
// ──────────────────────────────────────────────────────────────────────────────

func TestPostgres_SalidasConcurrentesAgotanElStock(t *testing.T) {
	f := newPGFixture(t, 5*time.Second)
	a := f.article(t, 10)
	ids := []string{f.exit(t, a, 6), f.exit(t, a, 4)}

	var g errgroup.Group
	for _, id := range ids {
		g.Go(func() error {
			_, err := f.uc.Validate(context.Background(), magasinier, id)
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.True(t, f.quantity(t, a).IsZero())

	for _, id := range ids {
		got, err := f.uc.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, entity.MovementStatusValidated, got.Status)
		require.NotNil(t, got.Lines[0].StockAfter)
	}
}

func TestPostgres_SalidasConcurrentesNoDejanStockNegativo(t *testing.T) {
	f := newPGFixture(t, 5*time.Second)
	a := f.article(t, 10)
	ids := []string{f.exit(t, a, 7), f.exit(t, a, 7)}

	errs := make([]error, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			_, errs[i] = f.uc.Validate(context.Background(), magasinier, id)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
	}
	assert.Equal(t, 1, failed)
	assert.True(t, f.quantity(t, a).Equal(decimal.NewFromInt(3)))
}

func TestPostgres_LockTimeoutCortaLaEspera(t *testing.T) {
	f := newPGFixture(t, 100*time.Millisecond)
	a := f.article(t, 1)
	ctx := context.Background()

	holder, err := f.pool.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = holder.Rollback(ctx) }()
	_, err = holder.Exec(ctx, `SELECT id FROM articles WHERE id = $1 FOR UPDATE`, a)
	require.NoError(t, err)

	runner := postgres.NewTxRunner(f.pool, 100*time.Millisecond)
	start := time.Now()
	err = runner.Run(ctx, func(
		_ repository.MovementRepository,
		_ repository.MovementLineRepository,
		articleRepo repository.ArticleRepository,
		_ repository.HistoryRepository,
	) error {
		_, err := articleRepo.GetForUpdate(ctx, a)
		return err
	})
	require.Error(t, err)
	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr), err.Error())
	assert.Equal(t, "55P03", pgErr.Code)
	assert.Less(t, time.Since(start), 3*time.Second)
}

// ──────────────────────────────────────────────────────────────────────────────
// Referencial
// ──────────────────────────────────────────────────────────────────────────────

func TestPostgres_PlatinageYFase(t *testing.T) {
	f := newPGFixture(t, time.Second)
	ctx := context.Background()
	a := f.article(t, 0)
	eq, err := f.ref.CreateEquipment(ctx, dto.CreateEquipmentRequest{Tag: "E-" + uuid.NewString()[:8]})
	require.NoError(t, err)
	typ, err := f.ref.CreatePlatinageType(ctx, dto.CreatePlatinageTypeRequest{Name: "Type " + uuid.NewString()})
	require.NoError(t, err)

	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	p, err := f.ref.CreatePlatinage(ctx, dto.CreatePlatinageRequest{
		EquipmentID: eq.ID, ArticleID: a, TypeID: typ.ID, Mark: "R-1", StartDate: &start, EndDate: &end,
	})
	require.NoError(t, err)
	got, err := f.ref.GetPlatinage(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.StartDate)
	assert.True(t, got.StartDate.Equal(start))

	_, err = f.ref.CreatePlatinage(ctx, dto.CreatePlatinageRequest{EquipmentID: eq.ID, ArticleID: "nada", TypeID: typ.ID, Mark: "R-2"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	phase, err := f.ref.CreatePhase(ctx, dto.CreatePhaseRequest{Name: "Phase " + uuid.NewString(), PlatinageIDs: []string{p.ID}})
	require.NoError(t, err)
	stored, err := f.ref.GetPhase(ctx, phase.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{p.ID}, stored.PlatinageIDs)

	empty, err := f.ref.CreatePhase(ctx, dto.CreatePhaseRequest{Name: "Phase " + uuid.NewString()})
	require.NoError(t, err)
	stored, err = f.ref.GetPhase(ctx, empty.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.PlatinageIDs)

	_, err = f.ref.CreatePhase(ctx, dto.CreatePhaseRequest{Name: "Phase " + uuid.NewString(), PlatinageIDs: []string{"nada"}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
