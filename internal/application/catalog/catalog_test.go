package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-prep/internal/application/catalog"
	"github.com/jhoicas/gestion-prep/internal/application/dto"
	"github.com/jhoicas/gestion-prep/internal/domain"
	"github.com/jhoicas/gestion-prep/internal/domain/entity"
	"github.com/jhoicas/gestion-prep/internal/infrastructure/memory"
)

func setup(t *testing.T) (*catalog.ReferentialUseCase, *catalog.ArticleUseCase, *catalog.LowStockUseCase, string) {
	t.Helper()
	store := memory.New()
	ref := catalog.NewReferentialUseCase(store.Catalog())
	site, err := ref.CreateSite(context.Background(), dto.CreateSiteRequest{Name: "Hassi R'Mel"})
	require.NoError(t, err)
	stock, err := ref.CreateStock(context.Background(), dto.CreateStockRequest{Name: "Magasin 1", SiteID: site.ID, Location: "R3"})
	require.NoError(t, err)
	return ref, catalog.NewArticleUseCase(store.Articles(), store.Catalog()), catalog.NewLowStockUseCase(store.Articles()), stock.ID
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// ──────────────────────────────────────────────────────────────────────────────
// Referencial
// ──────────────────────────────────────────────────────────────────────────────

func TestReferential_JerarquiaCompleta(t *testing.T) {
	ref, _, _, _ := setup(t)
	ctx := context.Background()

	sites, err := ref.ListSites(ctx)
	require.NoError(t, err)
	require.Len(t, sites, 1)

	unit, err := ref.CreateUnit(ctx, dto.CreateUnitRequest{SiteID: sites[0].ID, Name: "GL1K"})
	require.NoError(t, err)
	train, err := ref.CreateTrain(ctx, dto.CreateTrainRequest{UnitID: unit.ID, Name: "Train 100"})
	require.NoError(t, err)
	eq, err := ref.CreateEquipment(ctx, dto.CreateEquipmentRequest{Tag: "P-101A", TrainID: train.ID})
	require.NoError(t, err)

	got, err := ref.GetEquipment(ctx, eq.ID)
	require.NoError(t, err)
	assert.Equal(t, "P-101A", got.Tag)

	list, err := ref.ListEquipment(ctx, train.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	units, err := ref.ListUnits(ctx, "otro-sitio")
	require.NoError(t, err)
	assert.Empty(t, units)
}

func TestReferential_PadreInexistente(t *testing.T) {
	ref, _, _, _ := setup(t)
	ctx := context.Background()
	_, err := ref.CreateUnit(ctx, dto.CreateUnitRequest{SiteID: "nada", Name: "U"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = ref.CreateTrain(ctx, dto.CreateTrainRequest{UnitID: "nada", Name: "T"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = ref.CreateEquipment(ctx, dto.CreateEquipmentRequest{Tag: "X", TrainID: "nada"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReferential_Duplicados(t *testing.T) {
	ref, _, _, _ := setup(t)
	ctx := context.Background()
	_, err := ref.CreateSite(ctx, dto.CreateSiteRequest{Name: " Hassi R'Mel "})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "el nombre se normaliza antes de comparar")

	_, err = ref.CreateEquipment(ctx, dto.CreateEquipmentRequest{Tag: "K-201"})
	require.NoError(t, err)
	_, err = ref.CreateEquipment(ctx, dto.CreateEquipmentRequest{Tag: "K-201"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestReferential_StockValidaTipoYEmplazamiento(t *testing.T) {
	ref, _, _, _ := setup(t)
	sites, err := ref.ListSites(context.Background())
	require.NoError(t, err)

	_, err = ref.CreateStock(context.Background(), dto.CreateStockRequest{Name: "S", SiteID: sites[0].ID, Type: "CAVE"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields(), "emplacement")
	assert.Contains(t, verr.Fields(), "type_stock")

	s, err := ref.CreateStock(context.Background(), dto.CreateStockRequest{Name: "S", SiteID: sites[0].ID, Location: "Z"})
	require.NoError(t, err)
	assert.Equal(t, entity.StockTypeMagasin, s.Type)
}

func TestReferential_NombreObligatorio(t *testing.T) {
	ref, _, _, _ := setup(t)
	_, err := ref.CreateCategory(context.Background(), dto.CreateCategoryRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)
}

// ──────────────────────────────────────────────────────────────────────────────
// Artículos
// ──────────────────────────────────────────────────────────────────────────────

func TestArticle_CreaConStockInicial(t *testing.T) {
	_, uc, _, stockID := setup(t)
	a, err := uc.Create(context.Background(), dto.CreateArticleRequest{
		Code: "VAN-02", Description: "Vanne 2\"", StockID: stockID,
		InitialQuantity: d(12), AlertThreshold: d(4),
	})
	require.NoError(t, err)
	assert.True(t, a.Quantity.Equal(d(12)))
	assert.False(t, a.LowStock)

	_, err = uc.Create(context.Background(), dto.CreateArticleRequest{Code: "VAN-02", Description: "otra", StockID: stockID})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestArticle_Validaciones(t *testing.T) {
	_, uc, _, _ := setup(t)
	price := d(-1)
	_, err := uc.Create(context.Background(), dto.CreateArticleRequest{
		StockID: "no-existe", Price: &price, Currency: "JPY", InitialQuantity: d(-2), CategoryID: "nada",
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	fields := verr.Fields()
	for _, f := range []string{"code_article", "description", "stock", "prix", "devise", "quantite_initiale", "categorie"} {
		assert.Contains(t, fields, f)
	}
}

func TestArticle_PrecioExigeDivisa(t *testing.T) {
	_, uc, _, stockID := setup(t)
	price := d(10)
	_, err := uc.Create(context.Background(), dto.CreateArticleRequest{Code: "C", Description: "c", StockID: stockID, Price: &price})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields(), "devise")

	a, err := uc.Create(context.Background(), dto.CreateArticleRequest{Code: "C", Description: "c", StockID: stockID, Price: &price, Currency: entity.CurrencyDZD})
	require.NoError(t, err)
	assert.Equal(t, entity.CurrencyDZD, a.Currency)
}

func TestArticle_UpdateNoTocaCantidad(t *testing.T) {
	_, uc, _, stockID := setup(t)
	ctx := context.Background()
	a, err := uc.Create(ctx, dto.CreateArticleRequest{Code: "B", Description: "b", StockID: stockID, InitialQuantity: d(8)})
	require.NoError(t, err)

	desc := "Boulon M16"
	threshold := d(9)
	out, err := uc.Update(ctx, a.ID, dto.UpdateArticleRequest{Description: &desc, AlertThreshold: &threshold})
	require.NoError(t, err)
	assert.Equal(t, desc, out.Description)
	assert.True(t, out.Quantity.Equal(d(8)))
	assert.True(t, out.LowStock)

	_, err = uc.Update(ctx, "nada", dto.UpdateArticleRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestArticle_DeleteYList(t *testing.T) {
	_, uc, _, stockID := setup(t)
	ctx := context.Background()
	a, err := uc.Create(ctx, dto.CreateArticleRequest{Code: "G", Description: "g", StockID: stockID})
	require.NoError(t, err)

	list, err := uc.List(ctx, dto.ListArticlesRequest{StockID: stockID})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	require.NoError(t, uc.Delete(ctx, a.ID))
	_, err = uc.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Platinages
// ──────────────────────────────────────────────────────────────────────────────

type platinageFixture struct {
	ref         *catalog.ReferentialUseCase
	articles    *catalog.ArticleUseCase
	equipmentID string
	articleID   string
	typeID      string
}

func setupPlatinage(t *testing.T) platinageFixture {
	t.Helper()
	ref, articles, _, stockID := setup(t)
	ctx := context.Background()
	eq, err := ref.CreateEquipment(ctx, dto.CreateEquipmentRequest{Tag: "E-201"})
	require.NoError(t, err)
	a, err := articles.Create(ctx, dto.CreateArticleRequest{Code: "PLT-6", Description: "Platine 6\"", StockID: stockID})
	require.NoError(t, err)
	typ, err := ref.CreatePlatinageType(ctx, dto.CreatePlatinageTypeRequest{Name: "Pose"})
	require.NoError(t, err)
	return platinageFixture{ref: ref, articles: articles, equipmentID: eq.ID, articleID: a.ID, typeID: typ.ID}
}

func (f platinageFixture) request(mark string) dto.CreatePlatinageRequest {
	return dto.CreatePlatinageRequest{EquipmentID: f.equipmentID, ArticleID: f.articleID, TypeID: f.typeID, Mark: mark}
}

func TestPlatinage_AltaYConsulta(t *testing.T) {
	f := setupPlatinage(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(72 * time.Hour)

	in := f.request("R-12")
	in.StartDate, in.EndDate = &start, &end
	p, err := f.ref.CreatePlatinage(ctx, in)
	require.NoError(t, err)
	_, err = f.ref.CreatePlatinage(ctx, f.request("R-03"))
	require.NoError(t, err)

	got, err := f.ref.GetPlatinage(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "R-12", got.Mark)
	require.NotNil(t, got.EndDate)
	assert.True(t, got.EndDate.Equal(end))

	list, err := f.ref.ListPlatinages(ctx, f.equipmentID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "R-03", list[0].Mark)
	none, err := f.ref.ListPlatinages(ctx, "otro-equipo")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = f.ref.GetPlatinage(ctx, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPlatinage_FechaFinDebeSerPosterior(t *testing.T) {
	f := setupPlatinage(t)
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	for _, end := range []time.Time{start, start.Add(-time.Hour)} {
		in := f.request("R-1")
		in.StartDate, in.EndDate = &start, &end
		_, err := f.ref.CreatePlatinage(context.Background(), in)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields(), "date_fin")
	}

	// Una sola fecha no se compara.
	in := f.request("R-1")
	in.EndDate = &start
	_, err := f.ref.CreatePlatinage(context.Background(), in)
	assert.NoError(t, err)
}

func TestPlatinage_RepereObligatorioYReferencias(t *testing.T) {
	f := setupPlatinage(t)
	ctx := context.Background()

	_, err := f.ref.CreatePlatinage(ctx, f.request(" "))
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)

	for _, mutate := range []func(*dto.CreatePlatinageRequest){
		func(r *dto.CreatePlatinageRequest) { r.EquipmentID = "nada" },
		func(r *dto.CreatePlatinageRequest) { r.ArticleID = "nada" },
		func(r *dto.CreatePlatinageRequest) { r.TypeID = "nada" },
	} {
		in := f.request("R-1")
		mutate(&in)
		_, err := f.ref.CreatePlatinage(ctx, in)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}

	_, err = f.ref.CreatePlatinageType(ctx, dto.CreatePlatinageTypeRequest{Name: "Pose"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestPhase_AgrupaPlatinages(t *testing.T) {
	f := setupPlatinage(t)
	ctx := context.Background()
	p1, err := f.ref.CreatePlatinage(ctx, f.request("R-1"))
	require.NoError(t, err)
	p2, err := f.ref.CreatePlatinage(ctx, f.request("R-2"))
	require.NoError(t, err)

	phase, err := f.ref.CreatePhase(ctx, dto.CreatePhaseRequest{Name: "Arrêt T100", PlatinageIDs: []string{p2.ID, p1.ID, p2.ID}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{p1.ID, p2.ID}, phase.PlatinageIDs)

	got, err := f.ref.GetPhase(ctx, phase.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{p1.ID, p2.ID}, got.PlatinageIDs)

	_, err = f.ref.CreatePhase(ctx, dto.CreatePhaseRequest{Name: "Arrêt T100"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = f.ref.CreatePhase(ctx, dto.CreatePhaseRequest{Name: "Arrêt T200", PlatinageIDs: []string{"nada"}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	empty, err := f.ref.CreatePhase(ctx, dto.CreatePhaseRequest{Name: "Arrêt T300"})
	require.NoError(t, err)
	assert.Empty(t, empty.PlatinageIDs)

	phases, err := f.ref.ListPhases(ctx)
	require.NoError(t, err)
	require.Len(t, phases, 2)
	assert.Equal(t, "Arrêt T100", phases[0].Name)
}

func TestPlatinage_BorrarArticuloLosElimina(t *testing.T) {
	f := setupPlatinage(t)
	ctx := context.Background()
	p, err := f.ref.CreatePlatinage(ctx, f.request("R-1"))
	require.NoError(t, err)
	phase, err := f.ref.CreatePhase(ctx, dto.CreatePhaseRequest{Name: "Arrêt", PlatinageIDs: []string{p.ID}})
	require.NoError(t, err)

	require.NoError(t, f.articles.Delete(ctx, f.articleID))

	_, err = f.ref.GetPlatinage(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	got, err := f.ref.GetPhase(ctx, phase.ID)
	require.NoError(t, err)
	assert.Empty(t, got.PlatinageIDs)
}

// ──────────────────────────────────────────────────────────────────────────────
// Alertas de stock
// ──────────────────────────────────────────────────────────────────────────────

func TestLowStock_OrdenaPorDeficit(t *testing.T) {
	_, uc, low, stockID := setup(t)
	ctx := context.Background()
	for _, a := range []dto.CreateArticleRequest{
		{Code: "OK", Description: "ok", StockID: stockID, InitialQuantity: d(50), AlertThreshold: d(10)},
		{Code: "LIMITE", Description: "en el umbral", StockID: stockID, InitialQuantity: d(10), AlertThreshold: d(10)},
		{Code: "URGENTE", Description: "agotado", StockID: stockID, InitialQuantity: d(0), AlertThreshold: d(20)},
	} {
		_, err := uc.Create(ctx, a)
		require.NoError(t, err)
	}

	alerts, err := low.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, "URGENTE", alerts[0].Code)
	assert.Equal(t, 1, alerts[0].Priority)
	assert.True(t, alerts[0].Deficit.Equal(d(20)))
	assert.Equal(t, "LIMITE", alerts[1].Code)
	assert.True(t, alerts[1].Deficit.IsZero())
	assert.Equal(t, 2, alerts[1].Priority)
}
