package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-prep/internal/application/catalog"
	"github.com/jhoicas/gestion-prep/internal/application/dto"
	"github.com/jhoicas/gestion-prep/internal/application/movement"
	"github.com/jhoicas/gestion-prep/internal/application/report"
	dommov "github.com/jhoicas/gestion-prep/internal/domain/movement"
	"github.com/jhoicas/gestion-prep/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/gestion-prep/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/gestion-prep/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type testServer struct {
	app       *fiber.App
	articleID string
}

// newTestServer arma la API completa sobre el store en memoria con un artículo de 100 unidades.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.New()
	ctx := context.Background()

	refUC := catalog.NewReferentialUseCase(store.Catalog())
	articleUC := catalog.NewArticleUseCase(store.Articles(), store.Catalog())
	site, err := refUC.CreateSite(ctx, dto.CreateSiteRequest{Name: "Skikda"})
	require.NoError(t, err)
	stock, err := refUC.CreateStock(ctx, dto.CreateStockRequest{Name: "Magasin central", SiteID: site.ID, Location: "A1"})
	require.NoError(t, err)
	article, err := articleUC.Create(ctx, dto.CreateArticleRequest{
		Code:            "A",
		Description:     "Joint spiralé",
		StockID:         stock.ID,
		InitialQuantity: decimal.NewFromInt(100),
		AlertThreshold:  decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	movementUC := movement.NewMovementUseCase(store, store.Movements(), store.Lines(), store.Articles(),
		store.History(), store.Catalog(), dommov.NewNumbering(""), zerolog.Nop())
	pdfUC := report.NewPDFUseCase(store.Movements(), store.Lines(), store.Articles(), store.Catalog(),
		infrapdf.NewMarotoPDFGenerator(), "GESTION PREP")

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		MovementUC:    movementUC,
		ArticleUC:     articleUC,
		LowStockUC:    catalog.NewLowStockUseCase(store.Articles()),
		ReferentialUC: refUC,
		MovementPDF:   pdfUC,
		JWTSecret:     testJWTSecret,
	})
	return &testServer{app: app, articleID: article.ID}
}

func (s *testServer) do(t *testing.T, method, path, role string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (s *testServer) createExit(t *testing.T, qty int64) dto.MovementResponse {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/movements", "technicien", dto.CreateMovementRequest{
		Kind:         "SORTIE_DEFINITIVE",
		Description:  "Remplacement joint pompe P-101",
		Counterparty: "Atelier mécanique",
		Department:   "Maintenance",
		Lines:        []dto.LineRequest{{ArticleID: s.articleID, Quantity: decimal.NewFromInt(qty)}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.MovementResponse](t, resp)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de rutas de BMM
// ──────────────────────────────────────────────────────────────────────────────

func TestMovements_SinToken_Retorna401(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/api/movements", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMovements_CrearYValidar_DescuentaStock(t *testing.T) {
	s := newTestServer(t)
	created := s.createExit(t, 30)
	assert.Equal(t, "BMM1", created.Number)
	assert.Equal(t, "BROUILLON", created.Status)
	require.Len(t, created.Lines, 1)

	resp := s.do(t, http.MethodPost, "/api/movements/"+created.ID+"/validate", "magasinier", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	validated := decode[dto.MovementResponse](t, resp)
	assert.Equal(t, "VALIDE", validated.Status)
	require.Len(t, validated.Lines, 1)
	require.NotNil(t, validated.Lines[0].StockBefore)
	require.NotNil(t, validated.Lines[0].StockAfter)
	assert.True(t, validated.Lines[0].StockBefore.Equal(decimal.NewFromInt(100)))
	assert.True(t, validated.Lines[0].StockAfter.Equal(decimal.NewFromInt(70)))

	article := decode[dto.ArticleResponse](t, s.do(t, http.MethodGet, "/api/articles/"+s.articleID, "technicien", nil))
	assert.True(t, article.Quantity.Equal(decimal.NewFromInt(70)), "stock esperado 70, obtenido %s", article.Quantity)

	history := decode[[]dto.HistoryEntryResponse](t, s.do(t, http.MethodGet, "/api/movements/"+created.ID+"/history", "technicien", nil))
	require.Len(t, history, 2)
	assert.Equal(t, "CREATION", history[0].Action)
	assert.Equal(t, "VALIDATION", history[1].Action)
	assert.Equal(t, "Validation du mouvement BMM1", history[1].Details)
}

func TestMovements_TechnicienNoPuedeValidar(t *testing.T) {
	s := newTestServer(t)
	created := s.createExit(t, 5)

	resp := s.do(t, http.MethodPost, "/api/movements/"+created.ID+"/validate", "technicien", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestMovements_DobleValidacion_Retorna409(t *testing.T) {
	s := newTestServer(t)
	created := s.createExit(t, 5)

	first := s.do(t, http.MethodPost, "/api/movements/"+created.ID+"/validate", "admin", nil)
	first.Body.Close()
	require.Equal(t, http.StatusOK, first.StatusCode)

	second := s.do(t, http.MethodPost, "/api/movements/"+created.ID+"/validate", "admin", nil)
	body := decode[dto.ErrorResponse](t, second)
	assert.Equal(t, http.StatusConflict, second.StatusCode)
	assert.Equal(t, "IMMUTABLE_MOVEMENT", body.Code)

	article := decode[dto.ArticleResponse](t, s.do(t, http.MethodGet, "/api/articles/"+s.articleID, "admin", nil))
	assert.True(t, article.Quantity.Equal(decimal.NewFromInt(95)), "la segunda validación no debe volver a descontar")
}

func TestMovements_StockInsuficiente_Retorna422ConCampos(t *testing.T) {
	s := newTestServer(t)
	first := s.createExit(t, 80)
	second := s.createExit(t, 80)

	ok := s.do(t, http.MethodPost, "/api/movements/"+first.ID+"/validate", "magasinier", nil)
	ok.Body.Close()
	require.Equal(t, http.StatusOK, ok.StatusCode)

	resp := s.do(t, http.MethodPost, "/api/movements/"+second.ID+"/validate", "magasinier", nil)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)
	require.Contains(t, body.Fields, "lignes.1.quantite")
	assert.Contains(t, body.Fields["lignes.1.quantite"][0], "Stock disponible: 20")

	doc := decode[dto.MovementResponse](t, s.do(t, http.MethodGet, "/api/movements/"+second.ID, "magasinier", nil))
	assert.Equal(t, "BROUILLON", doc.Status)
}

func TestMovements_CrearSinDescripcion_Retorna422(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/movements", "technicien", dto.CreateMovementRequest{Kind: "ENTREE"})
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body.Fields, "description_bmm")
}

func TestMovements_NoExiste_Retorna404(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/api/movements/no-existe", "admin", nil)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

func TestMovements_FiltroDeEstadoInvalido_Retorna400(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/api/movements?statut=PERDU", "admin", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMovements_BulkValidate_ResultadoPorDocumento(t *testing.T) {
	s := newTestServer(t)
	a := s.createExit(t, 10)
	b := s.createExit(t, 10)
	cancel := s.do(t, http.MethodPost, "/api/movements/"+b.ID+"/cancel", "technicien", nil)
	cancel.Body.Close()
	require.Equal(t, http.StatusOK, cancel.StatusCode)

	resp := s.do(t, http.MethodPost, "/api/movements/bulk/validate", "admin", dto.BulkRequest{IDs: []string{a.ID, b.ID}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decode[dto.BulkResult](t, resp)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Items, 2)
	assert.True(t, result.Items[0].Success)
	assert.False(t, result.Items[1].Success)
}

func TestMovements_PDF(t *testing.T) {
	s := newTestServer(t)
	created := s.createExit(t, 3)

	resp := s.do(t, http.MethodGet, "/api/movements/"+created.ID+"/pdf", "technicien", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "BMM1.pdf")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de artículos y referencial
// ──────────────────────────────────────────────────────────────────────────────

func TestArticles_EliminarReferenciado_Retorna409(t *testing.T) {
	s := newTestServer(t)
	s.createExit(t, 1)

	resp := s.do(t, http.MethodDelete, "/api/articles/"+s.articleID, "admin", nil)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", body.Code)
}

func TestArticles_LowStock(t *testing.T) {
	s := newTestServer(t)
	created := s.createExit(t, 95)
	ok := s.do(t, http.MethodPost, "/api/movements/"+created.ID+"/validate", "admin", nil)
	ok.Body.Close()
	require.Equal(t, http.StatusOK, ok.StatusCode)

	resp := s.do(t, http.MethodGet, "/api/articles/low-stock", "technicien", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[struct {
		Total  int                    `json:"total"`
		Alerts []dto.LowStockAlertDTO `json:"alerts"`
	}](t, resp)
	require.Equal(t, 1, body.Total)
	assert.True(t, body.Alerts[0].Deficit.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, 1, body.Alerts[0].Priority)
}

func TestReferential_SitioDuplicado_Retorna409(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/sites", "admin", dto.CreateSiteRequest{Name: "Skikda"})
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", body.Code)
}

func TestReferential_UnidadConSitioInexistente_Retorna404(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/units", "admin", dto.CreateUnitRequest{SiteID: "nope", Name: "U1"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReferential_PlatinageYFase(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/equipements", "admin", dto.CreateEquipmentRequest{Tag: "E-301"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	eq := decode[dto.EquipmentResponse](t, resp)
	resp = s.do(t, http.MethodPost, "/api/types-platinage", "admin", dto.CreatePlatinageTypeRequest{Name: "Dépose"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	typ := decode[dto.PlatinageTypeResponse](t, resp)

	start := time.Date(2026, 4, 1, 6, 0, 0, 0, time.UTC)
	before := start.Add(-time.Hour)
	resp = s.do(t, http.MethodPost, "/api/platinages", "magasinier", dto.CreatePlatinageRequest{
		EquipmentID: eq.ID, ArticleID: s.articleID, TypeID: typ.ID, Mark: "R-7", StartDate: &start, EndDate: &before,
	})
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body.Fields, "date_fin")

	resp = s.do(t, http.MethodPost, "/api/platinages", "magasinier", dto.CreatePlatinageRequest{
		EquipmentID: eq.ID, ArticleID: s.articleID, TypeID: typ.ID, Mark: "R-7", StartDate: &start,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	p := decode[dto.PlatinageResponse](t, resp)

	resp = s.do(t, http.MethodGet, "/api/platinages?equipement="+eq.ID, "technicien", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]dto.PlatinageResponse](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)

	resp = s.do(t, http.MethodPost, "/api/phases", "admin", dto.CreatePhaseRequest{Name: "Arrêt 2026", PlatinageIDs: []string{p.ID}})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	phase := decode[dto.PhaseResponse](t, resp)

	resp = s.do(t, http.MethodGet, "/api/phases/"+phase.ID, "technicien", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{p.ID}, decode[dto.PhaseResponse](t, resp).PlatinageIDs)

	resp = s.do(t, http.MethodGet, "/api/platinages/nada", "technicien", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
