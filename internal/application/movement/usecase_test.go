package movement_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

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
	"github.com/jhoicas/gestion-prep/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

var (
	magasinier = entity.Actor{UserID: "u-mag", Role: entity.RoleMagasinier}
	technicien = entity.Actor{UserID: "u-tec", Role: entity.RoleTechnicien}
)

type fixture struct {
	uc       *movement.MovementUseCase
	articles *catalog.ArticleUseCase
	stockID  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	ctx := context.Background()
	ref := catalog.NewReferentialUseCase(store.Catalog())
	site, err := ref.CreateSite(ctx, dto.CreateSiteRequest{Name: "Arzew"})
	require.NoError(t, err)
	stock, err := ref.CreateStock(ctx, dto.CreateStockRequest{Name: "Magasin GNL", SiteID: site.ID, Location: "B2"})
	require.NoError(t, err)
	return &fixture{
		uc: movement.NewMovementUseCase(store, store.Movements(), store.Lines(), store.Articles(),
			store.History(), store.Catalog(), dommov.NewNumbering(""), zerolog.Nop()),
		articles: catalog.NewArticleUseCase(store.Articles(), store.Catalog()),
		stockID:  stock.ID,
	}
}

func (f *fixture) article(t *testing.T, code string, qty int64) string {
	t.Helper()
	a, err := f.articles.Create(context.Background(), dto.CreateArticleRequest{
		Code:            code,
		Description:     "Article " + code,
		StockID:         f.stockID,
		InitialQuantity: decimal.NewFromInt(qty),
	})
	require.NoError(t, err)
	return a.ID
}

func (f *fixture) quantity(t *testing.T, articleID string) decimal.Decimal {
	t.Helper()
	a, err := f.articles.GetByID(context.Background(), articleID)
	require.NoError(t, err)
	return a.Quantity
}

func (f *fixture) draft(t *testing.T, kind string, lines ...dto.LineRequest) *dto.MovementResponse {
	t.Helper()
	m, err := f.uc.Create(context.Background(), magasinier, dto.CreateMovementRequest{
		Kind:         kind,
		Description:  "Bon de test",
		Counterparty: "Atelier mécanique",
		Department:   "Maintenance",
		Lines:        lines,
	})
	require.NoError(t, err)
	return m
}

func ln(articleID string, qty int64) dto.LineRequest {
	return dto.LineRequest{ArticleID: articleID, Quantity: decimal.NewFromInt(qty)}
}

func fields(t *testing.T, err error) map[string][]string {
	t.Helper()
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Fields()
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación y numeración
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_NumeraYRegistraCreacion(t *testing.T) {
	f := newFixture(t)
	a := f.article(t, "A", 10)

	m := f.draft(t, entity.MovementKindEntry, ln(a, 5))
	assert.Equal(t, "BMM1", m.Number)
	assert.Equal(t, entity.MovementStatusDraft, m.Status)
	assert.Equal(t, 1, m.LineCount)
	require.Len(t, m.Lines, 1)
	assert.Nil(t, m.Lines[0].StockBefore, "el snapshot solo se fija al validar")

	m2 := f.draft(t, entity.MovementKindEntry)
	assert.Equal(t, "BMM2", m2.Number)

	hist, err := f.uc.History(context.Background(), m.ID)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, entity.HistoryActionCreation, hist[0].Action)
	assert.Equal(t, "Création du mouvement BMM1", hist[0].Details)
	assert.Equal(t, magasinier.UserID, hist[0].UserID)
}

func TestCreate_SinDescripcion(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), magasinier, dto.CreateMovementRequest{Kind: entity.MovementKindEntry})
	assert.Contains(t, fields(t, err), dommov.FieldDescription)
}

func TestCreate_SinActor(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), entity.Actor{}, dto.CreateMovementRequest{Description: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCreate_ArticuloRepetido(t *testing.T) {
	f := newFixture(t)
	a := f.article(t, "A", 10)
	_, err := f.uc.Create(context.Background(), magasinier, dto.CreateMovementRequest{
		Kind:        entity.MovementKindEntry,
		Description: "doble",
		Lines:       []dto.LineRequest{ln(a, 1), ln(a, 2)},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateArticleInDocument)
	assert.Contains(t, fields(t, err), dommov.LineField(2, dommov.FieldArticle))
}

func TestCreate_NumeracionConcurrenteSinHuecosNiRepetidos(t *testing.T) {
	f := newFixture(t)
	const n = 12

	numbers := make([]string, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			m, err := f.uc.Create(context.Background(), magasinier, dto.CreateMovementRequest{Description: fmt.Sprintf("bon %d", i)})
			if err != nil {
				return err
			}
			numbers[i] = m.Number
			return nil
		})
	}
	require.NoError(t, g.Wait())

	want := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		want = append(want, fmt.Sprintf("BMM%d", i))
	}
	assert.ElementsMatch(t, want, numbers)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_SalidaDescuentaYFijaSnapshots(t *testing.T) {
	f := newFixture(t)
	a := f.article(t, "A", 100)
	m := f.draft(t, entity.MovementKindExitFinal, ln(a, 30))

	out, err := f.uc.Validate(context.Background(), magasinier, m.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStatusValidated, out.Status)
	assert.Equal(t, magasinier.UserID, out.ValidatedBy)
	require.NotNil(t, out.ValidatedAt)
	require.Len(t, out.Lines, 1)
	require.NotNil(t, out.Lines[0].StockBefore)
	assert.True(t, out.Lines[0].StockBefore.Equal(decimal.NewFromInt(100)))
	assert.True(t, out.Lines[0].StockAfter.Equal(decimal.NewFromInt(70)))
	assert.True(t, f.quantity(t, a).Equal(decimal.NewFromInt(70)))

	hist, err := f.uc.History(context.Background(), m.ID)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, entity.HistoryActionCreation, hist[0].Action)
	assert.Equal(t, entity.HistoryActionValidation, hist[1].Action)
	assert.Equal(t, "Validation du mouvement BMM1", hist[1].Details)
}

func TestValidate_EntradaSuma(t *testing.T) {
	f := newFixture(t)
	a := f.article(t, "A", 3)
	m := f.draft(t, entity.MovementKindEntry, ln(a, 7))
	_, err := f.uc.Validate(context.Background(), magasinier, m.ID)
	require.NoError(t, err)
	assert.True(t, f.quantity(t, a).Equal(decimal.NewFromInt(10)))
}

func TestValidate_StockInsuficiente_SinEscriturasParciales(t *testing.T) {
	f := newFixture(t)
	a := f.article(t, "A", 50)
	b := f.article(t, "B", 5)
	m := f.draft(t, entity.MovementKindExitFinal, ln(a, 10), ln(b, 5))

	// Otra salida consume B antes de validar el primer documento.
	other := f.draft(t, entity.MovementKindExitFinal, ln(b, 2))
	_, err := f.uc.Validate(context.Background(), magasinier, other.ID)
	require.NoError(t, err)

	_, err = f.uc.Validate(context.Background(), magasinier, m.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	msgs := fields(t, err)[dommov.LineField(2, dommov.FieldQuantity)]
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "Stock disponible: 3")

	assert.True(t, f.quantity(t, a).Equal(decimal.NewFromInt(50)), "la línea 1 no debe aplicarse")
	assert.True(t, f.quantity(t, b).Equal(decimal.NewFromInt(3)))

	got, err := f.uc.Get(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStatusDraft, got.Status)
	assert.Nil(t, got.Lines[0].StockBefore)
	hist, err := f.uc.History(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Len(t, hist, 1, "sin entrada VALIDATION")
}

func TestValidate_BorradorSobreStockSeRechazaAlValidar(t *testing.T) {
	f := newFixture(t)
	a := f.article(t, "A", 10)
	m := f.draft(t, entity.MovementKindExitFinal, ln(a, 50))
	assert.Equal(t, entity.MovementStatusDraft, m.Status)

	_, err := f.uc.Validate(context.Background(), magasinier, m.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	got, err := f.uc.Get(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStatusDraft, got.Status)
	assert.True(t, f.quantity(t, a).Equal(decimal.NewFromInt(10)))
}

func TestValidate_DosSalidasConcurrentesAgotanElStock(t *testing.T) {
	f := newFixture(t)
	a := f.article(t, "A", 10)
	d3 := f.draft(t, entity.MovementKindExitFinal, ln(a, 5))
	d4 := f.draft(t, entity.MovementKindExitFinal, ln(a, 5))

	var g errgroup.Group
	for _, id := range []string{d3.ID, d4.ID} {
		g.Go(func() error {
			_, err := f.uc.Validate(context.Background(), magasinier, id)
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.True(t, f.quantity(t, a).IsZero(), "sin actualizaciones perdidas")
}

func TestValidate_SinLineas(t *testing.T) {
	f := newFixture(t)
	m := f.draft(t, entity.MovementKindEntry)
	_, err := f.uc.Validate(context.Background(), magasinier, m.ID)
	assert.ErrorIs(t, err, domain.ErrEmptyMovement)
}

func TestValidate_PrestamoSinFechaDeRetorno(t *testing.T) {
	f := newFixture(t)
	a := f.article(t, "A", 5)
	m := f.draft(t, entity.MovementKindExitLoan, ln(a, 1))
	_, err := f.uc.Validate(context.Background(), magasinier, m.ID)
	assert.Contains(t, fields(t, err), dommov.FieldExpectedReturnDate)
}

func TestValidate_DosVecesEsInmutable(t *testing.T) {
	f := newFixture(t)
	a := f.article(t, "A", 100)
	m := f.draft(t, entity.MovementKindExitFinal, ln(a, 5))
	_, err := f.uc.Validate(context.Background(), magasinier, m.ID)
	require.NoError(t, err)

	_, err = f.uc.Validate(context.Background(), magasinier, m.ID)
	assert.ErrorIs(t, err, domain.ErrImmutableMovement)
	assert.True(t, f.quantity(t, a).Equal(decimal.NewFromInt(95)), "el delta no se aplica dos veces")
}

func TestValidate_TecnicoNoPuede(t *testing.T) {
	f := newFixture(t)
	a := f.article(t, "A", 100)
	m := f.draft(t, entity.MovementKindExitFinal, ln(a, 5))
	_, err := f.uc.Validate(context.Background(), technicien, m.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestValidate_Inexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Validate(context.Background(), magasinier, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestValidate_SalidasConcurrentesNoDejanStockNegativo(t *testing.T) {
	f := newFixture(t)
	a := f.article(t, "A", 7)
	first := f.draft(t, entity.MovementKindExitFinal, ln(a, 3))
	second := f.draft(t, entity.MovementKindExitFinal, ln(a, 4))
	third := f.draft(t, entity.MovementKindExitFinal, ln(a, 1))

	ids := []string{first.ID, second.ID, third.ID}
	errs := make([]error, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			_, errs[i] = f.uc.Validate(context.Background(), magasinier, id)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var applied int64
	qty := []int64{3, 4, 1}
	for i, err := range errs {
		if err == nil {
			applied += qty[i]
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	}
	assert.LessOrEqual(t, applied, int64(7))
	assert.True(t, f.quantity(t, a).Equal(decimal.NewFromInt(7-applied)))
	assert.False(t, f.quantity(t, a).IsNegative())
}

// ──────────────────────────────────────────────────────────────────────────────
// Anulación y cierre
// ──────────────────────────────────────────────────────────────────────────────

func TestCancel_BorradorSinEfectoEnStock(t *testing.T) {
	f := newFixture(t)
	a := f.article(t, "A", 10)
	m := f.draft(t, entity.MovementKindExitFinal, ln(a, 4))

	out, err := f.uc.Cancel(context.Background(), technicien, m.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStatusCancelled, out.Status)
	assert.True(t, f.quantity(t, a).Equal(decimal.NewFromInt(10)))

	hist, err := f.uc.History(context.Background(), m.ID)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, entity.HistoryActionCancellation, hist[1].Action)
	assert.Equal(t, "Annulation du mouvement BMM1", hist[1].Details)
}

func TestEstadosFinales_NoAdmitenCambios(t *testing.T) {
	f := newFixture(t)
	a := f.article(t, "A", 10)
	ctx := context.Background()

	validated := f.draft(t, entity.MovementKindEntry, ln(a, 1))
	_, err := f.uc.Validate(ctx, magasinier, validated.ID)
	require.NoError(t, err)
	cancelled := f.draft(t, entity.MovementKindEntry, ln(a, 1))
	_, err = f.uc.Cancel(ctx, magasinier, cancelled.ID)
	require.NoError(t, err)

	for name, id := range map[string]string{"validado": validated.ID, "anulado": cancelled.ID} {
		t.Run(name, func(t *testing.T) {
			_, err := f.uc.Cancel(ctx, magasinier, id)
			assert.ErrorIs(t, err, domain.ErrImmutableMovement)
			_, err = f.uc.Validate(ctx, magasinier, id)
			assert.ErrorIs(t, err, domain.ErrImmutableMovement)
			_, err = f.uc.AddLine(ctx, magasinier, id, ln(a, 1))
			assert.ErrorIs(t, err, domain.ErrImmutableMovement)
			assert.ErrorIs(t, f.uc.Delete(ctx, magasinier, id), domain.ErrImmutableMovement)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Edición
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_ValidadoSoloRemarqueYRetorno(t *testing.T) {
	f := newFixture(t)
	a := f.article(t, "A", 10)
	ctx := context.Background()
	m := f.draft(t, entity.MovementKindEntry, ln(a, 1))
	_, err := f.uc.Validate(ctx, magasinier, m.ID)
	require.NoError(t, err)

	desc := "cambiada"
	_, err = f.uc.Update(ctx, magasinier, m.ID, dto.UpdateMovementRequest{Description: &desc})
	assert.ErrorIs(t, err, domain.ErrImmutableMovement)
	assert.Contains(t, fields(t, err), dommov.FieldDescription)

	remark := "retour effectué"
	back := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	out, err := f.uc.Update(ctx, magasinier, m.ID, dto.UpdateMovementRequest{Remark: &remark, ActualReturnDate: &back})
	require.NoError(t, err)
	assert.Equal(t, remark, out.Remark)
	require.NotNil(t, out.ActualReturnDate)
	assert.True(t, out.ActualReturnDate.Equal(back))
	assert.Equal(t, "Bon de test", out.Description)
}

func TestUpdate_VaciarFechasDeRetorno(t *testing.T) {
	f := newFixture(t)
	a := f.article(t, "A", 10)
	ctx := context.Background()
	m := f.draft(t, entity.MovementKindEntry, ln(a, 1))

	planned := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	out, err := f.uc.Update(ctx, magasinier, m.ID, dto.UpdateMovementRequest{ExpectedReturnDate: &planned, ActualReturnDate: &planned})
	require.NoError(t, err)
	require.NotNil(t, out.ExpectedReturnDate)

	out, err = f.uc.Update(ctx, magasinier, m.ID, dto.UpdateMovementRequest{ClearExpectedReturnDate: true})
	require.NoError(t, err)
	assert.Nil(t, out.ExpectedReturnDate)
	assert.NotNil(t, out.ActualReturnDate, "sin flag la otra fecha no cambia")

	// Con el documento validado, vaciar la fecha prevista es tocar un campo protegido.
	_, err = f.uc.Update(ctx, magasinier, m.ID, dto.UpdateMovementRequest{ExpectedReturnDate: &planned})
	require.NoError(t, err)
	_, err = f.uc.Validate(ctx, magasinier, m.ID)
	require.NoError(t, err)
	_, err = f.uc.Update(ctx, magasinier, m.ID, dto.UpdateMovementRequest{ClearExpectedReturnDate: true})
	assert.ErrorIs(t, err, domain.ErrImmutableMovement)
	assert.Contains(t, fields(t, err), dommov.FieldExpectedReturnDate)

	out, err = f.uc.Update(ctx, magasinier, m.ID, dto.UpdateMovementRequest{ClearActualReturnDate: true})
	require.NoError(t, err)
	assert.Nil(t, out.ActualReturnDate)
	require.NotNil(t, out.ExpectedReturnDate)
}

func TestUpdate_EquipoInexistente(t *testing.T) {
	f := newFixture(t)
	m := f.draft(t, entity.MovementKindEntry)
	eq := "no-existe"
	_, err := f.uc.Update(context.Background(), magasinier, m.ID, dto.UpdateMovementRequest{EquipmentID: &eq})
	assert.Contains(t, fields(t, err), dommov.FieldEquipment)
}

func TestDelete_BorradorDesaparece(t *testing.T) {
	f := newFixture(t)
	a := f.article(t, "A", 10)
	m := f.draft(t, entity.MovementKindEntry, ln(a, 1))
	require.NoError(t, f.uc.Delete(context.Background(), magasinier, m.ID))
	_, err := f.uc.Get(context.Background(), m.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Líneas
// ──────────────────────────────────────────────────────────────────────────────

func TestLines_AltaCambioYBajaEnBorrador(t *testing.T) {
	f := newFixture(t)
	a := f.article(t, "A", 10)
	b := f.article(t, "B", 10)
	ctx := context.Background()
	m := f.draft(t, entity.MovementKindExitFinal, ln(a, 1))

	_, err := f.uc.AddLine(ctx, magasinier, m.ID, ln(a, 2))
	assert.ErrorIs(t, err, domain.ErrDuplicateArticleInDocument)

	added, err := f.uc.AddLine(ctx, magasinier, m.ID, ln(b, 11))
	require.NoError(t, err, "en borrador el stock insuficiente no bloquea")
	assert.Equal(t, "B", added.ArticleCode)

	updated, err := f.uc.UpdateLine(ctx, magasinier, m.ID, added.ID, ln(b, 6))
	require.NoError(t, err)
	assert.True(t, updated.Quantity.Equal(decimal.NewFromInt(6)))

	_, err = f.uc.UpdateLine(ctx, magasinier, m.ID, added.ID, ln(b, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	require.NoError(t, f.uc.DeleteLine(ctx, magasinier, m.ID, added.ID))
	got, err := f.uc.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Len(t, got.Lines, 1)

	assert.ErrorIs(t, f.uc.DeleteLine(ctx, magasinier, m.ID, "otra"), domain.ErrNotFound)
}

func TestCorrectLine_RevierteYAplicaSobreElStock(t *testing.T) {
	f := newFixture(t)
	a := f.article(t, "A", 100)
	ctx := context.Background()
	m := f.draft(t, entity.MovementKindExitFinal, ln(a, 30))
	out, err := f.uc.Validate(ctx, magasinier, m.ID)
	require.NoError(t, err)
	lineID := out.Lines[0].ID

	corrected, err := f.uc.CorrectLine(ctx, magasinier, m.ID, lineID, dto.CorrectLineRequest{Quantity: decimal.NewFromInt(20)})
	require.NoError(t, err)
	assert.True(t, corrected.StockBefore.Equal(decimal.NewFromInt(100)))
	assert.True(t, corrected.StockAfter.Equal(decimal.NewFromInt(80)))
	assert.True(t, f.quantity(t, a).Equal(decimal.NewFromInt(80)))

	_, err = f.uc.CorrectLine(ctx, magasinier, m.ID, lineID, dto.CorrectLineRequest{Quantity: decimal.NewFromInt(101)})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.quantity(t, a).Equal(decimal.NewFromInt(80)), "una corrección rechazada no toca el stock")

	_, err = f.uc.CorrectLine(ctx, technicien, m.ID, lineID, dto.CorrectLineRequest{Quantity: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCorrectLine_EntradaYaConsumidaParcialmente(t *testing.T) {
	f := newFixture(t)
	a := f.article(t, "A", 0)
	ctx := context.Background()
	in := f.draft(t, entity.MovementKindEntry, ln(a, 10))
	validated, err := f.uc.Validate(ctx, magasinier, in.ID)
	require.NoError(t, err)
	out := f.draft(t, entity.MovementKindExitFinal, ln(a, 5))
	_, err = f.uc.Validate(ctx, magasinier, out.ID)
	require.NoError(t, err)
	require.True(t, f.quantity(t, a).Equal(decimal.NewFromInt(5)))

	corrected, err := f.uc.CorrectLine(ctx, magasinier, in.ID, validated.Lines[0].ID, dto.CorrectLineRequest{Quantity: decimal.NewFromInt(8)})
	require.NoError(t, err)
	assert.True(t, corrected.StockAfter.Equal(decimal.NewFromInt(3)))
	assert.True(t, f.quantity(t, a).Equal(decimal.NewFromInt(3)))

	_, err = f.uc.CorrectLine(ctx, magasinier, in.ID, validated.Lines[0].ID, dto.CorrectLineRequest{Quantity: decimal.NewFromInt(4)})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.quantity(t, a).Equal(decimal.NewFromInt(3)))
}

func TestCorrectLine_BorradorSeEditaDirectamente(t *testing.T) {
	f := newFixture(t)
	a := f.article(t, "A", 100)
	m := f.draft(t, entity.MovementKindExitFinal, ln(a, 30))
	_, err := f.uc.CorrectLine(context.Background(), magasinier, m.ID, m.Lines[0].ID, dto.CorrectLineRequest{Quantity: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lote
// ──────────────────────────────────────────────────────────────────────────────

func TestBulkValidate_CadaDocumentoEnSuTransaccion(t *testing.T) {
	f := newFixture(t)
	a := f.article(t, "A", 10)
	ctx := context.Background()
	ok := f.draft(t, entity.MovementKindExitFinal, ln(a, 4))
	tooBig := f.draft(t, entity.MovementKindExitFinal, ln(a, 9))
	cancelled := f.draft(t, entity.MovementKindEntry, ln(a, 1))
	_, err := f.uc.Cancel(ctx, magasinier, cancelled.ID)
	require.NoError(t, err)

	res, err := f.uc.BulkValidate(ctx, magasinier, []string{ok.ID, tooBig.ID, cancelled.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 2, res.Failed)
	require.Len(t, res.Items, 3)
	assert.True(t, res.Items[0].Success)
	assert.Equal(t, "BMM1", res.Items[0].Number)
	assert.False(t, res.Items[1].Success)
	assert.Contains(t, res.Items[1].Fields, dommov.LineField(1, dommov.FieldQuantity))
	assert.False(t, res.Items[2].Success)
	assert.True(t, f.quantity(t, a).Equal(decimal.NewFromInt(6)))

	hist, err := f.uc.History(ctx, ok.ID)
	require.NoError(t, err)
	assert.Equal(t, "Validation en lot du mouvement BMM1", hist[len(hist)-1].Details)
}

func TestBulk_SeleccionVacia(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.BulkCancel(context.Background(), magasinier, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBulkCancel_ContextoCancelado(t *testing.T) {
	f := newFixture(t)
	m := f.draft(t, entity.MovementKindEntry)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.uc.BulkCancel(ctx, magasinier, []string{m.ID})
	assert.True(t, errors.Is(err, context.Canceled))
}

// ──────────────────────────────────────────────────────────────────────────────
// Listado
// ──────────────────────────────────────────────────────────────────────────────

func TestList_FiltraPorEstado(t *testing.T) {
	f := newFixture(t)
	a := f.article(t, "A", 10)
	ctx := context.Background()
	f.draft(t, entity.MovementKindEntry, ln(a, 1))
	v := f.draft(t, entity.MovementKindEntry, ln(a, 1))
	_, err := f.uc.Validate(ctx, magasinier, v.ID)
	require.NoError(t, err)

	list, err := f.uc.List(ctx, dto.ListMovementsRequest{Status: entity.MovementStatusValidated})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, v.ID, list.Items[0].ID)
	assert.Equal(t, 20, list.Page.Limit)

	_, err = f.uc.List(ctx, dto.ListMovementsRequest{Status: "ARCHIVE"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetByNumber(t *testing.T) {
	f := newFixture(t)
	m := f.draft(t, entity.MovementKindEntry)
	got, err := f.uc.GetByNumber(context.Background(), "BMM1")
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)
	_, err = f.uc.GetByNumber(context.Background(), "BMM9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
