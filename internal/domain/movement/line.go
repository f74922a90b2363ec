package movement

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-prep/internal/domain"
	"github.com/jhoicas/gestion-prep/internal/domain/entity"
)

// Campos expuestos de una línea.
const (
	FieldArticle  = "article"
	FieldQuantity = "quantite"
)

// ValidateLine valida una línea contra el artículo referenciado (nil si no existe).
// La comprobación de stock usa article.Quantity tal como la recibe: dentro de la
// validación del documento es la cantidad bloqueada; en borrador es solo orientativa.
func ValidateLine(kind string, line *entity.MovementLine, article *entity.Article) *domain.ValidationError {
	verr := &domain.ValidationError{}
	if line.ArticleID == "" {
		verr.Add(FieldArticle, domain.ErrMissingArticle, "")
		return verr
	}
	if !line.Quantity.GreaterThan(decimal.Zero) {
		verr.Add(FieldQuantity, domain.ErrInvalidQuantity, "")
		return verr
	}
	if article == nil {
		verr.Add(FieldArticle, domain.ErrMissingArticle, "el artículo especificado no existe")
		return verr
	}
	if entity.IsExit(kind) && article.Quantity.LessThan(line.Quantity) {
		verr.Add(FieldQuantity, domain.ErrInsufficientStock,
			fmt.Sprintf("stock insuficiente para %s. Stock disponible: %s", article.Code, article.Quantity.String()))
	}
	return verr
}

// LineApplication es el resultado de aplicar una línea sobre su artículo bloqueado:
// snapshot antes/después y la cantidad a escribir en el artículo.
type LineApplication struct {
	LineID      string
	ArticleID   string
	StockBefore decimal.Decimal
	StockAfter  decimal.Decimal
}

// ApplyLine registra stock_before con la cantidad del artículo bloqueado y calcula
// stock_after con el ledger. No modifica ni la línea ni el artículo.
func ApplyLine(kind string, line *entity.MovementLine, locked *entity.Article) (LineApplication, error) {
	after, err := Apply(kind, locked.Quantity, line.Quantity)
	if err != nil {
		return LineApplication{}, err
	}
	return LineApplication{
		LineID:      line.ID,
		ArticleID:   locked.ID,
		StockBefore: locked.Quantity,
		StockAfter:  after,
	}, nil
}

// CorrectLine calcula el efecto de cambiar la cantidad de una línea de un BMM validado
// sobre el artículo bloqueado: after = actual − Delta(previous) + Delta(nueva). Solo el
// stock final debe ser no negativo; el valor intermedio puede serlo si el stock ya se
// consumió. StockBefore es el stock sin la línea.
func CorrectLine(kind string, line *entity.MovementLine, previous decimal.Decimal, locked *entity.Article) (LineApplication, error) {
	if !line.Quantity.GreaterThan(decimal.Zero) {
		return LineApplication{}, domain.ErrInvalidQuantity
	}
	restored := locked.Quantity.Sub(Delta(kind, previous))
	after := restored.Add(Delta(kind, line.Quantity))
	if after.IsNegative() {
		return LineApplication{}, domain.ErrInsufficientStock
	}
	return LineApplication{
		LineID:      line.ID,
		ArticleID:   locked.ID,
		StockBefore: restored,
		StockAfter:  after,
	}, nil
}
