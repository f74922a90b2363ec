package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Divisas admitidas para el precio de un artículo.
const (
	CurrencyEUR = "EUR"
	CurrencyUSD = "USD"
	CurrencyGBP = "GBP"
	CurrencyDZD = "DZD"
)

// Article representa una pieza almacenada en un stock.
// Quantity (quantite_stock) solo la modifica el ledger al validar o corregir un movimiento.
type Article struct {
	ID              string
	Code            string // code_article, único por stock
	Description     string
	Specification   string
	Price           *decimal.Decimal
	Currency        string
	StockID         string
	CategoryID      string
	UnitMeasure     string
	InitialQuantity decimal.Decimal // quantite_initiale
	Quantity        decimal.Decimal // quantite_stock
	AlertThreshold  decimal.Decimal // seuil_alerte
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BelowThreshold indica si el stock actual alcanzó el umbral de alerta.
func (a *Article) BelowThreshold() bool {
	return a.Quantity.LessThanOrEqual(a.AlertThreshold)
}
