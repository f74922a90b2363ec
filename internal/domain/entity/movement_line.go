package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementLine es una línea artículo + cantidad de un BMM.
// StockBefore/StockAfter se fijan solo cuando el ledger aplica el delta.
type MovementLine struct {
	ID          string
	MovementID  string
	ArticleID   string
	Quantity    decimal.Decimal
	StockBefore *decimal.Decimal
	StockAfter  *decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
