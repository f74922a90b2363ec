package entity

import "time"

// Tipos de stock (ubicación física).
const (
	StockTypeMagasin     = "MAGASIN"
	StockTypeHorsMagasin = "HORS_MAGASIN"
)

// Stock es una ubicación física que contiene artículos (no confundir con la cantidad en stock).
type Stock struct {
	ID          string
	Name        string
	SiteID      string
	Type        string // MAGASIN, HORS_MAGASIN
	Description string
	Location    string // emplacement, obligatorio
	CreatedAt   time.Time
}

// ValidStockType reporta si t es un tipo de stock conocido.
func ValidStockType(t string) bool {
	return t == StockTypeMagasin || t == StockTypeHorsMagasin
}
