package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateArticleRequest entrada para crear un artículo. quantite_stock arranca en quantite_initiale.
type CreateArticleRequest struct {
	Code            string           `json:"code_article"`
	Description     string           `json:"description"`
	Specification   string           `json:"specification"`
	Price           *decimal.Decimal `json:"prix,omitempty"`
	Currency        string           `json:"devise,omitempty"`
	StockID         string           `json:"stock"`
	CategoryID      string           `json:"categorie,omitempty"`
	UnitMeasure     string           `json:"unite_mesure"`
	InitialQuantity decimal.Decimal  `json:"quantite_initiale"`
	AlertThreshold  decimal.Decimal  `json:"seuil_alerte"`
}

// UpdateArticleRequest edición de campos descriptivos; quantite_stock no es editable.
type UpdateArticleRequest struct {
	Description    *string          `json:"description"`
	Specification  *string          `json:"specification"`
	Price          *decimal.Decimal `json:"prix"`
	Currency       *string          `json:"devise"`
	CategoryID     *string          `json:"categorie"`
	UnitMeasure    *string          `json:"unite_mesure"`
	AlertThreshold *decimal.Decimal `json:"seuil_alerte"`
}

// ListArticlesRequest filtros de GET /api/articles.
type ListArticlesRequest struct {
	StockID    string `query:"stock"`
	CategoryID string `query:"categorie"`
	PageRequest
}

// ArticleResponse salida de un artículo.
type ArticleResponse struct {
	ID              string           `json:"id"`
	Code            string           `json:"code_article"`
	Description     string           `json:"description"`
	Specification   string           `json:"specification"`
	Price           *decimal.Decimal `json:"prix"`
	Currency        string           `json:"devise,omitempty"`
	StockID         string           `json:"stock"`
	CategoryID      string           `json:"categorie,omitempty"`
	UnitMeasure     string           `json:"unite_mesure"`
	InitialQuantity decimal.Decimal  `json:"quantite_initiale"`
	Quantity        decimal.Decimal  `json:"quantite_stock"`
	AlertThreshold  decimal.Decimal  `json:"seuil_alerte"`
	LowStock        bool             `json:"alerte_stock"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ArticleListResponse lista paginada de artículos.
type ArticleListResponse struct {
	Items []ArticleResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// LowStockAlertDTO artículo en o por debajo de su umbral de alerta.
type LowStockAlertDTO struct {
	ArticleID      string          `json:"article"`
	Code           string          `json:"code_article"`
	Description    string          `json:"description"`
	StockID        string          `json:"stock"`
	Quantity       decimal.Decimal `json:"quantite_stock"`
	AlertThreshold decimal.Decimal `json:"seuil_alerte"`
	Deficit        decimal.Decimal `json:"deficit"`  // seuil_alerte - quantite_stock (>= 0)
	Priority       int             `json:"priority"` // 1 = más urgente
}
