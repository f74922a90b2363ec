package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineRequest línea artículo + cantidad de un BMM.
type LineRequest struct {
	ArticleID string          `json:"article"`
	Quantity  decimal.Decimal `json:"quantite"`
}

// CreateMovementRequest body para POST /api/movements. El BMM nace en BROUILLON.
type CreateMovementRequest struct {
	Kind               string        `json:"type_mouvement"`
	Description        string        `json:"description_bmm"`
	Counterparty       string        `json:"emetteur_recepteur"`
	Department         string        `json:"departement_service"`
	ExpectedReturnDate *time.Time    `json:"date_retour_prevue,omitempty"`
	EquipmentID        string        `json:"equipement,omitempty"`
	Remark             string        `json:"remarque,omitempty"`
	Lines              []LineRequest `json:"lignes,omitempty"`
}

// UpdateMovementRequest edición parcial; los campos nil no cambian.
// Las fechas solo se vacían con los flags clear_*, que tienen prioridad sobre el valor.
type UpdateMovementRequest struct {
	Kind               *string    `json:"type_mouvement"`
	Description        *string    `json:"description_bmm"`
	Counterparty       *string    `json:"emetteur_recepteur"`
	Department         *string    `json:"departement_service"`
	ExpectedReturnDate *time.Time `json:"date_retour_prevue"`
	ActualReturnDate   *time.Time `json:"date_retour_effective"`
	EquipmentID        *string    `json:"equipement"`
	Remark             *string    `json:"remarque"`

	ClearExpectedReturnDate bool `json:"clear_date_retour_prevue"`
	ClearActualReturnDate   bool `json:"clear_date_retour_effective"`
}

// CorrectLineRequest body para PATCH /api/movements/:id/lines/:lineId/correction.
type CorrectLineRequest struct {
	Quantity decimal.Decimal `json:"quantite"`
}

// ListMovementsRequest filtros de GET /api/movements.
type ListMovementsRequest struct {
	Status string `query:"statut"`
	Kind   string `query:"type_mouvement"`
	PageRequest
}

// LineResponse salida de una línea.
type LineResponse struct {
	ID          string           `json:"id"`
	ArticleID   string           `json:"article"`
	ArticleCode string           `json:"code_article,omitempty"`
	Description string           `json:"description_article,omitempty"`
	Quantity    decimal.Decimal  `json:"quantite"`
	StockBefore *decimal.Decimal `json:"stock_avant"`
	StockAfter  *decimal.Decimal `json:"stock_apres"`
}

// MovementResponse salida de un BMM.
type MovementResponse struct {
	ID                 string         `json:"id"`
	Number             string         `json:"numero_bmm"`
	Kind               string         `json:"type_mouvement"`
	Status             string         `json:"statut"`
	Description        string         `json:"description_bmm"`
	Counterparty       string         `json:"emetteur_recepteur"`
	Department         string         `json:"departement_service"`
	ExpectedReturnDate *time.Time     `json:"date_retour_prevue"`
	ActualReturnDate   *time.Time     `json:"date_retour_effective"`
	EquipmentID        string         `json:"equipement,omitempty"`
	Remark             string         `json:"remarque"`
	CreatedBy          string         `json:"created_by"`
	CreatedAt          time.Time      `json:"date_creation"`
	ValidatedBy        string         `json:"validated_by,omitempty"`
	ValidatedAt        *time.Time     `json:"date_validation"`
	LineCount          int            `json:"nombre_articles"`
	Lines              []LineResponse `json:"lignes,omitempty"`
}

// MovementListResponse lista paginada de BMM.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// HistoryEntryResponse entrada del historial de un BMM.
type HistoryEntryResponse struct {
	ID      string    `json:"id"`
	Action  string    `json:"action"`
	UserID  string    `json:"utilisateur"`
	At      time.Time `json:"date_action"`
	Details string    `json:"details"`
}

// BulkRequest selección de BMM para validar o anular en lote.
type BulkRequest struct {
	IDs []string `json:"ids"`
}

// BulkItemResult resultado de un documento dentro de una acción en lote.
type BulkItemResult struct {
	ID      string              `json:"id"`
	Number  string              `json:"numero_bmm,omitempty"`
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

// BulkResult contabiliza éxitos y fallos de una acción en lote.
type BulkResult struct {
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Items     []BulkItemResult `json:"items"`
}
