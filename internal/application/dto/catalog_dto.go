package dto

import "time"

// CreateSiteRequest entrada para crear un sitio.
type CreateSiteRequest struct {
	Name        string `json:"nom"`
	Description string `json:"description"`
}

// SiteResponse salida de un sitio.
type SiteResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"nom"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateUnitRequest entrada para crear una unidad dentro de un sitio.
type CreateUnitRequest struct {
	SiteID      string `json:"site"`
	Name        string `json:"nom"`
	Description string `json:"description"`
}

// UnitResponse salida de una unidad.
type UnitResponse struct {
	ID          string    `json:"id"`
	SiteID      string    `json:"site"`
	Name        string    `json:"nom"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateTrainRequest entrada para crear un tren dentro de una unidad.
type CreateTrainRequest struct {
	UnitID      string `json:"unite"`
	Name        string `json:"nom"`
	Description string `json:"description"`
}

// TrainResponse salida de un tren.
type TrainResponse struct {
	ID          string    `json:"id"`
	UnitID      string    `json:"unite"`
	Name        string    `json:"nom"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateEquipmentRequest entrada para crear un equipo.
type CreateEquipmentRequest struct {
	Tag         string `json:"tag"`
	Description string `json:"description"`
	TrainID     string `json:"train"`
}

// EquipmentResponse salida de un equipo.
type EquipmentResponse struct {
	ID          string    `json:"id"`
	Tag         string    `json:"tag"`
	Description string    `json:"description"`
	TrainID     string    `json:"train"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateStockRequest entrada para crear una ubicación de stock.
type CreateStockRequest struct {
	Name        string `json:"nom"`
	SiteID      string `json:"site"`
	Type        string `json:"type_stock"` // MAGASIN por defecto
	Description string `json:"description"`
	Location    string `json:"emplacement"`
}

// StockResponse salida de una ubicación de stock.
type StockResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"nom"`
	SiteID      string    `json:"site"`
	Type        string    `json:"type_stock"`
	Description string    `json:"description"`
	Location    string    `json:"emplacement"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateCategoryRequest entrada para crear una categoría de artículos.
type CreateCategoryRequest struct {
	Name        string `json:"nom"`
	Description string `json:"description"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"nom"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreatePlatinageTypeRequest entrada para crear un tipo de platinage.
type CreatePlatinageTypeRequest struct {
	Name        string `json:"nom"`
	Description string `json:"description"`
}

// PlatinageTypeResponse salida de un tipo de platinage.
type PlatinageTypeResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"nom"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreatePlatinageRequest entrada para registrar un platinage sobre un equipo.
type CreatePlatinageRequest struct {
	EquipmentID string     `json:"equipement"`
	ArticleID   string     `json:"article"`
	TypeID      string     `json:"type_platinage"`
	Mark        string     `json:"repere"`
	StartDate   *time.Time `json:"date_debut"`
	EndDate     *time.Time `json:"date_fin"`
	Remark      string     `json:"remarque"`
}

// PlatinageResponse salida de un platinage.
type PlatinageResponse struct {
	ID          string     `json:"id"`
	EquipmentID string     `json:"equipement"`
	ArticleID   string     `json:"article"`
	TypeID      string     `json:"type_platinage"`
	Mark        string     `json:"repere"`
	StartDate   *time.Time `json:"date_debut"`
	EndDate     *time.Time `json:"date_fin"`
	Remark      string     `json:"remarque"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreatePhaseRequest entrada para crear una fase con sus platinages.
type CreatePhaseRequest struct {
	Name         string   `json:"nom"`
	Description  string   `json:"description"`
	PlatinageIDs []string `json:"platinages"`
}

// PhaseResponse salida de una fase.
type PhaseResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"nom"`
	Description  string    `json:"description"`
	PlatinageIDs []string  `json:"platinages"`
	CreatedAt    time.Time `json:"created_at"`
}
