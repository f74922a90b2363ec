package entity

import "time"

// PlatinageType clasifica los platinages (p. ej. pose, dépose).
type PlatinageType struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// Platinage es la instalación de un artículo en un equipo con su repère.
// Si ambas fechas están presentes, EndDate es estrictamente posterior a StartDate.
type Platinage struct {
	ID          string
	EquipmentID string
	ArticleID   string
	TypeID      string
	Mark        string
	StartDate   *time.Time
	EndDate     *time.Time
	Remark      string
	CreatedAt   time.Time
}

// Phase agrupa platinages de una parada; el nombre es único.
type Phase struct {
	ID           string
	Name         string
	Description  string
	PlatinageIDs []string
	CreatedAt    time.Time
}
