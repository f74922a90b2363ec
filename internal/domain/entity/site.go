package entity

import "time"

// Site agrupa unidades y stocks.
type Site struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// Unit pertenece a un sitio; el nombre es único dentro del sitio.
type Unit struct {
	ID          string
	SiteID      string
	Name        string
	Description string
	CreatedAt   time.Time
}

// Train pertenece a una unidad; el nombre es único dentro de la unidad.
type Train struct {
	ID          string
	UnitID      string
	Name        string
	Description string
	CreatedAt   time.Time
}

// Equipment es un equipo instalado en un tren, identificado por su tag.
type Equipment struct {
	ID          string
	Tag         string
	Description string
	TrainID     string
	CreatedAt   time.Time
}

// ArticleCategory clasifica artículos.
type ArticleCategory struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}
