package entity

import "time"

// Tipos de movimiento (type_mouvement).
const (
	MovementKindEntry     = "ENTREE"
	MovementKindExitFinal = "SORTIE_DEFINITIVE"
	MovementKindExitLoan  = "SORTIE_PRET"
)

// Estados del BMM (statut).
const (
	MovementStatusDraft     = "BROUILLON"
	MovementStatusValidated = "VALIDE"
	MovementStatusCancelled = "ANNULE"
)

// Movement es el Bon de Mouvement de Matériel: agregado raíz que posee sus líneas e historial.
type Movement struct {
	ID                 string
	Number             string // numero_bmm, inmutable una vez asignado
	Kind               string
	Status             string
	Description        string // description_bmm
	Counterparty       string // emetteur_recepteur
	Department         string // departement_service
	ExpectedReturnDate *time.Time
	ActualReturnDate   *time.Time
	EquipmentID        string
	Remark             string
	CreatedBy          string
	CreatedAt          time.Time
	ValidatedBy        string
	ValidatedAt        *time.Time
	LineCount          int // nombre_articles (modelo de lectura)
}

// IsExit indica si el tipo descuenta stock.
func IsExit(kind string) bool {
	return kind == MovementKindExitFinal || kind == MovementKindExitLoan
}

// ValidKind reporta si kind es un tipo de movimiento conocido.
func ValidKind(kind string) bool {
	return kind == MovementKindEntry || IsExit(kind)
}

// ValidStatus reporta si s es un estado conocido.
func ValidStatus(s string) bool {
	return s == MovementStatusDraft || s == MovementStatusValidated || s == MovementStatusCancelled
}
