package entity

import "time"

// Acciones registradas en el historial de un BMM.
const (
	HistoryActionCreation     = "CREATION"
	HistoryActionValidation   = "VALIDATION"
	HistoryActionCancellation = "ANNULATION"
)

// HistoryEntry es un registro inmutable del historial de un movimiento.
type HistoryEntry struct {
	ID         string
	MovementID string
	Action     string
	UserID     string // utilisateur
	At         time.Time
	Details    string
}
