package movement

import (
	"github.com/jhoicas/gestion-prep/internal/domain"
	"github.com/jhoicas/gestion-prep/internal/domain/entity"
)

// TransitionRequest describe un cambio de estado explícito: estado actual y estado pedido.
// From vacío representa un documento nuevo.
type TransitionRequest struct {
	From string
	To   string
}

// IsValidation indica si la petición es un intento real BROUILLON -> VALIDE.
func (r TransitionRequest) IsValidation() bool {
	return r.From == entity.MovementStatusDraft && r.To == entity.MovementStatusValidated
}

// EvaluateTransition decide si la transición está permitida por la máquina de estados.
// Los guardas de contenido (campos, líneas, stock) se evalúan aparte en PlanValidation.
//
//	(nuevo)    -> BROUILLON
//	BROUILLON  -> VALIDE | ANNULE
//	VALIDE     -> *        ErrImmutableMovement
//	ANNULE     -> *        ErrImmutableMovement
func EvaluateTransition(r TransitionRequest) error {
	if !entity.ValidStatus(r.To) || (r.From != "" && !entity.ValidStatus(r.From)) {
		return domain.ErrInvalidInput
	}
	switch r.From {
	case "":
		if r.To != entity.MovementStatusDraft {
			return domain.ErrInvalidInput
		}
		return nil
	case entity.MovementStatusDraft:
		if r.To == entity.MovementStatusDraft {
			return domain.ErrInvalidInput
		}
		return nil
	default:
		return domain.ErrImmutableMovement
	}
}
