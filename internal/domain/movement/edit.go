package movement

import (
	"time"

	"github.com/jhoicas/gestion-prep/internal/domain"
	"github.com/jhoicas/gestion-prep/internal/domain/entity"
)

// CheckEdit compara el documento persistido con la versión editada.
// Un BMM anulado no admite cambios; uno validado solo admite remarque y
// date_retour_effective. El número y el estado nunca cambian por edición.
func CheckEdit(before, after *entity.Movement) error {
	if before.Status == entity.MovementStatusCancelled {
		return domain.ErrImmutableMovement
	}
	verr := &domain.ValidationError{}
	if after.Number != before.Number {
		verr.Add("numero_bmm", domain.ErrImmutableMovement, "el número BMM no puede modificarse")
	}
	if tr := (TransitionRequest{From: before.Status, To: after.Status}); tr.IsValidation() {
		verr.Add(FieldStatus, domain.ErrInvalidInput, "use la acción de validación para pasar a VALIDE")
	} else if after.Status != before.Status {
		verr.Add(FieldStatus, domain.ErrInvalidInput, "el estado cambia solo mediante validación o anulación")
	}
	if before.Status == entity.MovementStatusValidated {
		for _, f := range ProtectedFieldsChanged(before, after) {
			verr.Add(f, domain.ErrImmutableMovement, "un movimiento validado no puede modificarse")
		}
	}
	if after.Kind != "" && !entity.ValidKind(after.Kind) {
		verr.Add(FieldKind, domain.ErrInvalidInput, "tipo de movimiento desconocido: "+after.Kind)
	}
	return verr.OrNil()
}

// ProtectedFieldsChanged lista los campos protegidos que difieren entre ambas versiones.
func ProtectedFieldsChanged(before, after *entity.Movement) []string {
	var changed []string
	if before.Kind != after.Kind {
		changed = append(changed, FieldKind)
	}
	if before.Description != after.Description {
		changed = append(changed, FieldDescription)
	}
	if before.Counterparty != after.Counterparty {
		changed = append(changed, FieldCounterparty)
	}
	if before.Department != after.Department {
		changed = append(changed, FieldDepartment)
	}
	if !sameTime(before.ExpectedReturnDate, after.ExpectedReturnDate) {
		changed = append(changed, FieldExpectedReturnDate)
	}
	if before.EquipmentID != after.EquipmentID {
		changed = append(changed, FieldEquipment)
	}
	return changed
}

// CheckLineEditable rechaza altas, cambios o bajas de líneas fuera de BROUILLON.
func CheckLineEditable(doc *entity.Movement) error {
	if doc.Status != entity.MovementStatusDraft {
		return domain.ErrImmutableMovement
	}
	return nil
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
