package movement

import (
	"fmt"
	"strings"

	"github.com/jhoicas/gestion-prep/internal/domain"
	"github.com/jhoicas/gestion-prep/internal/domain/entity"
)

// Campos del documento, con los nombres del contrato externo.
const (
	FieldKind               = "type_mouvement"
	FieldDescription        = "description_bmm"
	FieldCounterparty       = "emetteur_recepteur"
	FieldDepartment         = "departement_service"
	FieldExpectedReturnDate = "date_retour_prevue"
	FieldActualReturnDate   = "date_retour_effective"
	FieldEquipment          = "equipement"
	FieldRemark             = "remarque"
	FieldStatus             = "statut"
	FieldLines              = "lignes"
)

// LineField construye la clave de error de la línea n (1-based).
func LineField(n int, field string) string {
	return fmt.Sprintf("%s.%d.%s", FieldLines, n, field)
}

// ValidateDocument evalúa los guardas de BROUILLON -> VALIDE que no dependen del stock:
// campos obligatorios, fecha de retorno para préstamos, al menos una línea y
// ningún artículo repetido.
func ValidateDocument(doc *entity.Movement, lines []*entity.MovementLine) *domain.ValidationError {
	verr := &domain.ValidationError{}
	if strings.TrimSpace(doc.Counterparty) == "" {
		verr.Add(FieldCounterparty, domain.ErrMissingRequiredField, "el emisor/receptor es obligatorio")
	}
	if strings.TrimSpace(doc.Department) == "" {
		verr.Add(FieldDepartment, domain.ErrMissingRequiredField, "el departamento/servicio es obligatorio")
	}
	if doc.Kind == "" {
		verr.Add(FieldKind, domain.ErrMissingRequiredField, "el tipo de movimiento es obligatorio")
	} else if !entity.ValidKind(doc.Kind) {
		verr.Add(FieldKind, domain.ErrInvalidInput, "tipo de movimiento desconocido: "+doc.Kind)
	}
	if doc.Kind == entity.MovementKindExitLoan && doc.ExpectedReturnDate == nil {
		verr.Add(FieldExpectedReturnDate, domain.ErrMissingRequiredField,
			"la fecha de retorno prevista es obligatoria para las salidas en préstamo")
	}
	if len(lines) == 0 {
		verr.Add(domain.FieldAll, domain.ErrEmptyMovement, "")
	}
	verr.Merge(CheckDuplicates(lines))
	return verr
}

// CheckDuplicates rechaza dos líneas del mismo documento con el mismo artículo.
func CheckDuplicates(lines []*entity.MovementLine) *domain.ValidationError {
	verr := &domain.ValidationError{}
	seen := make(map[string]int, len(lines))
	for i, l := range lines {
		if l.ArticleID == "" {
			continue
		}
		if first, ok := seen[l.ArticleID]; ok {
			verr.Add(LineField(i+1, FieldArticle), domain.ErrDuplicateArticleInDocument,
				fmt.Sprintf("el artículo ya está en la línea %d; cada artículo solo puede usarse una vez por movimiento", first))
			continue
		}
		seen[l.ArticleID] = i + 1
	}
	return verr
}

// ValidationPlan es la fase 1 de la validación: todos los deltas calculados y
// ninguno escrito. Commit ejecuta la fase 2 una sola vez.
type ValidationPlan struct {
	MovementID   string
	Kind         string
	Applications []LineApplication
	committed    bool
}

// ErrPlanCommitted se devuelve si se intenta aplicar dos veces el mismo plan.
var ErrPlanCommitted = fmt.Errorf("%w: el plan de validación ya fue aplicado", domain.ErrConflict)

// PlanValidation evalúa la transición, los guardas del documento y de cada línea contra
// los artículos bloqueados, y calcula los snapshots sin efectos secundarios.
// Devuelve ErrImmutableMovement si el documento no está en BROUILLON, o un
// *domain.ValidationError con todos los errores acumulados.
func PlanValidation(doc *entity.Movement, lines []*entity.MovementLine, locked map[string]*entity.Article) (*ValidationPlan, error) {
	if err := EvaluateTransition(TransitionRequest{From: doc.Status, To: entity.MovementStatusValidated}); err != nil {
		return nil, err
	}
	verr := ValidateDocument(doc, lines)
	for i, l := range lines {
		lerr := ValidateLine(doc.Kind, l, locked[l.ArticleID])
		for _, fe := range lerr.Errors {
			verr.Add(LineField(i+1, fe.Field), fe.Code, fe.Message)
		}
	}
	if !verr.Empty() {
		return nil, verr
	}

	plan := &ValidationPlan{MovementID: doc.ID, Kind: doc.Kind, Applications: make([]LineApplication, 0, len(lines))}
	for i, l := range lines {
		app, err := ApplyLine(doc.Kind, l, locked[l.ArticleID])
		if err != nil {
			verr.Add(LineField(i+1, FieldQuantity), err, "")
			continue
		}
		plan.Applications = append(plan.Applications, app)
	}
	if !verr.Empty() {
		return nil, verr
	}
	return plan, nil
}

// Commit invoca apply por cada línea planificada. Un segundo Commit falla con
// ErrPlanCommitted sin tocar nada.
func (p *ValidationPlan) Commit(apply func(LineApplication) error) error {
	if p.committed {
		return ErrPlanCommitted
	}
	p.committed = true
	for _, app := range p.Applications {
		if err := apply(app); err != nil {
			return err
		}
	}
	return nil
}
