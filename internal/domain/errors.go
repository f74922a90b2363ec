package domain

import (
	"errors"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// Taxonomía del motor de movimientos (BMM).
	ErrMissingArticle             = errors.New("el artículo es obligatorio")
	ErrInvalidQuantity            = errors.New("la cantidad debe ser mayor que 0")
	ErrDuplicateArticleInDocument = errors.New("el artículo ya está presente en el movimiento")
	ErrImmutableMovement          = errors.New("el movimiento no puede modificarse en su estado actual")
	ErrMissingRequiredField       = errors.New("campo obligatorio")
	ErrEmptyMovement              = errors.New("no se puede validar un movimiento sin artículos")
)

// FieldAll agrupa los errores que afectan al documento completo y no a un campo concreto.
const FieldAll = "__all__"

// FieldError es un error asociado a un campo. Code es uno de los sentinels de este paquete.
type FieldError struct {
	Field   string
	Code    error
	Message string
}

// ValidationError acumula todos los errores de una transición o de un formulario.
// Se devuelve completo para que el actor vea todos los problemas en una sola respuesta.
type ValidationError struct {
	Errors []FieldError
}

// Add agrega un error; si message está vacío se usa el mensaje del código.
func (e *ValidationError) Add(field string, code error, message string) {
	if message == "" && code != nil {
		message = code.Error()
	}
	e.Errors = append(e.Errors, FieldError{Field: field, Code: code, Message: message})
}

// Merge copia los errores de otro ValidationError.
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	e.Errors = append(e.Errors, other.Errors...)
}

// Empty indica si no se acumuló ningún error.
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Errors) == 0
}

// OrNil devuelve nil cuando no hay errores (evita el nil tipado en interfaces error).
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return "validación fallida: " + strings.Join(msgs, "; ")
}

// Is permite errors.Is(err, domain.ErrInsufficientStock) sobre el agregado.
func (e *ValidationError) Is(target error) bool {
	for _, fe := range e.Errors {
		if fe.Code == target {
			return true
		}
	}
	return false
}

// Without devuelve una copia sin los errores cuyo código es code.
func (e *ValidationError) Without(code error) *ValidationError {
	out := &ValidationError{}
	if e == nil {
		return out
	}
	for _, fe := range e.Errors {
		if fe.Code != code {
			out.Errors = append(out.Errors, fe)
		}
	}
	return out
}

// Fields devuelve el mapa campo -> mensajes, en el orden en que se acumularon.
func (e *ValidationError) Fields() map[string][]string {
	out := make(map[string][]string, len(e.Errors))
	for _, fe := range e.Errors {
		out[fe.Field] = append(out[fe.Field], fe.Message)
	}
	return out
}
