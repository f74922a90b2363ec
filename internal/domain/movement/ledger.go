// Package movement contiene el núcleo puro del motor de BMM: ledger de stock,
// validación y aplicación de líneas, máquina de estados y numeración.
// No depende de la persistencia; los casos de uso le entregan filas ya bloqueadas.
package movement

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-prep/internal/domain"
	"github.com/jhoicas/gestion-prep/internal/domain/entity"
)

// Delta devuelve el delta con signo que una línea aplica sobre el stock:
// las salidas restan, las entradas suman.
func Delta(kind string, quantity decimal.Decimal) decimal.Decimal {
	if entity.IsExit(kind) {
		return quantity.Neg()
	}
	return quantity
}

// ApplyDelta calcula la nueva cantidad a partir de la actual y un delta con signo.
// Un delta de salida que deja el stock en negativo falla con ErrInsufficientStock
// y la cantidad actual se devuelve sin cambios.
func ApplyDelta(current, delta decimal.Decimal) (decimal.Decimal, error) {
	next := current.Add(delta)
	if delta.IsNegative() && next.IsNegative() {
		return current, domain.ErrInsufficientStock
	}
	return next, nil
}

// Apply aplica la cantidad de una línea según el tipo de movimiento.
func Apply(kind string, current, quantity decimal.Decimal) (decimal.Decimal, error) {
	return ApplyDelta(current, Delta(kind, quantity))
}

// Reverse deshace el efecto de una línea ya aplicada (operación inversa).
// Revertir una entrada cuyo stock ya se consumió también falla con ErrInsufficientStock.
func Reverse(kind string, current, quantity decimal.Decimal) (decimal.Decimal, error) {
	return ApplyDelta(current, Delta(kind, quantity).Neg())
}
