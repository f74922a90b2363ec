package movement

import (
	"strconv"
	"strings"
)

// DefaultPrefix es el prefijo de los números BMM.
const DefaultPrefix = "BMM"

// Numbering genera identificadores legibles y crecientes: BMM1, BMM2, ...
type Numbering struct {
	Prefix string
}

// NewNumbering construye el servicio; prefix vacío usa DefaultPrefix.
func NewNumbering(prefix string) Numbering {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Numbering{Prefix: prefix}
}

// First es el primer identificador de la secuencia.
func (n Numbering) First() string {
	return n.Prefix + "1"
}

// Next parsea el sufijo numérico del último identificador asignado y lo incrementa.
// Si no hay último o no se puede parsear, vuelve al primero de la secuencia.
func (n Numbering) Next(last string) string {
	if last == "" || !strings.HasPrefix(last, n.Prefix) {
		return n.First()
	}
	num, err := strconv.Atoi(strings.TrimPrefix(last, n.Prefix))
	if err != nil || num < 1 {
		return n.First()
	}
	return n.Prefix + strconv.Itoa(num+1)
}

// Less ordena números de la secuencia por valor numérico (BMM9 < BMM10).
func (n Numbering) Less(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
