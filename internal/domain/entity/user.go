package entity

// Roles válidos en el token del proveedor de identidad.
const (
	RoleAdmin      = "admin"
	RoleMagasinier = "magasinier"
	RoleTechnicien = "technicien"
)

// Actor es la identidad autenticada que ejecuta una operación.
type Actor struct {
	UserID string
	Role   string
}

// CanValidate indica si el actor puede validar movimientos o corregir líneas validadas.
func (a Actor) CanValidate() bool {
	return a.Role == RoleAdmin || a.Role == RoleMagasinier
}
