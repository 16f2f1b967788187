package entity

// Roles del actor autenticado.
const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
	RoleAdmin    = "admin"
)

// Actor identidad autenticada que entrega la capa de sesión (token JWT).
// StoreID solo aplica al personal: la tienda a la que está vinculado.
type Actor struct {
	UserID  string
	StoreID string
	Role    string
}

// IsStaff indica si el actor opera en nombre de una tienda.
func (a Actor) IsStaff() bool {
	return (a.Role == RoleStaff || a.Role == RoleAdmin) && a.StoreID != ""
}
