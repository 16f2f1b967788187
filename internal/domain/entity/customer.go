package entity

import "time"

// Customer perfil de contacto del cliente (lo administra la capa de perfiles; aquí solo se lee).
type Customer struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Snapshot copia los datos de contacto para una venta.
func (c *Customer) Snapshot() *CustomerSnapshot {
	return &CustomerSnapshot{CustomerID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone}
}
