package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la venta de punto de venta ("vente").
const (
	SaleStatusDraft    = "draft"
	SaleStatusPaid     = "paid"
	SaleStatusCanceled = "canceled"
)

// Origen de la venta.
const (
	SaleOriginDirect = "direct" // registrada por el personal en caja
	SaleOriginOrder  = "order"  // generada al aceptar un pedido en línea
)

// Medios de pago aceptados.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodCard     = "card"
	PaymentMethodMobile   = "mobile_money"
	PaymentMethodTransfer = "transfer"
)

// ValidPaymentMethods medios de pago válidos.
var ValidPaymentMethods = map[string]bool{
	PaymentMethodCash: true, PaymentMethodCard: true,
	PaymentMethodMobile: true, PaymentMethodTransfer: true,
}

// WalkInCustomerName nombre usado cuando no hay perfil de cliente disponible.
const WalkInCustomerName = "Cliente de paso"

// CustomerSnapshot copia de los datos de contacto del cliente al momento de la venta.
type CustomerSnapshot struct {
	CustomerID string `json:"customer_id,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// SaleLine línea de la venta (misma forma que la línea de pedido).
type SaleLine = OrderLine

// Sale registro de punto de venta. Una vez paid es inmutable.
type Sale struct {
	ID            string
	StoreID       string
	SellerID      string
	Customer      *CustomerSnapshot // nil = venta de mostrador
	Lines         []SaleLine
	TotalAmount   decimal.Decimal
	PaymentMethod string
	Status        string
	Origin        string
	OrderID       *string // referencia al pedido de origen (origin=order)
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Recalculate mantiene TotalAmount = Σ TotalPrice.
func (s *Sale) Recalculate() {
	total := decimal.Zero
	for _, l := range s.Lines {
		total = total.Add(l.TotalPrice)
	}
	s.TotalAmount = total
}

// IsEditable solo las ventas en draft admiten cambios.
func (s *Sale) IsEditable() bool {
	return s.Status == SaleStatusDraft
}
