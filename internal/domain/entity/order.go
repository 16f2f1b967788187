package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain"
)

// Estados del pedido (carrito mientras está en draft).
const (
	OrderStatusDraft      = "draft"
	OrderStatusPaid       = "paid"
	OrderStatusAccepted   = "accepted"
	OrderStatusDelivering = "delivering"
	OrderStatusSuccess    = "success"
	OrderStatusCanceled   = "canceled"
	OrderStatusExpired    = "expired"
)

// Modos de entrega.
const (
	DeliveryModePickup   = "pickup"
	DeliveryModeDelivery = "delivery"
)

// OrderLine línea del carrito/pedido. TotalPrice = UnitPrice * Quantity.
type OrderLine struct {
	ProductID  string          `json:"product_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	IsSale     bool            `json:"is_sale"`
}

// DeliveryAddress dirección de entrega (solo en modo delivery).
type DeliveryAddress struct {
	Line1      string `json:"line1"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// Order es el agregado carrito/pedido ("commande"): un único draft abierto por cliente.
type Order struct {
	ID              string
	CustomerID      string
	StoreID         string
	Status          string
	Lines           []OrderLine
	TotalAmount     decimal.Decimal
	DeliveryMode    string
	DeliveryAddress *DeliveryAddress
	PaymentMethod   string
	ExpiresAt       *time.Time // solo relevante en draft
	PaidAt          *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsExpired es inclusivo: un draft con ExpiresAt == now está expirado.
func (o *Order) IsExpired(now time.Time) bool {
	return o.ExpiresAt != nil && !o.ExpiresAt.After(now)
}

// IsOpenDraft indica si el carrito admite mutaciones en el instante now.
func (o *Order) IsOpenDraft(now time.Time) bool {
	return o.Status == OrderStatusDraft && !o.IsExpired(now)
}

// FindLine devuelve el índice de la línea del producto o -1.
func (o *Order) FindLine(productID string) int {
	for i := range o.Lines {
		if o.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// SetLine fija cantidad y precio de la línea (la crea si no existe) y recalcula totales.
func (o *Order) SetLine(product *Product, quantity int) {
	line := OrderLine{
		ProductID:  product.ID,
		Name:       product.Name,
		Quantity:   quantity,
		UnitPrice:  product.EffectivePrice(),
		TotalPrice: product.EffectivePrice().Mul(decimal.NewFromInt(int64(quantity))),
		IsSale:     product.IsOnSale(),
	}
	if i := o.FindLine(product.ID); i >= 0 {
		o.Lines[i] = line
	} else {
		o.Lines = append(o.Lines, line)
	}
	o.Recalculate()
}

// RemoveLine elimina la línea del producto y devuelve la cantidad que tenía (0 si no existía).
func (o *Order) RemoveLine(productID string) int {
	i := o.FindLine(productID)
	if i < 0 {
		return 0
	}
	qty := o.Lines[i].Quantity
	o.Lines = append(o.Lines[:i], o.Lines[i+1:]...)
	o.Recalculate()
	return qty
}

// Recalculate mantiene TotalAmount = Σ TotalPrice.
func (o *Order) Recalculate() {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.TotalPrice)
	}
	o.TotalAmount = total
}

// Transiciones permitidas: estado destino -> estados de origen.
var orderTransitions = map[string][]string{
	OrderStatusPaid:       {OrderStatusDraft},
	OrderStatusExpired:    {OrderStatusDraft},
	OrderStatusAccepted:   {OrderStatusPaid},
	OrderStatusDelivering: {OrderStatusAccepted},
	OrderStatusSuccess:    {OrderStatusAccepted, OrderStatusDelivering},
	OrderStatusCanceled:   {OrderStatusPaid, OrderStatusAccepted, OrderStatusDelivering},
}

// AllowedFrom devuelve los estados desde los que se puede llegar a target.
func AllowedFrom(target string) []string {
	return orderTransitions[target]
}

// CanTransition indica si el pedido puede pasar a target desde su estado actual.
func (o *Order) CanTransition(target string) bool {
	for _, from := range orderTransitions[target] {
		if o.Status == from {
			return true
		}
	}
	return false
}

// TransitionTo cambia el estado o devuelve StatusConflictError si la transición no está permitida.
func (o *Order) TransitionTo(target string, now time.Time) error {
	if !o.CanTransition(target) {
		return &domain.StatusConflictError{Current: o.Status, Expected: AllowedFrom(target)}
	}
	o.Status = target
	o.UpdatedAt = now
	return nil
}

// HoldsReservation indica si las cantidades del pedido siguen contadas en StockEngaged.
// La reserva vive en draft y se arrastra a paid hasta la aceptación o cancelación.
func (o *Order) HoldsReservation() bool {
	return o.Status == OrderStatusDraft || o.Status == OrderStatusPaid
}
