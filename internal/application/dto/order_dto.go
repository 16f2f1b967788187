package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
)

// AddLineRequest body para POST /api/cart/lines.
type AddLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// SetQuantityRequest body para PUT /api/cart/lines/:productId (0 elimina la línea).
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// DeliveryAddressDTO dirección de entrega.
type DeliveryAddressDTO struct {
	Line1      string `json:"line1"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// CheckoutRequest body para POST /api/cart/checkout.
type CheckoutRequest struct {
	DeliveryMode    string              `json:"delivery_mode"`
	DeliveryAddress *DeliveryAddressDTO `json:"delivery_address,omitempty"`
	PaymentMethod   string              `json:"payment_method"`
}

// ToEntity convierte la dirección (nil si no viene).
func (d *DeliveryAddressDTO) ToEntity() *entity.DeliveryAddress {
	if d == nil {
		return nil
	}
	return &entity.DeliveryAddress{Line1: d.Line1, City: d.City, PostalCode: d.PostalCode, Phone: d.Phone}
}

// LineResponse línea de pedido o venta.
type LineResponse struct {
	ProductID  string          `json:"product_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	IsSale     bool            `json:"is_sale"`
}

// OrderResponse carrito o pedido.
type OrderResponse struct {
	ID              string              `json:"id"`
	CustomerID      string              `json:"customer_id"`
	StoreID         string              `json:"store_id"`
	Status          string              `json:"status"`
	Lines           []LineResponse      `json:"lines"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	DeliveryMode    string              `json:"delivery_mode,omitempty"`
	DeliveryAddress *DeliveryAddressDTO `json:"delivery_address,omitempty"`
	PaymentMethod   string              `json:"payment_method,omitempty"`
	ExpiresAt       *time.Time          `json:"expires_at,omitempty"`
	PaidAt          *time.Time          `json:"paid_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// OrderListResponse listado paginado de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// AcceptOrderResponse resultado de aceptar un pedido: el pedido y la venta generada.
type AcceptOrderResponse struct {
	Order OrderResponse `json:"order"`
	Sale  SaleResponse  `json:"sale"`
}

func toLines(lines []entity.OrderLine) []LineResponse {
	out := make([]LineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, LineResponse{
			ProductID: l.ProductID, Name: l.Name, Quantity: l.Quantity,
			UnitPrice: l.UnitPrice, TotalPrice: l.TotalPrice, IsSale: l.IsSale,
		})
	}
	return out
}

// FromOrder mapea el agregado a la respuesta.
func FromOrder(o *entity.Order) OrderResponse {
	resp := OrderResponse{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		StoreID:       o.StoreID,
		Status:        o.Status,
		Lines:         toLines(o.Lines),
		TotalAmount:   o.TotalAmount,
		DeliveryMode:  o.DeliveryMode,
		PaymentMethod: o.PaymentMethod,
		PaidAt:        o.PaidAt,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	if o.Status == entity.OrderStatusDraft {
		resp.ExpiresAt = o.ExpiresAt
	}
	if a := o.DeliveryAddress; a != nil {
		resp.DeliveryAddress = &DeliveryAddressDTO{Line1: a.Line1, City: a.City, PostalCode: a.PostalCode, Phone: a.Phone}
	}
	return resp
}

// FromOrders mapea un listado.
func FromOrders(list []*entity.Order, limit, offset int) OrderListResponse {
	items := make([]OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, FromOrder(o))
	}
	return OrderListResponse{Items: items, Page: PageResponse{Limit: limit, Offset: offset}}
}
