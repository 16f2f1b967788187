package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
)

// SaleItemRequest línea de venta directa. El precio lo fija el catálogo.
type SaleItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// SaleCustomerRequest datos del cliente de mostrador (opcional).
type SaleCustomerRequest struct {
	CustomerID string `json:"customer_id,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// CreateSaleRequest body para POST /api/sales.
// Paid = true registra la venta ya cobrada (descuenta stock en la misma operación).
type CreateSaleRequest struct {
	Customer      *SaleCustomerRequest `json:"customer,omitempty"`
	Items         []SaleItemRequest    `json:"items"`
	PaymentMethod string               `json:"payment_method"`
	Paid          bool                 `json:"paid"`
}

// PaySaleRequest body para POST /api/sales/:id/pay.
type PaySaleRequest struct {
	PaymentMethod string `json:"payment_method,omitempty"`
}

// SaleResponse venta de punto de venta.
type SaleResponse struct {
	ID            string                   `json:"id"`
	StoreID       string                   `json:"store_id"`
	SellerID      string                   `json:"seller_id"`
	Customer      *entity.CustomerSnapshot `json:"customer,omitempty"`
	Lines         []LineResponse           `json:"lines"`
	TotalAmount   decimal.Decimal          `json:"total_amount"`
	PaymentMethod string                   `json:"payment_method"`
	Status        string                   `json:"status"`
	Origin        string                   `json:"origin"`
	OrderID       *string                  `json:"order_id,omitempty"`
	PaidAt        *time.Time               `json:"paid_at,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
}

// SaleListResponse listado paginado de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// FromSale mapea la venta a la respuesta.
func FromSale(s *entity.Sale) SaleResponse {
	return SaleResponse{
		ID:            s.ID,
		StoreID:       s.StoreID,
		SellerID:      s.SellerID,
		Customer:      s.Customer,
		Lines:         toLines(s.Lines),
		TotalAmount:   s.TotalAmount,
		PaymentMethod: s.PaymentMethod,
		Status:        s.Status,
		Origin:        s.Origin,
		OrderID:       s.OrderID,
		PaidAt:        s.PaidAt,
		CreatedAt:     s.CreatedAt,
	}
}

// FromSales mapea un listado.
func FromSales(list []*entity.Sale, limit, offset int) SaleListResponse {
	items := make([]SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, FromSale(s))
	}
	return SaleListResponse{Items: items, Page: PageResponse{Limit: limit, Offset: offset}}
}
