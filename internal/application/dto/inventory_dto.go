package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// UnitCost solo en IN: actualiza el costo promedio ponderado.
type RegisterMovementRequest struct {
	ProductID string           `json:"product_id"`
	Type      string           `json:"type"`
	Quantity  int              `json:"quantity"`
	Note      string           `json:"note,omitempty"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
}

// CountLineRequest conteo físico de un producto.
type CountLineRequest struct {
	ProductID string `json:"product_id"`
	Counted   int    `json:"counted"`
}

// ReconcileRequest body para POST /api/inventory/reconcile.
type ReconcileRequest struct {
	Note   string             `json:"note,omitempty"`
	Counts []CountLineRequest `json:"counts"`
}

// MovementResponse entrada del libro de stock.
type MovementResponse struct {
	ID          string           `json:"id"`
	ProductID   string           `json:"product_id"`
	Type        string           `json:"type"`
	Quantity    int              `json:"quantity"`
	StockBefore int              `json:"stock_before"`
	StockAfter  int              `json:"stock_after"`
	Source      string           `json:"source"`
	Reference   string           `json:"reference,omitempty"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
	Note        string           `json:"note,omitempty"`
	ActorID     string           `json:"actor_id,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// FromMovement mapea el movimiento.
func FromMovement(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID: m.ID, ProductID: m.ProductID, Type: m.Type, Quantity: m.Quantity,
		StockBefore: m.StockBefore, StockAfter: m.StockAfter, Source: m.Source,
		Reference: m.Reference, UnitCost: m.UnitCost, Note: m.Note, ActorID: m.ActorID, CreatedAt: m.CreatedAt,
	}
}

// FromMovements mapea un listado.
func FromMovements(list []*entity.StockMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, FromMovement(m))
	}
	return out
}
