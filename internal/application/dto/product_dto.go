package dto

import (
	"github.com/shopspring/decimal"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
)

// StockResponse contadores de inventario de un producto.
type StockResponse struct {
	ProductID    string          `json:"product_id"`
	Name         string          `json:"name"`
	Stock        int             `json:"stock"`
	StockEngaged int             `json:"stock_engaged"`
	StockReal    int             `json:"stock_real"`
	Cost         decimal.Decimal `json:"cost"`
	Price        decimal.Decimal `json:"effective_price"`
}

// FromProductStock mapea el producto a sus contadores.
func FromProductStock(p *entity.Product) StockResponse {
	return StockResponse{
		ProductID: p.ID, Name: p.Name, Stock: p.Stock, StockEngaged: p.StockEngaged,
		StockReal: p.StockReal(), Cost: p.Cost, Price: p.EffectivePrice(),
	}
}

// FromProductsStock mapea un listado.
func FromProductsStock(list []*entity.Product) []StockResponse {
	out := make([]StockResponse, 0, len(list))
	for _, p := range list {
		out = append(out, FromProductStock(p))
	}
	return out
}
