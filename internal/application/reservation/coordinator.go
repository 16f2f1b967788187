// Package reservation centraliza toda modificación de StockEngaged.
// Cada operación bloquea la fila del producto (GetForUpdate) con los repos de la transacción del caller.
package reservation

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/ports"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/inventory"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/repository"
)

// Coordinator aplica reservas y liberaciones sobre productos bloqueados.
type Coordinator struct {
	metrics ports.Metrics
}

// NewCoordinator construye el coordinador. metrics puede ser nil.
func NewCoordinator(metrics ports.Metrics) *Coordinator {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Coordinator{metrics: metrics}
}

// Reserve bloquea el producto y compromete quantity unidades (nueva línea).
// Devuelve el producto actualizado para que el caller tome precio y nombre vigentes.
func (c *Coordinator) Reserve(ctx context.Context, products repository.ProductRepository, productID string, quantity int) (*entity.Product, error) {
	p, err := lock(ctx, products, productID)
	if err != nil {
		return nil, err
	}
	if err := inventory.Reserve(p, quantity); err != nil {
		c.rejected(err)
		return nil, err
	}
	if err := products.UpdateStockEngaged(ctx, p.ID, p.StockEngaged); err != nil {
		return nil, err
	}
	c.metrics.ReservationChanged("reserve", quantity)
	return p, nil
}

// Adjust bloquea el producto y aplica la variación delta de una línea existente.
func (c *Coordinator) Adjust(ctx context.Context, products repository.ProductRepository, productID string, delta int) (*entity.Product, error) {
	p, err := lock(ctx, products, productID)
	if err != nil {
		return nil, err
	}
	if delta == 0 {
		return p, nil
	}
	if err := inventory.Adjust(p, delta); err != nil {
		c.rejected(err)
		return nil, err
	}
	if err := products.UpdateStockEngaged(ctx, p.ID, p.StockEngaged); err != nil {
		return nil, err
	}
	c.metrics.ReservationChanged("adjust", delta)
	return p, nil
}

// Release libera quantity unidades. La operación en sí nunca falla por la cantidad;
// solo por producto inexistente o error de persistencia.
func (c *Coordinator) Release(ctx context.Context, products repository.ProductRepository, productID string, quantity int) error {
	p, err := lock(ctx, products, productID)
	if err != nil {
		return err
	}
	inventory.Release(p, quantity)
	if err := products.UpdateStockEngaged(ctx, p.ID, p.StockEngaged); err != nil {
		return err
	}
	c.metrics.ReservationChanged("release", -quantity)
	return nil
}

// ReleaseLines libera todas las líneas bloqueando los productos en orden ascendente de id
// (mismo orden en todas las rutas para evitar interbloqueos).
func (c *Coordinator) ReleaseLines(ctx context.Context, products repository.ProductRepository, lines []entity.OrderLine) error {
	for _, l := range SortedLines(lines) {
		if err := c.Release(ctx, products, l.ProductID, l.Quantity); err != nil {
			return fmt.Errorf("liberar %s: %w", l.ProductID, err)
		}
	}
	return nil
}

// SortedLines copia de lines ordenada por ProductID.
func SortedLines(lines []entity.OrderLine) []entity.OrderLine {
	out := make([]entity.OrderLine, len(lines))
	copy(out, lines)
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

func (c *Coordinator) rejected(err error) {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		c.metrics.ReservationRejected("insufficient_stock")
	case errors.Is(err, domain.ErrQuantityOutOfBounds):
		c.metrics.ReservationRejected("out_of_bounds")
	default:
		c.metrics.ReservationRejected("invalid")
	}
}

func lock(ctx context.Context, products repository.ProductRepository, productID string) (*entity.Product, error) {
	p, err := products.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("bloquear producto: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}
