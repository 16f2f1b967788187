package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, customer_id, store_id, status, lines, total_amount, delivery_mode,
	delivery_address, payment_method, expires_at, paid_at, created_at, updated_at`

// OrderRepo carritos y pedidos sobre PostgreSQL. Las líneas y la dirección se guardan como JSONB.
// El índice parcial uq_orders_one_draft garantiza un único draft por cliente.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste el carrito. Devuelve domain.ErrDuplicate si el cliente ya tiene un draft.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.CustomerID, o.StoreID, o.Status, linesOrEmpty(o.Lines), o.TotalAmount, o.DeliveryMode,
		o.DeliveryAddress, o.PaymentMethod, o.ExpiresAt, o.PaidAt, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// Update reescribe el estado mutable del pedido.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	query := `
		UPDATE orders SET status = $2, lines = $3, total_amount = $4, delivery_mode = $5,
			delivery_address = $6, payment_method = $7, expires_at = $8, paid_at = $9, updated_at = $10
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		o.ID, o.Status, linesOrEmpty(o.Lines), o.TotalAmount, o.DeliveryMode,
		o.DeliveryAddress, o.PaymentMethod, o.ExpiresAt, o.PaidAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el carrito (al quitar su última línea).
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

func (r *OrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

// GetDraftByCustomerForUpdate devuelve el draft del cliente (expirado o no) bloqueado.
func (r *OrderRepo) GetDraftByCustomerForUpdate(ctx context.Context, customerID string) (*entity.Order, error) {
	return r.getOne(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE customer_id = $1 AND status = 'draft' FOR UPDATE`,
		customerID,
	)
}

// ListExpiredDrafts devuelve drafts con expires_at <= now, los más antiguos primero.
// Sin bloqueo: el job vuelve a leer cada carrito con FOR UPDATE en su propia tx.
func (r *OrderRepo) ListExpiredDrafts(ctx context.Context, now time.Time, limit int) ([]*entity.Order, error) {
	limit, _ = limitOffset(limit, 0)
	return r.list(ctx,
		`SELECT `+orderColumns+` FROM orders
		WHERE status = 'draft' AND expires_at <= $1
		ORDER BY expires_at LIMIT $2`,
		now, limit,
	)
}

// ListByStore lista pedidos de la tienda; status vacío = todos.
func (r *OrderRepo) ListByStore(ctx context.Context, storeID, status string, limit, offset int) ([]*entity.Order, error) {
	limit, offset = limitOffset(limit, offset)
	return r.list(ctx,
		`SELECT `+orderColumns+` FROM orders
		WHERE store_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		storeID, status, limit, offset,
	)
}

func (r *OrderRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (r *OrderRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.StoreID, &o.Status, &o.Lines, &o.TotalAmount, &o.DeliveryMode,
		&o.DeliveryAddress, &o.PaymentMethod, &o.ExpiresAt, &o.PaidAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// linesOrEmpty evita guardar JSON null en la columna NOT NULL.
func linesOrEmpty(lines []entity.OrderLine) []entity.OrderLine {
	if lines == nil {
		return []entity.OrderLine{}
	}
	return lines
}
