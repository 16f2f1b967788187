package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/ports"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/pkg/logger"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Los fallos de serialización y deadlocks se reintentan hasta maxAttempts veces.
type TxRunner struct {
	pool        *pgxpool.Pool
	maxAttempts int
	metrics     ports.Metrics
	log         *logger.Logger
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, maxAttempts int, metrics ports.Metrics, log *logger.Logger) *TxRunner {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &TxRunner{pool: pool, maxAttempts: maxAttempts, metrics: metrics, log: log.Component("postgres")}
}

// Repos devuelve repositorios sobre el pool, para lecturas fuera de transacción.
func Repos(q Querier) ports.TxRepos {
	return ports.TxRepos{
		Products:  NewProductRepository(q),
		Orders:    NewOrderRepository(q),
		Sales:     NewSaleRepository(q),
		Movements: NewStockMovementRepository(q),
		Customers: NewCustomerRepository(q),
	}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos ports.TxRepos) error) error {
	var err error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		err = r.runOnce(ctx, fn)
		if err == nil || !isRetryable(err) || ctx.Err() != nil {
			return err
		}
		r.metrics.TxRetry()
		r.log.Warn().Err(err).Int("attempt", attempt).Msg("transacción reintentada")
	}
	return err
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(ctx context.Context, repos ports.TxRepos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, Repos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
