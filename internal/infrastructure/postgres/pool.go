package postgres

import (
	"context"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/pkg/config"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/pkg/logger"
)

// NewPool abre el pool de PostgreSQL, registra el codec NUMERIC -> decimal en cada conexión
// y espera a que la base responda (hasta cfg.ConnectAttempts pings).
func NewPool(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*pgxpool.Pool, error) {
	log = log.Component("postgres")

	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute
	poolConfig.ConnConfig.Tracer = &queryTracer{log: log, slow: cfg.SlowQuery}

	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := ping(ctx, pool, cfg.ConnectAttempts, log); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// ping reintenta con espera creciente: al arrancar junto a la base (compose) suele no estar lista aún.
func ping(ctx context.Context, pool *pgxpool.Pool, attempts int, log *logger.Logger) error {
	if attempts < 1 {
		attempts = 1
	}
	wait := 500 * time.Millisecond
	var err error
	for i := 1; i <= attempts; i++ {
		if err = pool.Ping(ctx); err == nil {
			return nil
		}
		if i == attempts {
			break
		}
		log.Warn().Err(err).Int("attempt", i).Dur("retry_in", wait).Msg("base de datos no disponible")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
	return fmt.Errorf("ping DB: %w", err)
}

type traceStartKey struct{}

type traceStart struct {
	sql string
	at  time.Time
}

// queryTracer registra cada consulta en nivel trace y las lentas o fallidas en warn.
type queryTracer struct {
	log  *logger.Logger
	slow time.Duration
}

func (t *queryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, traceStartKey{}, traceStart{sql: data.SQL, at: time.Now()})
}

func (t *queryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(traceStartKey{}).(traceStart)
	if !ok {
		return
	}
	elapsed := time.Since(start.at)
	switch {
	case data.Err != nil && !isRetryable(data.Err) && !isUniqueViolation(data.Err):
		t.log.Warn().Err(data.Err).Dur("elapsed", elapsed).Str("sql", start.sql).Msg("consulta fallida")
	case t.slow > 0 && elapsed >= t.slow:
		t.log.Warn().Dur("elapsed", elapsed).Str("sql", start.sql).Msg("consulta lenta")
	default:
		t.log.Trace().Dur("elapsed", elapsed).Str("tag", data.CommandTag.String()).Msg("consulta")
	}
}
