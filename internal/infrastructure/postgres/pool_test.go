package postgres

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/pkg/logger"
)

func trace(t *queryTracer, sql string, end pgx.TraceQueryEndData, startedAgo time.Duration) {
	ctx := t.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: sql})
	if startedAgo > 0 {
		st := ctx.Value(traceStartKey{}).(traceStart)
		st.at = st.at.Add(-startedAgo)
		ctx = context.WithValue(ctx, traceStartKey{}, st)
	}
	t.TraceQueryEnd(ctx, nil, end)
}

func TestQueryTracer_ConsultaLentaEnWarn(t *testing.T) {
	var buf bytes.Buffer
	tr := &queryTracer{log: logger.NewWriter(&buf, "warn"), slow: 100 * time.Millisecond}

	trace(tr, "SELECT 1", pgx.TraceQueryEndData{}, 0)
	assert.Zero(t, buf.Len())

	trace(tr, "SELECT pg_sleep(1)", pgx.TraceQueryEndData{}, time.Second)
	assert.Contains(t, buf.String(), "consulta lenta")
	assert.Contains(t, buf.String(), "pg_sleep")
}

func TestQueryTracer_FallosEsperadosNoSeRegistran(t *testing.T) {
	var buf bytes.Buffer
	tr := &queryTracer{log: logger.NewWriter(&buf, "warn")}

	trace(tr, "INSERT INTO orders", pgx.TraceQueryEndData{Err: &pgconn.PgError{Code: "23505"}}, 0)
	trace(tr, "UPDATE products", pgx.TraceQueryEndData{Err: &pgconn.PgError{Code: "40P01"}}, 0)
	assert.Zero(t, buf.Len())

	trace(tr, "SELECT x", pgx.TraceQueryEndData{Err: errors.New("conexión cerrada")}, 0)
	assert.Contains(t, buf.String(), "consulta fallida")
}

func TestQueryTracer_SinInicioNoRegistra(t *testing.T) {
	var buf bytes.Buffer
	tr := &queryTracer{log: logger.NewWriter(&buf, "trace")}

	tr.TraceQueryEnd(context.Background(), nil, pgx.TraceQueryEndData{Err: errors.New("x")})
	assert.Zero(t, buf.Len())
}
