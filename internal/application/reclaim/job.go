// Package reclaim barre periódicamente los carritos vencidos: libera su reserva y los marca expired.
// Cada carrito se procesa en su propia transacción; un fallo se registra y no detiene el barrido.
package reclaim

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/ports"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/reservation"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/repository"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/pkg/logger"
)

// Config parámetros del barrido.
type Config struct {
	Interval  time.Duration
	BatchSize int
	Workers   int
}

// Result resumen de un barrido.
type Result struct {
	Scanned int
	Expired int
	Failed  int
	Skipped int // ya no estaban en draft vencido al bloquearlos
}

var errSkip = errors.New("reclaim: carrito ya no elegible")

// Job barrido de carritos vencidos.
type Job struct {
	tx          ports.TxRunner
	orders      repository.OrderRepository
	reservation *reservation.Coordinator
	clock       ports.Clock
	metrics     ports.Metrics
	log         *logger.Logger
	cfg         Config
	running     atomic.Bool
}

// NewJob construye el job. orders se usa para la consulta inicial fuera de transacción.
func NewJob(
	tx ports.TxRunner,
	orders repository.OrderRepository,
	coordinator *reservation.Coordinator,
	clock ports.Clock,
	metrics ports.Metrics,
	log *logger.Logger,
	cfg Config,
) *Job {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 200
	}
	return &Job{
		tx:          tx,
		orders:      orders,
		reservation: coordinator,
		clock:       clock,
		metrics:     metrics,
		log:         log.Component("reclaim"),
		cfg:         cfg,
	}
}

// Sweep expira los drafts con expiresAt <= now. Es idempotente y puede solaparse con otro
// barrido: cada carrito se vuelve a comprobar bajo bloqueo dentro de su transacción.
func (j *Job) Sweep(ctx context.Context) (Result, error) {
	start := time.Now()
	now := j.clock.Now()

	candidates, err := j.orders.ListExpiredDrafts(ctx, now, j.cfg.BatchSize)
	if err != nil {
		return Result{}, err
	}

	var expired, failed, skipped atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.cfg.Workers)
	for _, c := range candidates {
		orderID := c.ID
		g.Go(func() error {
			switch err := j.expireOne(gctx, orderID, now); {
			case err == nil:
				expired.Add(1)
			case errors.Is(err, errSkip):
				skipped.Add(1)
			default:
				// aislado por carrito: se registra y se sigue
				failed.Add(1)
				j.log.Error().Err(err).Str("order_id", orderID).Msg("no se pudo expirar el carrito")
			}
			return nil
		})
	}
	_ = g.Wait()

	res := Result{
		Scanned: len(candidates),
		Expired: int(expired.Load()),
		Failed:  int(failed.Load()),
		Skipped: int(skipped.Load()),
	}
	elapsed := time.Since(start)
	j.metrics.ReclaimRun(res.Scanned, res.Expired, res.Failed, elapsed)
	if res.Scanned > 0 {
		j.log.Info().Int("scanned", res.Scanned).Int("expired", res.Expired).Int("failed", res.Failed).
			Int("skipped", res.Skipped).Dur("elapsed", elapsed).Msg("barrido de carritos")
	}
	return res, ctx.Err()
}

// expireOne bloquea el carrito y, si sigue en draft vencido, libera sus líneas y lo marca expired.
func (j *Job) expireOne(ctx context.Context, orderID string, now time.Time) error {
	return j.tx.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		o, err := repos.Orders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil || o.Status != entity.OrderStatusDraft || !o.IsExpired(now) {
			return errSkip
		}
		if err := j.reservation.ReleaseLines(ctx, repos.Products, o.Lines); err != nil {
			return err
		}
		if err := o.TransitionTo(entity.OrderStatusExpired, now); err != nil {
			return err
		}
		return repos.Orders.Update(ctx, o)
	})
}

// Start ejecuta Sweep cada cfg.Interval hasta que ctx se cancele.
// Si el barrido anterior sigue en curso, el tick se omite.
func (j *Job) Start(ctx context.Context) {
	ticker := time.NewTicker(j.cfg.Interval)
	defer ticker.Stop()
	j.log.Info().Dur("interval", j.cfg.Interval).Msg("barrido de carritos iniciado")
	for {
		select {
		case <-ctx.Done():
			j.log.Info().Msg("barrido de carritos detenido")
			return
		case <-ticker.C:
			j.tick(ctx)
		}
	}
}

func (j *Job) tick(ctx context.Context) {
	if !j.running.CompareAndSwap(false, true) {
		j.log.Warn().Msg("barrido anterior aún en curso, se omite")
		return
	}
	go func() {
		defer j.running.Store(false)
		defer func() {
			if r := recover(); r != nil {
				j.log.Error().Interface("panic", r).Msg("pánico en el barrido")
			}
		}()
		if _, err := j.Sweep(ctx); err != nil && !errors.Is(err, context.Canceled) {
			j.log.Error().Err(err).Msg("barrido fallido")
		}
	}()
}
