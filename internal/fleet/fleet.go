// Package fleet runs many generators in parallel. Workers never share a
// generator: worker i owns its own instance on stream BaseStream+i, so the
// per-worker sequences are reproducible regardless of scheduling.
package fleet

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pcgrand/pcg"
)

// DefaultChunkSize is the Fill size used by Run when none is set.
const DefaultChunkSize = 64 * 1024

// ErrNoBudget is returned by Run when neither limit is set.
var ErrNoBudget = errors.New("fleet: budget needs bytes or duration")

// Fleet describes a set of partitioned generators.
type Fleet struct {
	Variant    pcg.Variant
	Seed       pcg.Uint128
	BaseStream pcg.Uint128
	Workers    int
	ChunkSize  int
	Clock      quartz.Clock
	Logger     *log.Logger

	produced atomic.Uint64
}

// Budget bounds a Run. Whichever limit is hit first ends it.
type Budget struct {
	Bytes    uint64
	Duration time.Duration
}

// Stats summarises a Run.
type Stats struct {
	Workers   int
	Bytes     uint64
	PerWorker []uint64
	Elapsed   time.Duration
}

// Throughput is bytes per second, zero when no time elapsed.
func (s Stats) Throughput() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Bytes) / s.Elapsed.Seconds()
}

func (f *Fleet) workers() int {
	if f.Workers < 1 {
		return 1
	}
	return f.Workers
}

func (f *Fleet) clock() quartz.Clock {
	if f.Clock == nil {
		return quartz.NewReal()
	}
	return f.Clock
}

func (f *Fleet) logger() *log.Logger {
	if f.Logger == nil {
		return log.Default().WithPrefix("fleet")
	}
	return f.Logger.WithPrefix("fleet")
}

// Stream returns the stream worker i runs on.
func (f *Fleet) Stream(i int) pcg.Uint128 {
	return f.BaseStream.Add(pcg.U128(uint64(i)))
}

// Source builds worker i's generator.
func (f *Fleet) Source(i int) (pcg.Source, error) {
	return pcg.New(f.Variant, f.Seed, f.Stream(i))
}

// Produced reports bytes emitted by the current or last Run.
func (f *Fleet) Produced() uint64 {
	return f.produced.Load()
}

// Generate returns perWorker 64-bit outputs from every worker, indexed by
// worker.
func (f *Fleet) Generate(ctx context.Context, perWorker int) ([][]uint64, error) {
	n := f.workers()
	sources, err := f.sources(n)
	if err != nil {
		return nil, err
	}

	out := make([][]uint64, n)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < n; w++ {
		src := sources[w]
		g.Go(func() error {
			vals := make([]uint64, perWorker)
			for i := range vals {
				if i%4096 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				vals[i] = src.Uint64()
			}
			out[w] = vals
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Run fills chunks on every worker until the budget is spent or ctx is
// cancelled. Cancellation by ctx is reported as an error; exhausting the
// budget is not.
func (f *Fleet) Run(ctx context.Context, budget Budget) (Stats, error) {
	if budget.Bytes == 0 && budget.Duration <= 0 {
		return Stats{}, ErrNoBudget
	}

	n := f.workers()
	sources, err := f.sources(n)
	if err != nil {
		return Stats{}, err
	}
	chunk := f.ChunkSize
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}

	logger := f.logger()
	clock := f.clock()
	f.produced.Store(0)

	var expired atomic.Bool
	if budget.Duration > 0 {
		timer := clock.AfterFunc(budget.Duration, func() { expired.Store(true) }, "fleet", "budget")
		defer timer.Stop()
	}

	perWorker := make([]uint64, n)
	start := clock.Now("fleet", "start")
	logger.Debug("Starting workers", "workers", n, "variant", f.Variant, "bytes", budget.Bytes, "duration", budget.Duration)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < n; w++ {
		src := sources[w]
		quota := share(budget.Bytes, n, w)
		g.Go(func() error {
			buf := make([]byte, chunk)
			var done uint64
			for budget.Bytes == 0 || done < quota {
				if expired.Load() {
					break
				}
				if err := gctx.Err(); err != nil {
					return err
				}
				b := buf
				if budget.Bytes != 0 && quota-done < uint64(len(b)) {
					b = b[:quota-done]
				}
				src.Fill(b)
				done += uint64(len(b))
				f.produced.Add(uint64(len(b)))
			}
			perWorker[w] = done
			logger.Debug("Worker finished", "worker", w, "bytes", done)
			return nil
		})
	}

	err = g.Wait()
	stats := Stats{
		Workers:   n,
		Bytes:     f.produced.Load(),
		PerWorker: perWorker,
		Elapsed:   clock.Since(start, "fleet", "elapsed"),
	}
	if err != nil {
		return stats, err
	}
	logger.Info("Fleet finished",
		"workers", n,
		"bytes", stats.Bytes,
		"elapsed", stats.Elapsed,
		"mib_per_sec", fmt.Sprintf("%.1f", stats.Throughput()/(1<<20)))
	return stats, nil
}

func (f *Fleet) sources(n int) ([]pcg.Source, error) {
	sources := make([]pcg.Source, n)
	for i := range sources {
		src, err := f.Source(i)
		if err != nil {
			return nil, fmt.Errorf("worker %d: %w", i, err)
		}
		sources[i] = src
	}
	return sources, nil
}

// share splits total across n workers, giving the remainder to the first
// workers.
func share(total uint64, n, w int) uint64 {
	q := total / uint64(n)
	if uint64(w) < total%uint64(n) {
		q++
	}
	return q
}
