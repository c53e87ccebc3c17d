package fleet

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pcgrand/pcg"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func TestGenerateMatchesSequential(t *testing.T) {
	t.Parallel()

	for _, v := range pcg.Variants() {
		t.Run(v.String(), func(t *testing.T) {
			f := &Fleet{Variant: v, Seed: pcg.U128(42), BaseStream: pcg.U128(100), Workers: 4, Logger: quietLogger()}
			out, err := f.Generate(context.Background(), 256)
			require.NoError(t, err)
			require.Len(t, out, 4)

			for w, vals := range out {
				ref, err := pcg.New(v, pcg.U128(42), pcg.U128(uint64(100+w)))
				require.NoError(t, err)
				for i, got := range vals {
					require.Equal(t, ref.Uint64(), got, "worker %d output %d", w, i)
				}
			}

			seen := make(map[uint64]int)
			for w, vals := range out {
				for _, x := range vals[:16] {
					prev, dup := seen[x]
					require.False(t, dup, "worker %d repeats output of worker %d", w, prev)
					seen[x] = w
				}
			}
		})
	}
}

func TestGenerateRejectsWideSeed(t *testing.T) {
	t.Parallel()

	f := &Fleet{Variant: pcg.XSHRR, Seed: pcg.Uint128{Hi: 1}, Workers: 2}
	_, err := f.Generate(context.Background(), 1)
	assert.ErrorIs(t, err, pcg.ErrSeedRange)
}

func TestGenerateCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &Fleet{Variant: pcg.DXSM, Workers: 2}
	_, err := f.Generate(ctx, 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunByteBudget(t *testing.T) {
	t.Parallel()

	f := &Fleet{
		Variant:   pcg.XSLRR,
		Seed:      pcg.U128(7),
		Workers:   3,
		ChunkSize: 1000,
		Clock:     quartz.NewMock(t),
		Logger:    quietLogger(),
	}
	stats, err := f.Run(context.Background(), Budget{Bytes: 10_001})
	require.NoError(t, err)
	assert.Equal(t, uint64(10_001), stats.Bytes)
	assert.Equal(t, []uint64{3334, 3334, 3333}, stats.PerWorker)
	assert.Equal(t, 3, stats.Workers)
	assert.Equal(t, time.Duration(0), stats.Elapsed)
	assert.Zero(t, stats.Throughput())
	assert.Equal(t, uint64(10_001), f.Produced())
}

func TestRunDurationBudget(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mClock := quartz.NewMock(t)
	f := &Fleet{Variant: pcg.XSHRR, Workers: 2, ChunkSize: 256, Clock: mClock, Logger: quietLogger()}

	type result struct {
		stats Stats
		err   error
	}
	done := make(chan result, 1)
	go func() {
		stats, err := f.Run(ctx, Budget{Duration: time.Second})
		done <- result{stats, err}
	}()

	require.Eventually(t, func() bool { return f.Produced() > 0 }, 5*time.Second, time.Millisecond)
	mClock.Advance(time.Second).MustWait(ctx)

	select {
	case r := <-done:
		require.NoError(t, r.err)
		assert.Equal(t, time.Second, r.stats.Elapsed)
		assert.Positive(t, r.stats.Bytes)
		assert.InDelta(t, float64(r.stats.Bytes), r.stats.Throughput(), 1)
	case <-ctx.Done():
		t.Fatal("run did not stop at the deadline")
	}
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	f := &Fleet{Variant: pcg.DXSM, Workers: 2, Logger: quietLogger()}

	go func() {
		for f.Produced() == 0 {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()
	_, err := f.Run(ctx, Budget{Duration: time.Hour})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunNeedsBudget(t *testing.T) {
	t.Parallel()

	_, err := (&Fleet{Variant: pcg.XSHRR}).Run(context.Background(), Budget{})
	assert.ErrorIs(t, err, ErrNoBudget)
}

func TestShare(t *testing.T) {
	t.Parallel()

	var total uint64
	for w := 0; w < 7; w++ {
		total += share(100, 7, w)
	}
	assert.Equal(t, uint64(100), total)
	assert.Equal(t, uint64(15), share(100, 7, 0))
	assert.Equal(t, uint64(14), share(100, 7, 6))
}
