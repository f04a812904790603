package rate_limiter

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestDefinition_Validate(t *testing.T) {
	tests := []struct {
		name      string
		def       Definition
		wantCount int
	}{
		{name: "rate and concurrency", def: Definition{Name: "alerts", FillRate: 1, BucketSize: 1, MaxConcurrency: 2}},
		{name: "unlimited", def: Definition{Name: "none"}},
		{name: "missing name", def: Definition{MaxConcurrency: 1}, wantCount: 1},
		{name: "rate without bucket", def: Definition{Name: "a", FillRate: 5}, wantCount: 1},
		{name: "negatives", def: Definition{Name: "a", FillRate: -1, MaxConcurrency: -1}, wantCount: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, tt.def.Validate(), tt.wantCount)
		})
	}
}

func TestDefinition_String(t *testing.T) {
	assert.Equal(t, "unlimited", (&Definition{Name: "a"}).String())
	assert.Equal(t, "MaxConcurrency: 3", (&Definition{Name: "a", MaxConcurrency: 3}).String())
}

func TestLimiter_MaxConcurrency(t *testing.T) {
	l := NewLimiter(&Definition{Name: "batch", MaxConcurrency: 2})

	var active, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.Do(context.Background(), func(context.Context) error {
				n := atomic.AddInt32(&active, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&active, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, peak, int32(2))
}

func TestLimiter_WaitReleasesSlotOnRateFailure(t *testing.T) {
	// one token per hour, burst of one: the second wait cannot be satisfied before the deadline
	l := NewLimiter(&Definition{Name: "alerts", FillRate: rate.Every(time.Hour), BucketSize: 1, MaxConcurrency: 1})

	require.NoError(t, l.Wait(context.Background()))
	l.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(ctx))

	// the concurrency slot must be free again
	assert.True(t, l.sem.TryAcquire(1))
	l.Release()
}
