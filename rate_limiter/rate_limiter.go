// Package rate_limiter throttles calls to external services, such as alert publishing
// and batch processing of many objects
package rate_limiter

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

type Limiter struct {
	Name string
	def  Definition

	limiter *rate.Limiter
	sem     *semaphore.Weighted
}

func NewLimiter(d *Definition) *Limiter {
	res := &Limiter{
		Name: d.Name,
		def:  *d,
	}
	if d.FillRate > 0 {
		res.limiter = rate.NewLimiter(d.FillRate, int(d.BucketSize))
	}
	if d.MaxConcurrency > 0 {
		res.sem = semaphore.NewWeighted(d.MaxConcurrency)
	}
	return res
}

func (l *Limiter) String() string {
	return l.def.String()
}

// Wait blocks until a concurrency slot and a rate token are both available.
// On success the caller must call Release once done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l.sem != nil {
		if err := l.sem.Acquire(ctx, 1); err != nil {
			return err
		}
	}
	if l.limiter != nil {
		if err := l.limiter.Wait(ctx); err != nil {
			// the slot was taken but will never be used
			l.Release()
			return err
		}
	}
	return nil
}

func (l *Limiter) Release() {
	if l.sem == nil {
		return
	}
	l.sem.Release(1)
}

// Do runs fn within the limits
func (l *Limiter) Do(ctx context.Context, fn func(context.Context) error) error {
	if err := l.Wait(ctx); err != nil {
		return err
	}
	defer l.Release()
	return fn(ctx)
}
