package alert

import (
	"context"
	"errors"

	"github.com/turbot/tailpipe-cleanse/errhandling"
	"github.com/turbot/tailpipe-cleanse/rate_limiter"
)

// LimitedPublisher throttles an underlying Publisher
type LimitedPublisher struct {
	Publisher
	limiter *rate_limiter.Limiter
}

func NewLimitedPublisher(p Publisher, limiter *rate_limiter.Limiter) *LimitedPublisher {
	return &LimitedPublisher{Publisher: p, limiter: limiter}
}

func (p *LimitedPublisher) Publish(ctx context.Context, topic, subject, message string) error {
	err := p.limiter.Do(ctx, func(ctx context.Context) error {
		return p.Publisher.Publish(ctx, topic, subject, message)
	})
	if err != nil {
		var alertErr *errhandling.AlertError
		if errors.As(err, &alertErr) {
			return err
		}
		return errhandling.NewAlertError(topic, err)
	}
	return nil
}
