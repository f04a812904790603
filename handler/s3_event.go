package handler

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/aws/aws-lambda-go/events"
)

// TriggersFromS3Event returns a trigger per record of an S3 notification.
// Object keys in notifications are url encoded, with spaces as '+'.
func TriggersFromS3Event(e events.S3Event) ([]Trigger, error) {
	if len(e.Records) == 0 {
		return nil, fmt.Errorf("s3 event contains no records")
	}
	res := make([]Trigger, 0, len(e.Records))
	for i, record := range e.Records {
		key, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			return nil, fmt.Errorf("record %d: failed to decode object key '%s', %w", i, record.S3.Object.Key, err)
		}
		res = append(res, Trigger{Bucket: record.S3.Bucket.Name, Key: key})
	}
	return res, nil
}

// HandleS3Event is the lambda entrypoint: it processes every record of the event in order.
// Each record is independent; the returned error joins the errors of all failed records.
func (h *Handler) HandleS3Event(ctx context.Context, e events.S3Event) ([]*InvocationResult, error) {
	triggers, err := TriggersFromS3Event(e)
	if err != nil {
		return nil, err
	}

	var results []*InvocationResult
	var errs []error
	for _, trigger := range triggers {
		res, err := h.Handle(ctx, trigger)
		results = append(results, res)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", trigger, err))
		}
	}
	return results, errors.Join(errs...)
}
