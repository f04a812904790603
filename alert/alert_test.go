package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turbot/tailpipe-cleanse/context_values"
	"github.com/turbot/tailpipe-cleanse/errhandling"
	"github.com/turbot/tailpipe-cleanse/rate_limiter"
	"golang.org/x/time/rate"
)

type fakeSns struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakeSns) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, params)
	return &sns.PublishOutput{MessageId: aws.String("m-1")}, nil
}

func TestSnsPublisher_Publish(t *testing.T) {
	client := &fakeSns{}
	p := &SnsPublisher{client: client}

	require.NoError(t, p.Publish(context.Background(), "arn:aws:sns:us-east-1:123:alerts", "anomalies", "body"))
	require.Len(t, client.inputs, 1)
	assert.Equal(t, "arn:aws:sns:us-east-1:123:alerts", aws.ToString(client.inputs[0].TopicArn))
	assert.Equal(t, "anomalies", aws.ToString(client.inputs[0].Subject))
	assert.Equal(t, "body", aws.ToString(client.inputs[0].Message))
	assert.Nil(t, client.inputs[0].MessageAttributes)
}

func TestSnsPublisher_PublishMessageAttributes(t *testing.T) {
	client := &fakeSns{}
	p := &SnsPublisher{client: client}
	ctx := context_values.WithInvocationId(context.Background(), "inv-1")
	ctx = context_values.WithSource(ctx, "s3://incoming/uploads/covid.csv")

	require.NoError(t, p.Publish(ctx, "topic", "s", "m"))
	require.Len(t, client.inputs, 1)
	attrs := client.inputs[0].MessageAttributes
	require.Len(t, attrs, 2)
	assert.Equal(t, "String", aws.ToString(attrs["invocation_id"].DataType))
	assert.Equal(t, "inv-1", aws.ToString(attrs["invocation_id"].StringValue))
	assert.Equal(t, "s3://incoming/uploads/covid.csv", aws.ToString(attrs["source"].StringValue))
}

func TestSnsPublisher_PublishError(t *testing.T) {
	p := &SnsPublisher{client: &fakeSns{err: errors.New("throttled")}}

	err := p.Publish(context.Background(), "topic", "s", "m")
	var alertErr *errhandling.AlertError
	require.True(t, errors.As(err, &alertErr))
	assert.Equal(t, "topic", alertErr.Topic)
}

func TestTruncateSubject(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		wantLen int
	}{
		{name: "short", subject: "anomalies detected", wantLen: 18},
		{name: "exact", subject: strings.Repeat("a", 100), wantLen: 100},
		{name: "long", subject: strings.Repeat("a", 150), wantLen: 100},
		{name: "multibyte", subject: strings.Repeat("é", 150), wantLen: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateSubject(tt.subject)
			assert.Equal(t, tt.wantLen, len([]rune(got)))
		})
	}
}

type recordingPublisher struct {
	calls int
	err   error
}

func (r *recordingPublisher) Publish(context.Context, string, string, string) error {
	r.calls++
	return r.err
}

func TestLimitedPublisher(t *testing.T) {
	inner := &recordingPublisher{}
	limiter := rate_limiter.NewLimiter(&rate_limiter.Definition{Name: "alerts", FillRate: rate.Every(time.Hour), BucketSize: 1})
	p := NewLimitedPublisher(inner, limiter)

	require.NoError(t, p.Publish(context.Background(), "t", "s", "m"))
	assert.Equal(t, 1, inner.calls)

	// the bucket is empty, so the second publish times out without reaching the inner publisher
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := p.Publish(ctx, "t", "s", "m")
	var alertErr *errhandling.AlertError
	assert.True(t, errors.As(err, &alertErr))
	assert.Equal(t, 1, inner.calls)
}

func TestLimitedPublisher_PassesAlertErrorThrough(t *testing.T) {
	inner := &recordingPublisher{err: errhandling.NewAlertError("t", errors.New("down"))}
	p := NewLimitedPublisher(inner, rate_limiter.NewLimiter(&rate_limiter.Definition{Name: "alerts"}))

	err := p.Publish(context.Background(), "t", "s", "m")
	assert.Equal(t, inner.err, err)
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	ctx := context_values.WithInvocationId(context.Background(), "inv-1")
	require.NoError(t, LogPublisher{}.Publish(ctx, "t", "s", "m"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "inv-1", entry["invocation_id"])
	assert.Equal(t, "s", entry["subject"])
	assert.NotContains(t, entry, "source")
}
