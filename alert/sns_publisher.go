package alert

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/turbot/tailpipe-cleanse/connection"
	"github.com/turbot/tailpipe-cleanse/context_values"
	"github.com/turbot/tailpipe-cleanse/errhandling"
)

// maxSubjectLength is the SNS limit for the Subject of a message
const maxSubjectLength = 100

const (
	attributeInvocationId = "invocation_id"
	attributeSource       = "source"
)

type snsApi interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SnsPublisher publishes alerts to an SNS topic; the topic is the topic arn
type SnsPublisher struct {
	client snsApi
}

func NewSnsPublisher(ctx context.Context, conn *connection.AwsConnection) (*SnsPublisher, error) {
	if conn == nil {
		conn = &connection.AwsConnection{}
	}
	cfg, err := conn.GetClientConfiguration(ctx)
	if err != nil {
		return nil, err
	}
	return &SnsPublisher{client: sns.NewFromConfig(*cfg)}, nil
}

func (p *SnsPublisher) Publish(ctx context.Context, topic, subject, message string) error {
	out, err := p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(topic),
		Subject:  aws.String(truncateSubject(subject)),
		Message:  aws.String(message),
		// subscribers filter on these
		MessageAttributes: messageAttributes(ctx),
	})
	if err != nil {
		return errhandling.NewAlertError(topic, err)
	}
	slog.Info("Published alert", "topic", topic, "message_id", aws.ToString(out.MessageId))
	return nil
}

// messageAttributes carries the invocation id and source location from ctx, when set
func messageAttributes(ctx context.Context) map[string]types.MessageAttributeValue {
	res := map[string]types.MessageAttributeValue{}
	add := func(name, value string) {
		if value != "" {
			res[name] = types.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(value)}
		}
	}
	if invocationId, err := context_values.InvocationIdFromContext(ctx); err == nil {
		add(attributeInvocationId, invocationId)
	}
	if source, ok := context_values.SourceFromContext(ctx); ok {
		add(attributeSource, source)
	}
	if len(res) == 0 {
		return nil
	}
	return res
}

// truncateSubject shortens the subject to the SNS limit without splitting a rune
func truncateSubject(subject string) string {
	r := []rune(subject)
	if len(r) <= maxSubjectLength {
		return subject
	}
	return string(r[:maxSubjectLength-3]) + "..."
}
