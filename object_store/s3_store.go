package object_store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/turbot/tailpipe-cleanse/connection"
	"github.com/turbot/tailpipe-cleanse/errhandling"
)

const S3StoreIdentifier = "s3"

// S3Store is a [Store] backed by AWS S3 (or an S3 compatible endpoint)
type S3Store struct {
	client *s3.Client
}

func NewS3Store(ctx context.Context, conn *connection.AwsConnection) (*S3Store, error) {
	if conn == nil {
		conn = &connection.AwsConnection{}
	}
	cfg, err := conn.GetClientConfiguration(ctx)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(*cfg, func(o *s3.Options) {
		o.UsePathStyle = conn.PathStyle()
	})
	slog.Info("Initialized S3Store", "region", cfg.Region, "path_style", conn.PathStyle())
	return &S3Store{client: client}, nil
}

func (s *S3Store) Identifier() string {
	return S3StoreIdentifier
}

func (s *S3Store) Close() error {
	return nil
}

func (s *S3Store) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classifyAwsError("get", bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errhandling.NewStorageError(errhandling.StorageTransient, "get", bucket, key, fmt.Errorf("failed to read object body, %w", err))
	}
	return data, nil
}

func (s *S3Store) Put(ctx context.Context, bucket, key string, data []byte, contentType string, metadata map[string]string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		Metadata:      metadata,
	})
	if err != nil {
		return classifyAwsError("put", bucket, key, err)
	}
	return nil
}

// classifyAwsError maps an S3 client error onto a StorageError
func classifyAwsError(op, bucket, key string, err error) error {
	return errhandling.NewStorageError(awsErrorKind(err), op, bucket, key, err)
}

func awsErrorKind(err error) errhandling.StorageErrorKind {
	var noSuchKey *types.NoSuchKey
	var noSuchBucket *types.NoSuchBucket
	if errors.As(err, &noSuchKey) || errors.As(err, &noSuchBucket) {
		return errhandling.StorageNotFound
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "NoSuchBucket":
			return errhandling.StorageNotFound
		case "AccessDenied", "Forbidden", "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken", "AllAccessDisabled":
			return errhandling.StorageAccessDenied
		case "SlowDown", "RequestTimeout", "InternalError", "ServiceUnavailable", "Throttling", "ThrottlingException":
			return errhandling.StorageTransient
		}
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		if kind, ok := statusKind(respErr.HTTPStatusCode()); ok {
			return kind
		}
	}

	return transportKind(err)
}

// statusKind classifies an HTTP status code
func statusKind(code int) (errhandling.StorageErrorKind, bool) {
	switch {
	case code == http.StatusNotFound:
		return errhandling.StorageNotFound, true
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return errhandling.StorageAccessDenied, true
	case code == http.StatusTooManyRequests || code == http.StatusRequestTimeout || code >= 500:
		return errhandling.StorageTransient, true
	}
	return "", false
}

// transportKind treats timeouts and network failures as transient
func transportKind(err error) errhandling.StorageErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return errhandling.StorageTransient
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return errhandling.StorageTransient
	}
	return errhandling.StorageOther
}
