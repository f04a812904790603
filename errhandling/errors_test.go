package errhandling

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "direct stage error",
			err:  NewStageError(StageParse, NewParseError("empty input", nil)),
			want: StageParse,
		},
		{
			name: "wrapped stage error",
			err:  fmt.Errorf("invocation failed, %w", NewStageError(StageEnrich, NewEnrichmentError("date", "order"))),
			want: StageEnrich,
		},
		{
			name: "untagged error",
			err:  errors.New("boom"),
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StageOf(tt.err))
		})
	}
}

func TestStageError_Unwrap(t *testing.T) {
	err := NewStageError(StageParse, NewParseError("header is missing", nil))

	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "parse stage failed: parse error: header is missing", err.Error())
}

func TestStorageError_Retryable(t *testing.T) {
	tests := []struct {
		name          string
		kind          StorageErrorKind
		wantRetryable bool
		wantNotFound  bool
	}{
		{name: "transient", kind: StorageTransient, wantRetryable: true},
		{name: "not found", kind: StorageNotFound, wantNotFound: true},
		{name: "access denied", kind: StorageAccessDenied},
		{name: "other", kind: StorageOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fmt.Errorf("read failed, %w", NewStorageError(tt.kind, "get", "bucket", "key.csv", errors.New("cause")))
			assert.Equal(t, tt.wantRetryable, IsRetryable(err))
			assert.Equal(t, tt.wantNotFound, IsNotFound(err))
		})
	}
}
