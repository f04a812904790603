package context_values

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvocationId(t *testing.T) {
	_, err := InvocationIdFromContext(context.Background())
	assert.Error(t, err)

	ctx := WithInvocationId(context.Background(), "cq1abc")
	id, err := InvocationIdFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cq1abc", id)
}

func TestSource(t *testing.T) {
	_, ok := SourceFromContext(context.Background())
	assert.False(t, ok)

	src, ok := SourceFromContext(WithSource(context.Background(), "s3://in/data.csv"))
	assert.True(t, ok)
	assert.Equal(t, "s3://in/data.csv", src)
}
