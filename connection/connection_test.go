package connection

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turbot/pipe-fittings/utils"
)

func TestAwsConnection_Validate(t *testing.T) {
	tests := []struct {
		name    string
		c       *AwsConnection
		wantErr bool
	}{
		{name: "empty", c: &AwsConnection{}},
		{name: "key pair", c: &AwsConnection{AccessKey: utils.ToStringPointer("a"), SecretKey: utils.ToStringPointer("s")}},
		{name: "access key only", c: &AwsConnection{AccessKey: utils.ToStringPointer("a")}, wantErr: true},
		{name: "secret key only", c: &AwsConnection{SecretKey: utils.ToStringPointer("s")}, wantErr: true},
		{name: "zero retry attempts", c: &AwsConnection{MaxErrorRetryAttempts: utils.ToPointer(0)}, wantErr: true},
		{name: "zero retry delay", c: &AwsConnection{MinErrorRetryDelay: utils.ToPointer(0)}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExponentialJitterBackoff_BackoffDelay(t *testing.T) {
	b := NewExponentialJitterBackoff(10 * time.Millisecond)

	first, err := b.BackoffDelay(1, nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, first, 24*time.Millisecond)
	assert.Less(t, first, 36*time.Millisecond)

	capped, err := b.BackoffDelay(100, nil)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, capped)
}

func TestPathOrContents(t *testing.T) {
	dir := t.TempDir()
	credsPath := filepath.Join(dir, "creds.json")
	require.NoError(t, os.WriteFile(credsPath, []byte(`{"type":"service_account"}`), 0600))

	got, err := pathOrContents(credsPath)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"service_account"}`, got)

	got, err = pathOrContents(`{"inline":true}`)
	require.NoError(t, err)
	assert.Equal(t, `{"inline":true}`, got)

	_, err = pathOrContents(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
