package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruthy(t *testing.T) {
	for _, raw := range []string{"", "0", "false", "FALSE"} {
		assert.False(t, Truthy(raw), raw)
	}
	for _, raw := range []string{"1", "true", "on", "yes"} {
		assert.True(t, Truthy(raw), raw)
	}
}

func TestTypedHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(t.TempDir()+"/s.dat", &identityCompressor{}, &storeTestLogger{})

	n, err := GetInt(ctx, s, KeyTotalOpenCount)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, s.Set(ctx, KeyTotalOpenCount, "1234"))
	n, err = GetInt(ctx, s, KeyTotalOpenCount)
	require.NoError(t, err)
	assert.Equal(t, 1234, n)

	require.NoError(t, s.Set(ctx, KeyTotalOpenCount, "lots"))
	_, err = GetInt(ctx, s, KeyTotalOpenCount)
	assert.Error(t, err)

	assert.Equal(t, "none", GetString(ctx, s, KeyDefaultEmailProvider, "none"))
	require.NoError(t, s.Set(ctx, KeyDefaultEmailProvider, "mailchimp"))
	assert.Equal(t, "mailchimp", GetString(ctx, s, KeyDefaultEmailProvider, "none"))
}
