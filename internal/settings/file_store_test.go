package settings

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"telemetryd/internal/providers"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// local mocks to avoid import cycle with testutil
type storeTestLogger struct{ warnings int }

func (m *storeTestLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *storeTestLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  { m.warnings++ }
func (m *storeTestLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *storeTestLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *storeTestLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *storeTestLogger) Close()                                                  {}

type identityCompressor struct {
	compressErr error
}

func (c *identityCompressor) Compress(val []byte) ([]byte, error) {
	if c.compressErr != nil {
		return nil, c.compressErr
	}
	return append([]byte(nil), val...), nil
}
func (c *identityCompressor) Decompress(val []byte) ([]byte, error) {
	return append([]byte(nil), val...), nil
}
func (c *identityCompressor) Close() {}

func newZstd(t *testing.T) CompressorInterface {
	t.Helper()
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	return c
}

func TestFileStore_SetPersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.dat")

	s := NewFileStore(path, newZstd(t), &storeTestLogger{})
	require.NoError(t, s.Set(ctx, KeyUUID, "0f8fad5b-d9cb-469f-a165-70867728950e"))
	require.NoError(t, SetBool(ctx, s, KeyOptedIn, true))

	reloaded := NewFileStore(path, newZstd(t), &storeTestLogger{})
	require.NoError(t, reloaded.Load(ctx))

	v, ok, err := reloaded.Get(ctx, KeyUUID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "0f8fad5b-d9cb-469f-a165-70867728950e", v)

	optedIn, err := GetBool(ctx, reloaded, KeyOptedIn)
	require.NoError(t, err)
	assert.True(t, optedIn)
}

func TestFileStore_LoadMissingFileIsEmpty(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "absent.dat"), newZstd(t), &storeTestLogger{})
	require.NoError(t, s.Load(context.Background()))

	_, ok, err := s.Get(context.Background(), KeyUUID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_LoadCorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.dat")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	s := NewFileStore(path, &identityCompressor{}, &storeTestLogger{})
	assert.Error(t, s.Load(context.Background()))
}

func TestFileStore_LoadWarnsOnUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v9.dat")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":9,"values":{"optedIn":"true"}}`), 0644))

	logger := &storeTestLogger{}
	s := NewFileStore(path, &identityCompressor{}, logger)
	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, 1, logger.warnings)

	optedIn, err := GetBool(context.Background(), s, KeyOptedIn)
	require.NoError(t, err)
	assert.True(t, optedIn)
}

func TestFileStore_FailedWriteRollsBack(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.dat")
	comp := &identityCompressor{}
	s := NewFileStore(path, comp, &storeTestLogger{})
	require.NoError(t, s.Set(ctx, KeyLastSentAt, "2026-10-01T00:00:00Z"))

	comp.compressErr = errors.New("disk full")
	assert.Error(t, s.Set(ctx, KeyLastSentAt, "2026-10-08T00:00:00Z"))
	assert.Error(t, s.Set(ctx, KeyPromptDismissed, "true"))

	v, _, _ := s.Get(ctx, KeyLastSentAt)
	assert.Equal(t, "2026-10-01T00:00:00Z", v)
	_, ok, _ := s.Get(ctx, KeyPromptDismissed)
	assert.False(t, ok)
}

func TestFileStore_FlushWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flush.dat")
	s := NewFileStore(path, &identityCompressor{}, &storeTestLogger{})
	require.NoError(t, s.Flush(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"values":{}}`, string(data))
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_LoadsHandWrittenJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":1,"values":{"optedIn":"1"}}`), 0644))

	s := NewFileStore(path, newZstd(t), &storeTestLogger{})
	require.NoError(t, s.Load(context.Background()))

	optedIn, err := GetBool(context.Background(), s, KeyOptedIn)
	require.NoError(t, err)
	assert.True(t, optedIn)
}

func TestFileStore_TwoWritersOnSamePath(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.dat")

	daemon := NewFileStore(path, newZstd(t), &storeTestLogger{})
	require.NoError(t, daemon.Load(ctx))
	require.NoError(t, daemon.Set(ctx, KeyUUID, "0f8fad5b-d9cb-469f-a165-70867728950e"))

	cli := NewFileStore(path, newZstd(t), &storeTestLogger{})
	require.NoError(t, cli.Load(ctx))
	require.NoError(t, SetBool(ctx, cli, KeyOptedIn, true))

	optedIn, err := GetBool(ctx, daemon, KeyOptedIn)
	require.NoError(t, err)
	assert.True(t, optedIn)

	require.NoError(t, daemon.Set(ctx, KeyLastSentAt, "2026-10-01T00:00:00Z"))
	require.NoError(t, daemon.Flush(ctx))

	reloaded := NewFileStore(path, newZstd(t), &storeTestLogger{})
	require.NoError(t, reloaded.Load(ctx))
	for key, want := range map[string]string{
		KeyUUID:       "0f8fad5b-d9cb-469f-a165-70867728950e",
		KeyOptedIn:    "true",
		KeyLastSentAt: "2026-10-01T00:00:00Z",
	} {
		v, ok, err := reloaded.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok, key)
		assert.Equal(t, want, v, key)
	}
}

func TestFileStore_SetKeepsUnreadableFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.dat")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	s := NewFileStore(path, &identityCompressor{}, &storeTestLogger{})
	require.Error(t, s.Load(ctx))

	assert.Error(t, s.Set(ctx, KeyOptedIn, "false"))
	assert.Error(t, s.Flush(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "not json", string(data))
}

func TestFileStore_GetServesMemoryWhenFileTurnsUnreadable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.dat")
	logger := &storeTestLogger{}
	s := NewFileStore(path, &identityCompressor{}, logger)
	require.NoError(t, s.Set(ctx, KeyOptedIn, "true"))

	require.NoError(t, os.WriteFile(path, []byte("garbage, longer than before"), 0644))

	v, ok, err := s.Get(ctx, KeyOptedIn)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)
	assert.Equal(t, 1, logger.warnings)
}
