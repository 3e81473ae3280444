package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"telemetryd/internal/models"
	"telemetryd/internal/services"
	"telemetryd/internal/structures"
	"telemetryd/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingService struct {
	checks atomic.Int32
	drains atomic.Int32
}

func (c *countingService) TrackCheck(_ context.Context) services.CheckResult {
	c.checks.Add(1)
	return services.CheckSkipped
}

func (c *countingService) Preview(_ context.Context) (*models.TelemetryPayload, error) {
	return &models.TelemetryPayload{}, nil
}

func (c *countingService) Status(_ context.Context) services.Status {
	return services.Status{}
}

func (c *countingService) Drain(_ context.Context) error {
	c.drains.Add(1)
	return nil
}

func testConfig(onStart bool) *structures.Config {
	return &structures.Config{
		Telemetry: structures.TelemetryConfig{
			CheckInterval: time.Hour,
			Timeout:       time.Second,
			CheckOnStart:  onStart,
		},
	}
}

func TestScheduler_Restore(t *testing.T) {
	store := testutil.NewMockStore()
	s := NewScheduler(testConfig(false), &testutil.MockLogger{}, &countingService{}, store)

	require.NoError(t, s.Restore())
	assert.True(t, store.Loaded)
}

func TestScheduler_Restore_Error(t *testing.T) {
	store := testutil.NewMockStore()
	store.LoadErr = testutil.ErrStoreDown
	s := NewScheduler(testConfig(false), &testutil.MockLogger{}, &countingService{}, store)

	assert.ErrorIs(t, s.Restore(), testutil.ErrStoreDown)
}

func TestScheduler_Persist(t *testing.T) {
	store := testutil.NewMockStore()
	s := NewScheduler(testConfig(false), &testutil.MockLogger{}, &countingService{}, store)

	require.NoError(t, s.Persist())
	assert.True(t, store.Flushed)
}

func TestScheduler_Persist_Error(t *testing.T) {
	store := testutil.NewMockStore()
	store.FlushErr = errors.New("disk full")
	logger := &testutil.MockLogger{}
	s := NewScheduler(testConfig(false), logger, &countingService{}, store)

	assert.Error(t, s.Persist())
	assert.True(t, logger.Has("error"))
}

func TestScheduler_StopNilCron(t *testing.T) {
	s := NewScheduler(testConfig(false), &testutil.MockLogger{}, &countingService{}, testutil.NewMockStore())
	// Should not panic with nil cron
	s.Stop()
}

func TestScheduler_CheckOnStart(t *testing.T) {
	svc := &countingService{}
	s := NewScheduler(testConfig(true), &testutil.MockLogger{}, svc, testutil.NewMockStore())

	s.Init()
	s.Stop()

	assert.Equal(t, int32(1), svc.checks.Load())
	assert.Equal(t, int32(1), svc.drains.Load())
}

func TestScheduler_InitWithoutStartCheck(t *testing.T) {
	svc := &countingService{}
	s := NewScheduler(testConfig(false), &testutil.MockLogger{}, svc, testutil.NewMockStore())

	s.Init()
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	assert.Equal(t, int32(0), svc.checks.Load())
}
