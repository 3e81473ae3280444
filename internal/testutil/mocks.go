package testutil

import (
	"context"
	"errors"
	"sync"
	"telemetryd/internal/models"
	"telemetryd/internal/providers"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Has reports whether anything was logged at level.
func (m *MockLogger) Has(level string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Logs {
		if e.Level == level {
			return true
		}
	}
	return false
}

var ErrStoreDown = errors.New("settings store unavailable")

// MockStore implements settings.Store in memory.
type MockStore struct {
	mu       sync.Mutex
	Data     map[string]string
	GetErr   error
	SetErr   error
	LoadErr  error
	FlushErr error
	SetCalls int
	Loaded   bool
	Flushed  bool
}

func NewMockStore() *MockStore {
	return &MockStore{Data: make(map[string]string)}
}

func (m *MockStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	v, ok := m.Data[key]
	return v, ok, nil
}

func (m *MockStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Data[key] = value
	return nil
}

func (m *MockStore) Load(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Loaded = true
	return m.LoadErr
}

func (m *MockStore) Flush(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Flushed = true
	return m.FlushErr
}

func (m *MockStore) Close() error { return nil }

// MockCache implements providers.CacheProviderInterface. Entries written
// with SetWithTTL expire according to Now.
type MockCache struct {
	mu      sync.Mutex
	Data    map[string][]byte
	expires map[string]time.Time
	Now     func() time.Time
}

func NewMockCache() *MockCache {
	return &MockCache{
		Data:    make(map[string][]byte),
		expires: make(map[string]time.Time),
		Now:     time.Now,
	}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if exp, ok := m.expires[key]; ok && !m.Now().Before(exp) {
		delete(m.Data, key)
		delete(m.expires, key)
		return nil, false
	}
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
	delete(m.expires, key)
}

func (m *MockCache) SetWithTTL(key string, value []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
	m.expires[key] = m.Now().Add(ttl)
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
	delete(m.expires, key)
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu       sync.Mutex
	CheckIns map[string]int
	Popups   int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits(_ string)                            {}
func (m *MockMetrics) IncCacheMisses(_ string)                          {}
func (m *MockMetrics) ObserveAggregationDuration(_ time.Duration)       {}

func (m *MockMetrics) IncCheckIns(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CheckIns == nil {
		m.CheckIns = make(map[string]int)
	}
	m.CheckIns[outcome]++
}

func (m *MockMetrics) SetPopupsTotal(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Popups = count
}

// MockRecordStore implements records.RecordStoreInterface.
type MockRecordStore struct {
	Snap *models.RecordSnapshot
	Err  error
}

func (m *MockRecordStore) Snapshot(_ context.Context) (*models.RecordSnapshot, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Snap == nil {
		return &models.RecordSnapshot{}, nil
	}
	return m.Snap, nil
}
