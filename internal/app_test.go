package internal

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"telemetryd/internal/controllers"
	"telemetryd/internal/structures"
	"telemetryd/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRouter struct {
	routes []structures.Route
}

func (s *stubRouter) Get(_ string, _ http.Handler)    {}
func (s *stubRouter) Post(_ string, _ http.Handler)   {}
func (s *stubRouter) GetRoutes() []structures.Route { return s.routes }

func teapot() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
}

func TestNewHandler_MountsRoutesAndHealth(t *testing.T) {
	hc := controllers.NewHealthController(&routeTestMockService{})
	router := &stubRouter{routes: []structures.Route{{Url: "/admin/notices", Handler: teapot()}}}
	h := NewHandler(hc, &structures.Config{}, router, &testutil.MockMetrics{})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/notices", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestNewHandler_MetricsEndpointFollowsConfig(t *testing.T) {
	hc := controllers.NewHealthController(&routeTestMockService{})

	off := NewHandler(hc, &structures.Config{}, &stubRouter{}, &testutil.MockMetrics{})
	rr := httptest.NewRecorder()
	off.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	conf := &structures.Config{Metrics: structures.MetricsConfig{Enabled: true}}
	on := NewHandler(hc, conf, &stubRouter{}, &testutil.MockMetrics{})
	rr = httptest.NewRecorder()
	on.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

type stubScheduler struct {
	restoreErr error
	inits      int
	persists   int
}

func (s *stubScheduler) Init()          { s.inits++ }
func (s *stubScheduler) Stop()          {}
func (s *stubScheduler) Restore() error { return s.restoreErr }
func (s *stubScheduler) Persist() error { s.persists++; return nil }

func TestNewApp_RestoreFailureStopsStartup(t *testing.T) {
	sched := &stubScheduler{restoreErr: errors.New("settings file unreadable")}
	hc := controllers.NewHealthController(&routeTestMockService{})

	app, err := NewApp(hc, sched, &structures.Config{}, &testutil.MockLogger{}, &stubRouter{}, &testutil.MockMetrics{})
	require.Error(t, err)
	assert.ErrorIs(t, err, sched.restoreErr)
	assert.Nil(t, app)
	assert.Zero(t, sched.inits)
	assert.Zero(t, sched.persists)
}
