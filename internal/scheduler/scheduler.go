package scheduler

import (
	"context"
	"sync"
	"telemetryd/internal/providers"
	"telemetryd/internal/services"
	"telemetryd/internal/settings"
	"telemetryd/internal/structures"

	"github.com/roylee0704/gron"
)

type SchedulerInterface interface {
	Init()
	Stop()
	Restore() error
	Persist() error
}

type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	service services.TelemetryServiceInterface
	store   settings.Store
	cron    *gron.Cron
	opsMu   sync.Mutex
	wg      sync.WaitGroup
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	interval := s.config.Telemetry.CheckInterval

	s.cron.AddFunc(gron.Every(interval), s.tick)
	s.cron.Start()
	s.logger.Infof(providers.TypeApp, "Telemetry check scheduled every %s", interval)

	if s.config.Telemetry.CheckOnStart {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.tick()
		}()
	}
}

func (s *Scheduler) tick() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	result := s.service.TrackCheck(context.Background())
	s.logger.Debugf(providers.TypeTelemetry, "Telemetry check finished: %s", result)
}

func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	s.cron.Stop()
	s.wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Telemetry.Timeout)
	defer cancel()
	if err := s.service.Drain(ctx); err != nil {
		s.logger.Warnf(providers.TypeTelemetry, "Check-in still in flight at shutdown: %s", err)
	}
}

func (s *Scheduler) Restore() error {
	return s.store.Load(context.Background())
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Flushing settings...")
	if err := s.store.Flush(context.Background()); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while flushing settings: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, service services.TelemetryServiceInterface, store settings.Store) SchedulerInterface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		service: service,
		store:   store,
	}
}
