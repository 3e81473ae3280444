package services

import (
	"context"
	"telemetryd/internal/models"
	"telemetryd/internal/providers"
	"telemetryd/internal/telemetry"
	"time"

	"go.uber.org/atomic"
)

type CheckResult int

const (
	CheckSkipped CheckResult = iota
	CheckSent
	CheckFailed
)

func (r CheckResult) String() string {
	switch r {
	case CheckSent:
		return "sent"
	case CheckFailed:
		return "failed"
	default:
		return "skipped"
	}
}

type TelemetryServiceInterface interface {
	// TrackCheck runs one scheduler tick: gate, aggregate, send, mark.
	TrackCheck(ctx context.Context) CheckResult
	Preview(ctx context.Context) (*models.TelemetryPayload, error)
	Status(ctx context.Context) Status
	// Drain waits for dispatched check-ins still in flight.
	Drain(ctx context.Context) error
}

type Status struct {
	OptinState  string    `json:"optin_state"`
	Eligible    bool      `json:"eligible"`
	LastCheckAt time.Time `json:"last_check_at"`
	LastSentAt  time.Time `json:"last_sent_at"`
	LastResult  string    `json:"last_result"`
}

type Gate interface {
	IsEligible(ctx context.Context) bool
	MarkSent(ctx context.Context)
	LastSentAt(ctx context.Context) time.Time
}

type PayloadBuilder interface {
	BuildPayload(ctx context.Context) (*models.TelemetryPayload, error)
}

type Sender interface {
	Send(ctx context.Context, payload *models.TelemetryPayload) telemetry.SendOutcome
	Wait(ctx context.Context) error
}

type TelemetryService struct {
	gate       Gate
	aggregator PayloadBuilder
	sender     Sender
	consent    *telemetry.ConsentStore
	prompt     *telemetry.OptinPrompt
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface

	lastCheckAt atomic.Int64
	lastResult  atomic.String
}

func NewTelemetryService(gate *telemetry.ThrottleGate, aggregator *telemetry.Aggregator, sender *telemetry.Transmitter, consent *telemetry.ConsentStore, prompt *telemetry.OptinPrompt, logger providers.Logger, metrics providers.MetricsProviderInterface) TelemetryServiceInterface {
	return newTelemetryService(gate, aggregator, sender, consent, prompt, logger, metrics)
}

func newTelemetryService(gate Gate, aggregator PayloadBuilder, sender Sender, consent *telemetry.ConsentStore, prompt *telemetry.OptinPrompt, logger providers.Logger, metrics providers.MetricsProviderInterface) *TelemetryService {
	ts := &TelemetryService{
		gate:       gate,
		aggregator: aggregator,
		sender:     sender,
		consent:    consent,
		prompt:     prompt,
		logger:     logger,
		metrics:    metrics,
	}
	ts.lastResult.Store(CheckSkipped.String())
	return ts
}

// TrackCheck never fails the caller. Two overlapping ticks may both pass
// the gate and send twice; that is accepted.
func (ts *TelemetryService) TrackCheck(ctx context.Context) CheckResult {
	result := ts.trackCheck(ctx)
	ts.lastCheckAt.Store(time.Now().Unix())
	ts.lastResult.Store(result.String())
	return result
}

func (ts *TelemetryService) trackCheck(ctx context.Context) CheckResult {
	if !ts.consent.HasOptedIn(ctx) {
		ts.metrics.IncCheckIns(providers.CheckInNotOptedIn)
		ts.logger.Debugf(providers.TypeTelemetry, "Telemetry not opted in, skipping")
		return CheckSkipped
	}
	if !ts.gate.IsEligible(ctx) {
		ts.metrics.IncCheckIns(providers.CheckInThrottled)
		ts.logger.Debugf(providers.TypeTelemetry, "Check-in throttled")
		return CheckSkipped
	}

	payload, err := ts.aggregator.BuildPayload(ctx)
	if err != nil {
		ts.metrics.IncCheckIns(providers.CheckInAggregate)
		ts.logger.Errorf(providers.TypeTelemetry, "Unable to build telemetry payload: %s", err)
		return CheckFailed
	}

	outcome := ts.sender.Send(ctx, payload)
	if !outcome.Initiated {
		ts.metrics.IncCheckIns(providers.CheckInFailed)
		return CheckFailed
	}

	ts.gate.MarkSent(ctx)
	ts.metrics.IncCheckIns(providers.CheckInSent)
	ts.logger.Infof(providers.TypeTelemetry, "Check-in dispatched for %s (%d popups)", payload.UID, payload.Popups)
	return CheckSent
}

func (ts *TelemetryService) Preview(ctx context.Context) (*models.TelemetryPayload, error) {
	return ts.aggregator.BuildPayload(ctx)
}

func (ts *TelemetryService) Drain(ctx context.Context) error {
	return ts.sender.Wait(ctx)
}

func (ts *TelemetryService) Status(ctx context.Context) Status {
	st := Status{
		OptinState: ts.prompt.State(ctx).String(),
		Eligible:   ts.gate.IsEligible(ctx),
		LastSentAt: ts.gate.LastSentAt(ctx),
		LastResult: ts.lastResult.Load(),
	}
	if unix := ts.lastCheckAt.Load(); unix > 0 {
		st.LastCheckAt = time.Unix(unix, 0).UTC()
	}
	return st
}
