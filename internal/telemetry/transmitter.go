package telemetry

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"sync"
	"telemetryd/internal/models"
	"telemetryd/internal/providers"
	"telemetryd/internal/structures"
	"time"

	json "github.com/goccy/go-json"
)

const (
	checkInAction         = "check_in"
	defaultConnectTimeout = 5 * time.Second
)

// SendOutcome reports whether the check-in was handed to the network.
// Delivery is never observed: Initiated means the request was written, not
// that the endpoint accepted it.
type SendOutcome struct {
	Initiated bool
	Err       error
}

// Transmitter posts check-ins fire-and-forget. Send returns once the
// request body has been written (or failed to be); the response is read
// and discarded in the background.
type Transmitter struct {
	client    *http.Client
	url       string
	userAgent string
	timeout   time.Duration
	logger    providers.Logger
	inflight  sync.WaitGroup
}

func NewTransmitter(conf *structures.Config, logger providers.Logger) (*Transmitter, error) {
	base, err := url.Parse(conf.Telemetry.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse telemetry endpoint: %w", err)
	}
	target := base.JoinPath(checkInAction)

	maxRedirects := conf.Telemetry.MaxRedirects
	return &Transmitter{
		client: &http.Client{
			Timeout:   conf.Telemetry.Timeout,
			Transport: newTransport(connectTimeout(conf.Telemetry)),
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) > maxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		url:       target.String(),
		userAgent: fmt.Sprintf("POPMAKE/%s; %s", conf.Telemetry.PluginVersion, conf.Site.URL),
		timeout:   conf.Telemetry.Timeout,
		logger:    logger,
	}, nil
}

// connectTimeout bounds dialing and the TLS handshake so an unreachable
// endpoint fails fast instead of holding the check for the whole timeout.
func connectTimeout(conf structures.TelemetryConfig) time.Duration {
	d := conf.ConnectTimeout
	if d <= 0 {
		d = defaultConnectTimeout
	}
	if conf.Timeout > 0 && d > conf.Timeout {
		d = conf.Timeout
	}
	return d
}

func newTransport(connect time.Duration) *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   connect,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = connect
	return transport
}

func (t *Transmitter) URL() string {
	return t.url
}

func (t *Transmitter) Send(ctx context.Context, payload *models.TelemetryPayload) SendOutcome {
	body, err := json.Marshal(payload)
	if err != nil {
		return t.fail(fmt.Errorf("marshal payload: %w", err))
	}

	// The background request must outlive the caller.
	reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), t.timeout)

	written := make(chan error, 1)
	trace := &httptrace.ClientTrace{
		WroteRequest: func(info httptrace.WroteRequestInfo) {
			select {
			case written <- info.Err:
			default:
			}
		},
	}

	req, err := http.NewRequestWithContext(httptrace.WithClientTrace(reqCtx, trace), http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		cancel()
		return t.fail(&TransportError{Err: err})
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", t.userAgent)

	done := make(chan error, 1)
	t.inflight.Add(1)
	go func() {
		defer t.inflight.Done()
		defer cancel()
		resp, err := t.client.Do(req)
		if err != nil {
			done <- err
			return
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		t.logger.Debugf(providers.TypeTelemetry, "Check-in answered with %d", resp.StatusCode)
		done <- nil
	}()

	select {
	case err := <-written:
		if err != nil {
			return t.fail(&TransportError{Err: err})
		}
	case err := <-done:
		if err != nil {
			return t.fail(&TransportError{Err: err})
		}
	}
	return SendOutcome{Initiated: true}
}

// Wait blocks until background requests have finished or ctx is done.
func (t *Transmitter) Wait(ctx context.Context) error {
	idle := make(chan struct{})
	go func() {
		t.inflight.Wait()
		close(idle)
	}()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Transmitter) fail(err error) SendOutcome {
	t.logger.Errorf(providers.TypeTelemetry, "Cannot send telemetry data. Error received was: %s", err)
	return SendOutcome{Err: err}
}
