package telemetry

import (
	"bytes"
	"context"
	"html/template"
	"slices"
	"telemetryd/internal/providers"
	"telemetryd/internal/structures"

	"go.uber.org/atomic"
)

const (
	CapabilityManageOptions = "manage_options"

	NoticeCode = "pum_telemetry_notice"

	// OptinQueryParam carries the Allow action on the follow-up request.
	OptinQueryParam = "pum_optin_check"
	OptinValue      = "optin"
)

type PromptState int

const (
	StateNotAsked PromptState = iota
	StatePrompted
	StateAccepted
	StateDismissed
)

func (s PromptState) String() string {
	switch s {
	case StatePrompted:
		return "prompted"
	case StateAccepted:
		return "accepted"
	case StateDismissed:
		return "dismissed"
	default:
		return "not_asked"
	}
}

// Viewer is the administrator looking at an admin page.
type Viewer struct {
	Capabilities []string
}

func (v Viewer) Can(capability string) bool {
	return slices.Contains(v.Capabilities, capability)
}

// Notice is one entry of the admin alert list.
type Notice struct {
	Code        string        `json:"code"`
	Type        string        `json:"type"`
	Message     string        `json:"message"`
	HTML        template.HTML `json:"html"`
	Priority    int           `json:"priority"`
	Dismissible bool          `json:"dismissible"`
	Global      bool          `json:"global"`
}

const noticeMessage = "Allow Popup Maker to track this plugin's usage and help us make this plugin better? No user data is sent to our servers. No sensitive data is tracked."

var noticeTemplate = template.Must(template.New("optin").Parse(`<ul>
	<li><a href="{{.OptinURL}}"><strong>Allow</strong></a></li>
	<li><a href="#" class="pum-dismiss">Do not allow</a></li>
	<li><a href="{{.LearnMoreURL}}" target="_blank" rel="noreferrer noopener">Learn more</a></li>
</ul>`))

// OptinPrompt drives NOT_ASKED → PROMPTED → {ACCEPTED, DISMISSED}. Both
// terminal states are persisted and suppress any further prompting.
type OptinPrompt struct {
	consent      *ConsentStore
	logger       providers.Logger
	learnMoreURL string
	prompted     atomic.Bool
}

func NewOptinPrompt(conf *structures.Config, consent *ConsentStore, logger providers.Logger) *OptinPrompt {
	return &OptinPrompt{
		consent:      consent,
		logger:       logger,
		learnMoreURL: conf.Telemetry.LearnMoreURL,
	}
}

// ShouldPrompt is true for a privileged viewer while neither terminal state
// has been reached. Read errors suppress the prompt.
func (o *OptinPrompt) ShouldPrompt(ctx context.Context, viewer Viewer) bool {
	if !viewer.Can(CapabilityManageOptions) {
		return false
	}
	state, err := o.consent.State(ctx)
	if err != nil {
		o.logger.Warnf(providers.TypeTelemetry, "Unable to read consent state: %s", err)
		return false
	}
	return !state.OptedIn && !state.PromptDismissed
}

// Notices appends the opt-in notice to alerts when the viewer should be
// prompted. optinURL is the current page carrying the Allow parameter.
func (o *OptinPrompt) Notices(ctx context.Context, viewer Viewer, optinURL string, alerts []Notice) []Notice {
	if !o.ShouldPrompt(ctx, viewer) {
		return alerts
	}

	var buf bytes.Buffer
	err := noticeTemplate.Execute(&buf, struct {
		OptinURL     string
		LearnMoreURL string
	}{OptinURL: optinURL, LearnMoreURL: o.learnMoreURL})
	if err != nil {
		o.logger.Errorf(providers.TypeTelemetry, "Unable to render opt-in notice: %s", err)
		return alerts
	}

	o.prompted.Store(true)
	return append(alerts, Notice{
		Code:        NoticeCode,
		Type:        "info",
		Message:     noticeMessage,
		HTML:        template.HTML(buf.String()),
		Priority:    10,
		Dismissible: true,
		Global:      false,
	})
}

// HandleOptinCheck processes the Allow signal. It reports whether consent
// was recorded.
func (o *OptinPrompt) HandleOptinCheck(ctx context.Context, viewer Viewer, value string) (bool, error) {
	if value != OptinValue {
		return false, nil
	}
	if !viewer.Can(CapabilityManageOptions) {
		return false, ErrForbidden
	}
	if err := o.consent.OptIn(ctx); err != nil {
		return false, err
	}
	o.logger.Infof(providers.TypeTelemetry, "Telemetry opt-in accepted")
	return true, nil
}

func (o *OptinPrompt) Dismiss(ctx context.Context, viewer Viewer) error {
	if !viewer.Can(CapabilityManageOptions) {
		return ErrForbidden
	}
	if err := o.consent.DismissPrompt(ctx); err != nil {
		return err
	}
	o.logger.Infof(providers.TypeTelemetry, "Telemetry notice dismissed")
	return nil
}

func (o *OptinPrompt) State(ctx context.Context) PromptState {
	state, err := o.consent.State(ctx)
	if err != nil {
		o.logger.Warnf(providers.TypeTelemetry, "Unable to read consent state: %s", err)
	}
	switch {
	case state.OptedIn:
		return StateAccepted
	case state.PromptDismissed:
		return StateDismissed
	case o.prompted.Load():
		return StatePrompted
	default:
		return StateNotAsked
	}
}
