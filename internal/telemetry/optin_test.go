package telemetry

import (
	"context"
	"strings"
	"telemetryd/internal/settings"
	"telemetryd/internal/structures"
	"telemetryd/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = Viewer{Capabilities: []string{"read", CapabilityManageOptions}}
var editor = Viewer{Capabilities: []string{"read", "edit_posts"}}

func newTestPrompt(store *testutil.MockStore) *OptinPrompt {
	conf := &structures.Config{Telemetry: structures.TelemetryConfig{LearnMoreURL: "https://docs.example.org/data"}}
	logger := &testutil.MockLogger{}
	return NewOptinPrompt(conf, NewConsentStore(store, logger), logger)
}

func TestOptin_AdminViewPrompts(t *testing.T) {
	ctx := context.Background()
	o := newTestPrompt(testutil.NewMockStore())
	assert.Equal(t, StateNotAsked, o.State(ctx))

	notices := o.Notices(ctx, admin, "/wp-admin/?pum_optin_check=optin", nil)
	require.Len(t, notices, 1)
	n := notices[0]
	assert.Equal(t, NoticeCode, n.Code)
	assert.Equal(t, "info", n.Type)
	assert.Equal(t, 10, n.Priority)
	assert.True(t, n.Dismissible)
	assert.False(t, n.Global)
	assert.Contains(t, string(n.HTML), `href="/wp-admin/?pum_optin_check=optin"`)
	assert.Contains(t, string(n.HTML), "pum-dismiss")
	assert.Contains(t, string(n.HTML), "https://docs.example.org/data")
	assert.Equal(t, StatePrompted, o.State(ctx))
}

func TestOptin_NonAdminIsNotPrompted(t *testing.T) {
	ctx := context.Background()
	o := newTestPrompt(testutil.NewMockStore())

	assert.Empty(t, o.Notices(ctx, editor, "/", nil))
	assert.Equal(t, StateNotAsked, o.State(ctx))
}

func TestOptin_NoticeKeepsExistingAlerts(t *testing.T) {
	existing := []Notice{{Code: "pum_other"}}
	o := newTestPrompt(testutil.NewMockStore())

	notices := o.Notices(context.Background(), admin, "/", existing)
	require.Len(t, notices, 2)
	assert.Equal(t, "pum_other", notices[0].Code)
}

func TestOptin_DismissStopsPrompting(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMockStore()
	o := newTestPrompt(store)

	require.Len(t, o.Notices(ctx, admin, "/", nil), 1)
	require.NoError(t, o.Dismiss(ctx, admin))

	assert.Equal(t, StateDismissed, o.State(ctx))
	assert.Equal(t, "true", store.Data[settings.KeyPromptDismissed])
	assert.Empty(t, o.Notices(ctx, admin, "/", nil))
	assert.Equal(t, "", store.Data[settings.KeyOptedIn])
}

func TestOptin_AcceptRecordsConsent(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMockStore()
	o := newTestPrompt(store)
	o.Notices(ctx, admin, "/", nil)

	accepted, err := o.HandleOptinCheck(ctx, admin, OptinValue)
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, StateAccepted, o.State(ctx))
	assert.Empty(t, o.Notices(ctx, admin, "/", nil))
}

func TestOptin_UnknownSignalIsIgnored(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMockStore()
	o := newTestPrompt(store)

	accepted, err := o.HandleOptinCheck(ctx, admin, "optout")
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.Equal(t, 0, store.SetCalls)
}

func TestOptin_RequiresManageOptions(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMockStore()
	o := newTestPrompt(store)

	_, err := o.HandleOptinCheck(ctx, editor, OptinValue)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, o.Dismiss(ctx, editor), ErrForbidden)
	assert.Equal(t, 0, store.SetCalls)
}

func TestOptin_UnreadableConsentSuppressesPrompt(t *testing.T) {
	store := testutil.NewMockStore()
	store.GetErr = testutil.ErrStoreDown
	o := newTestPrompt(store)

	assert.False(t, o.ShouldPrompt(context.Background(), admin))
}

func TestOptin_HTMLEscapesURL(t *testing.T) {
	o := newTestPrompt(testutil.NewMockStore())
	notices := o.Notices(context.Background(), admin, `/wp-admin/?a="><script>`, nil)
	require.Len(t, notices, 1)
	assert.False(t, strings.Contains(string(notices[0].HTML), "<script>"))
}

func TestPromptState_String(t *testing.T) {
	assert.Equal(t, "not_asked", StateNotAsked.String())
	assert.Equal(t, "prompted", StatePrompted.String())
	assert.Equal(t, "accepted", StateAccepted.String())
	assert.Equal(t, "dismissed", StateDismissed.String())
}
