package app

import (
	"context"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/rs/zerolog"
	"github.com/savaki/ga-webhook/pkg/config"
	"github.com/savaki/ga-webhook/pkg/models"
	"github.com/savaki/ga-webhook/pkg/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingViewStore struct {
	views []string
}

func (r *recordingViewStore) InsertView(_ context.Context, rec *models.NavRecord) error {
	r.views = append(r.views, rec.View)
	return nil
}

type recordingMethodCaller struct {
	calls []string
}

func (r *recordingMethodCaller) Call(_ context.Context, method, arg string) (string, error) {
	r.calls = append(r.calls, method+"("+arg+")")
	return "arn", nil
}

func testConfig() *config.Config {
	return &config.Config{
		StoreBackend:          config.StoreDynamoDB,
		NavDataTable:          "nav-data",
		NavDataTTLDays:        1,
		RunMethodName:         "users.insert",
		WebhookAuthHeader:     "X-Webhook-Token",
		MethodStateMachineArn: "arn:aws:states:us-east-1:123456789012:stateMachine:methods",
	}
}

func TestBuild(t *testing.T) {
	views := &recordingViewStore{}
	methods := &recordingMethodCaller{}
	s := Build(testConfig(), views, methods, zerolog.Nop())

	resp := s.Handle(context.Background(), webhook.Request{
		Method: http.MethodPost,
		Path:   webhook.WebhookPath,
		Body:   []byte(`{"result": {"action": "runMethod_intent", "parameters": {"method_ID": "5"}}}`),
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"users.insert(5)"}, methods.calls)

	resp = s.Handle(context.Background(), webhook.Request{
		Method: http.MethodPost,
		Path:   webhook.WebhookPath,
		Body:   []byte(`{"result": {"action": "goToView_intent", "parameters": {"view": "inbox"}}}`),
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"inbox"}, views.views)
}

func TestBuildWithAuth(t *testing.T) {
	cfg := testConfig()
	cfg.WebhookAuthToken = "s3cret"
	s := Build(cfg, &recordingViewStore{}, &recordingMethodCaller{}, zerolog.Nop())

	resp := s.Handle(context.Background(), webhook.Request{
		Method: http.MethodPost,
		Path:   webhook.WebhookPath,
		Body:   []byte(`{"result": {"action": "input.welcome"}}`),
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestNewServerRequiresStateMachine(t *testing.T) {
	cfg := testConfig()
	cfg.MethodStateMachineArn = ""

	_, _, err := NewServer(context.Background(), cfg, aws.Config{}, zerolog.Nop())
	require.Error(t, err)
}

func TestNewServerDynamoDB(t *testing.T) {
	s, closer, err := NewServer(context.Background(), testConfig(), aws.Config{Region: "us-east-1"}, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.NoError(t, closer.Close())
}

func TestNewViewStoreUnknownBackend(t *testing.T) {
	cfg := testConfig()
	cfg.StoreBackend = "mongo"

	_, _, err := NewViewStore(context.Background(), cfg, aws.Config{}, zerolog.Nop())
	require.Error(t, err)
}
