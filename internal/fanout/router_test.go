package fanout

import (
	"context"
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/unihook/internal/fanout/mocks"
	"github.com/mattjoyce/unihook/internal/ghsig"
	"github.com/mattjoyce/unihook/internal/n8nclient"
	"github.com/mattjoyce/unihook/internal/storage"
)

func newTestRouter(t *testing.T, client Client) (*Router, *storage.Store) {
	t.Helper()
	db, err := storage.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store := storage.New(db)
	return New(store, client, "http://localhost:5678", "webhook"), store
}

func TestEventMatches(t *testing.T) {
	require.True(t, eventMatches([]string{"*"}, "push"))
	require.True(t, eventMatches([]string{"push", "pull_request"}, "push"))
	require.False(t, eventMatches([]string{"pull_request"}, "push"))
	require.False(t, eventMatches(nil, "push"))
}

func TestRouteSlackMatchesOnWorkspaceWideAndChannel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockClient := mocks.NewMockClient(ctrl)
	r, store := newTestRouter(t, mockClient)
	ctx := context.Background()

	require.NoError(t, store.SyncSlackTriggers(ctx, []storage.SlackTrigger{
		{WebhookID: "wh-1", WorkflowID: "1", WorkflowName: "workspace-wide", WorkflowActive: true, EventTypes: []string{"*"}, WatchWholeWorkspace: true},
		{WebhookID: "wh-2", WorkflowID: "2", WorkflowName: "channel-scoped", WorkflowActive: true, EventTypes: []string{"message"}, Channels: []string{"C123"}},
		{WebhookID: "wh-3", WorkflowID: "3", WorkflowName: "inactive", WorkflowActive: false, EventTypes: []string{"*"}, WatchWholeWorkspace: true},
		{WebhookID: "wh-4", WorkflowID: "4", WorkflowName: "other-channel", WorkflowActive: true, EventTypes: []string{"message"}, Channels: []string{"C999"}},
	}))

	mockClient.EXPECT().Forward(gomock.Any(), "http://localhost:5678/webhook/wh-1", gomock.Any(), gomock.Any()).
		Return(n8nclient.ForwardResult{StatusCode: 200})
	mockClient.EXPECT().Forward(gomock.Any(), "http://localhost:5678/webhook/wh-2", gomock.Any(), gomock.Any()).
		Return(n8nclient.ForwardResult{StatusCode: 200})

	r.RouteSlack(ctx, SlackEvent{Type: "message", Channel: "C123"}, []byte(`{}`))
}

func TestRouteSlackNoMatchesDoesNotForward(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockClient := mocks.NewMockClient(ctrl)
	r, store := newTestRouter(t, mockClient)
	ctx := context.Background()

	require.NoError(t, store.SyncSlackTriggers(ctx, []storage.SlackTrigger{
		{WebhookID: "wh-1", WorkflowID: "1", WorkflowName: "channel-scoped", WorkflowActive: true, EventTypes: []string{"message"}, Channels: []string{"C123"}},
	}))

	// no EXPECT().Forward set up at all: any call fails the test.
	r.RouteSlack(ctx, SlackEvent{Type: "message", Channel: "C999"}, []byte(`{}`))
}

func TestRouteJiraAppendsQueryStringAndFiltersHeaders(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockClient := mocks.NewMockClient(ctrl)
	r, store := newTestRouter(t, mockClient)
	ctx := context.Background()

	require.NoError(t, store.SyncJiraTriggers(ctx, []storage.JiraTrigger{
		{WebhookID: "wh-jira", WorkflowID: "1", WorkflowName: "jira-flow", WorkflowActive: true, EventTypes: []string{"jira:issue_created"}},
	}))

	headers := http.Header{
		"X-Atlassian-Webhook-Identifier": {"abc"},
		"Content-Type":                   {"application/json"},
		"Authorization":                  {"Bearer secret"},
	}

	mockClient.EXPECT().Forward(gomock.Any(), "http://localhost:5678/webhook/wh-jira?token=shared-secret", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ []byte, h http.Header) n8nclient.ForwardResult {
			require.Equal(t, []string{"abc"}, h["X-Atlassian-Webhook-Identifier"])
			require.Equal(t, []string{"application/json"}, h["Content-Type"])
			require.Empty(t, h["Authorization"])
			return n8nclient.ForwardResult{StatusCode: 200}
		})

	r.RouteJira(ctx, "jira:issue_created", []byte(`{}`), headers, "token=shared-secret")
}

func TestAppendQueryString(t *testing.T) {
	require.Equal(t, "http://x/y", appendQueryString("http://x/y", ""))
	require.Equal(t, "http://x/y?a=1", appendQueryString("http://x/y", "a=1"))
	require.Equal(t, "http://x/y?a=1&b=2", appendQueryString("http://x/y?a=1", "b=2"))
}

func TestRouteGitHubMatchesCaseInsensitiveOwnerAndSignsBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockClient := mocks.NewMockClient(ctrl)
	r, store := newTestRouter(t, mockClient)
	ctx := context.Background()

	require.NoError(t, store.SyncGitHubTriggers(ctx, []storage.GitHubTrigger{
		{WebhookID: "wh-gh", WorkflowID: "1", WorkflowName: "gh-flow", WorkflowActive: true, Owner: "Acme", Repository: "Widgets", EventTypes: []string{"push"}},
	}))
	_, err := store.UpsertWebhookSecret(ctx, "wh-gh", storage.ProviderGitHub, "s3cr3t")
	require.NoError(t, err)

	body := []byte(`{"ref":"refs/heads/main"}`)
	want := ghsig.Sign(body, "s3cr3t")

	mockClient.EXPECT().Forward(gomock.Any(), "http://localhost:5678/webhook/wh-gh", body, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ []byte, h http.Header) n8nclient.ForwardResult {
			require.Equal(t, want, h.Get("X-Hub-Signature-256"))
			require.Equal(t, "push", h.Get("X-GitHub-Event"))
			require.NotEmpty(t, h.Get("X-GitHub-Delivery"))
			return n8nclient.ForwardResult{StatusCode: 200}
		})

	r.RouteGitHub(ctx, GitHubEvent{Type: "push", Owner: "acme", Repository: "widgets"}, body)
}

func TestRouteGitHubForwardsUnsignedWhenNoSecretCaptured(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockClient := mocks.NewMockClient(ctrl)
	r, store := newTestRouter(t, mockClient)
	ctx := context.Background()

	require.NoError(t, store.SyncGitHubTriggers(ctx, []storage.GitHubTrigger{
		{WebhookID: "wh-gh", WorkflowID: "1", WorkflowName: "gh-flow", WorkflowActive: true, Owner: "acme", Repository: "widgets", EventTypes: []string{"*"}},
	}))

	mockClient.EXPECT().Forward(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ []byte, h http.Header) n8nclient.ForwardResult {
			require.Empty(t, h.Get("X-Hub-Signature-256"))
			return n8nclient.ForwardResult{StatusCode: 200}
		})

	r.RouteGitHub(ctx, GitHubEvent{Type: "push", Owner: "acme", Repository: "widgets"}, []byte(`{}`))
}

func TestRouteGitHubSkipsMismatchedRepository(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockClient := mocks.NewMockClient(ctrl)
	r, store := newTestRouter(t, mockClient)
	ctx := context.Background()

	require.NoError(t, store.SyncGitHubTriggers(ctx, []storage.GitHubTrigger{
		{WebhookID: "wh-gh", WorkflowID: "1", WorkflowName: "gh-flow", WorkflowActive: true, Owner: "acme", Repository: "widgets", EventTypes: []string{"push"}},
	}))

	r.RouteGitHub(ctx, GitHubEvent{Type: "push", Owner: "acme", Repository: "gizmos"}, []byte(`{}`))
}
