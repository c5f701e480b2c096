package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db)
}

func TestUpsertWebhookSecretInsertsThenUpdatesPreservingID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id1, err := s.UpsertWebhookSecret(ctx, "wh-1", ProviderGitHub, "secret-a")
	require.NoError(t, err)
	require.NotZero(t, id1)

	id2, err := s.UpsertWebhookSecret(ctx, "wh-1", ProviderGitHub, "secret-b")
	require.NoError(t, err)
	require.Equal(t, id1, id2, "re-registration must preserve the numeric id")

	triggers, err := s.QueryGitHubTriggers(ctx)
	require.NoError(t, err)
	require.Empty(t, triggers) // no descriptor synced yet, just the secret row
}

func TestUpsertWebhookSecretFallbackDoesNotClobber(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.UpsertWebhookSecret(ctx, "wh-1", ProviderGitHub, "authoritative")
	require.NoError(t, err)

	err = s.UpsertWebhookSecretFallback(ctx, "wh-1", ProviderGitHub, "fallback-should-not-apply")
	require.NoError(t, err)

	require.NoError(t, s.SyncGitHubTriggers(ctx, []GitHubTrigger{{WebhookID: "wh-1", WorkflowID: "w1", EventTypes: []string{"push"}}}))
	triggers, err := s.QueryGitHubTriggers(ctx)
	require.NoError(t, err)
	require.Len(t, triggers, 1)
	require.NotNil(t, triggers[0].Secret)
	require.Equal(t, "authoritative", *triggers[0].Secret)
}

func TestUpsertWebhookSecretFallbackInsertsWhenAbsent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.UpsertWebhookSecretFallback(ctx, "wh-2", ProviderGitHub, "fallback-secret"))
	require.NoError(t, s.SyncGitHubTriggers(ctx, []GitHubTrigger{{WebhookID: "wh-2", WorkflowID: "w2"}}))

	triggers, err := s.QueryGitHubTriggers(ctx)
	require.NoError(t, err)
	require.Len(t, triggers, 1)
	require.Equal(t, "fallback-secret", *triggers[0].Secret)
}

func TestDeleteWebhookSecretByIDIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.UpsertWebhookSecret(ctx, "wh-3", ProviderGitHub, "s")
	require.NoError(t, err)

	deleted, err := s.DeleteWebhookSecretByID(ctx, id)
	require.NoError(t, err)
	require.True(t, deleted)

	deletedAgain, err := s.DeleteWebhookSecretByID(ctx, id)
	require.NoError(t, err)
	require.False(t, deletedAgain)
}

func TestSyncReplacesAllRows(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SyncJiraTriggers(ctx, []JiraTrigger{
		{WebhookID: "old", WorkflowID: "w1", EventTypes: []string{"jira:issue_created"}},
	}))
	require.NoError(t, s.SyncJiraTriggers(ctx, []JiraTrigger{
		{WebhookID: "new", WorkflowID: "w2", EventTypes: []string{"comment_created"}},
	}))

	triggers, err := s.QueryJiraTriggers(ctx)
	require.NoError(t, err)
	require.Len(t, triggers, 1)
	require.Equal(t, "new", triggers[0].WebhookID)
}

func TestSyncIsIdempotentOnUnchangedInput(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	descriptors := []SlackTrigger{
		{WebhookID: "wh-a", WorkflowID: "w1", EventTypes: []string{"message"}, Channels: []string{"C1"}},
	}
	require.NoError(t, s.SyncSlackTriggers(ctx, descriptors))
	first, err := s.QuerySlackTriggers(ctx)
	require.NoError(t, err)

	require.NoError(t, s.SyncSlackTriggers(ctx, descriptors))
	second, err := s.QuerySlackTriggers(ctx)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestCounts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SyncSlackTriggers(ctx, []SlackTrigger{{WebhookID: "s1", WorkflowID: "w1"}}))
	require.NoError(t, s.SyncJiraTriggers(ctx, []JiraTrigger{
		{WebhookID: "j1", WorkflowID: "w2"}, {WebhookID: "j2", WorkflowID: "w3"},
	}))

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, counts.SlackTriggers)
	require.Equal(t, 2, counts.JiraTriggers)
	require.Equal(t, 0, counts.GitHubTriggers)
}
