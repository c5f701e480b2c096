// Package refresh implements the periodic trigger discovery loop: it walks
// the host workflow API, extracts per-provider trigger descriptors, and
// replaces the corresponding tables in the state store.
package refresh

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mattjoyce/unihook/internal/log"
	"github.com/mattjoyce/unihook/internal/n8nclient"
	"github.com/mattjoyce/unihook/internal/storage"
	"github.com/mattjoyce/unihook/internal/trigger"
)

//go:generate mockgen -destination=mocks/mock_workflow_lister.go -package=mocks github.com/mattjoyce/unihook/internal/refresh WorkflowLister

// WorkflowLister is satisfied by *n8nclient.Client; narrowed so refresher
// tests can inject a fake host without a real HTTP round-trip.
type WorkflowLister interface {
	ListActiveWorkflows(ctx context.Context) ([]n8nclient.Workflow, error)
}

// Refresher performs one unified sync pass per tick: a single workflow list
// call feeds all three per-provider extractors, and each provider's table
// is replaced independently and transactionally.
type Refresher struct {
	store    *storage.Store
	client   WorkflowLister
	interval time.Duration

	// mu serializes passes so a manually triggered pass (from mock
	// registration) never overlaps the ticker-driven one.
	mu sync.Mutex
}

// New builds a Refresher.
func New(store *storage.Store, client WorkflowLister, interval time.Duration) *Refresher {
	return &Refresher{store: store, client: client, interval: interval}
}

// Run performs an initial synchronous pass, then repeats on the configured
// interval until ctx is cancelled, mirroring the teacher's ticker-loop
// idiom. The initial pass's failure is logged but not returned: the service
// still starts serving with an empty trigger snapshot.
func (r *Refresher) Run(ctx context.Context) error {
	logger := log.WithComponent("refresh")
	logger.Info("refresh loop started", "interval", r.interval)
	defer logger.Info("refresh loop stopped")

	if err := r.Pass(ctx); err != nil {
		logger.Error("initial trigger sync failed", "error", err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.Pass(ctx); err != nil {
				logger.Error("trigger sync failed", "error", err)
			}
		}
	}
}

// Pass runs one sync pass immediately, serialized against any other pass in
// flight. It is exported so the provider-mock registration handlers can
// trigger an out-of-band refresh right after capturing a new trigger.
func (r *Refresher) Pass(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	workflows, err := r.client.ListActiveWorkflows(ctx)
	if err != nil {
		return fmt.Errorf("refresh: list active workflows: %w", err)
	}

	result := trigger.FromWorkflows(workflows)

	if err := r.store.SyncSlackTriggers(ctx, result.Slack); err != nil {
		return fmt.Errorf("refresh: sync slack triggers: %w", err)
	}
	if err := r.store.SyncJiraTriggers(ctx, result.Jira); err != nil {
		return fmt.Errorf("refresh: sync jira triggers: %w", err)
	}
	if err := r.store.SyncGitHubTriggers(ctx, result.GitHub); err != nil {
		return fmt.Errorf("refresh: sync github triggers: %w", err)
	}

	for webhookID, secret := range result.FallbackSecrets {
		if err := r.store.UpsertWebhookSecretFallback(ctx, webhookID, storage.ProviderGitHub, secret); err != nil {
			return fmt.Errorf("refresh: fallback secret for %q: %w", webhookID, err)
		}
	}

	log.Debug("trigger sync complete",
		"slack", len(result.Slack), "jira", len(result.Jira), "github", len(result.GitHub))
	return nil
}
