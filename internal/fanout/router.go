// Package fanout implements the per-provider match-and-forward pipelines:
// given an inbound event already reduced to its routing facets, it reads
// the current descriptor snapshot from storage, computes matches, and
// dispatches one outbound forward per match, concurrently.
package fanout

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/mattjoyce/unihook/internal/log"
	"github.com/mattjoyce/unihook/internal/n8nclient"
	"github.com/mattjoyce/unihook/internal/storage"
)

//go:generate mockgen -destination=mocks/mock_client.go -package=mocks github.com/mattjoyce/unihook/internal/fanout Client

// Client is satisfied by *n8nclient.Client; narrowed for testability so
// fan-out unit tests can inject a fake outbound client via gomock.
type Client interface {
	Forward(ctx context.Context, webhookURL string, rawBody []byte, headers http.Header) n8nclient.ForwardResult
}

// Router holds the shared dependencies of all three per-provider fan-out
// pipelines: the descriptor store (read-only from here), the outbound
// client, and the host URL configuration.
type Router struct {
	store              *storage.Store
	client             Client
	n8nAPIURL          string
	n8nEndpointWebhook string
}

// New builds a Router.
func New(store *storage.Store, client Client, n8nAPIURL, n8nEndpointWebhook string) *Router {
	return &Router{
		store:              store,
		client:             client,
		n8nAPIURL:          strings.TrimRight(n8nAPIURL, "/"),
		n8nEndpointWebhook: n8nEndpointWebhook,
	}
}

// buildWebhookURL constructs {host_base}/{webhook_prefix}/{webhook_id}.
func (r *Router) buildWebhookURL(webhookID string) string {
	return fmt.Sprintf("%s/%s/%s", r.n8nAPIURL, r.n8nEndpointWebhook, webhookID)
}

// forwardTarget is one outbound forward to dispatch.
type forwardTarget struct {
	url     string
	body    []byte
	headers http.Header
	label   string // workflow name, for logging only
}

// dispatchAll fires every target concurrently and waits for all of them to
// finish. The inbound handlers call the Route* methods on a goroutine of
// their own and write the response without waiting for it, so this wait
// never affects the provider-facing latency.
func (r *Router) dispatchAll(ctx context.Context, targets []forwardTarget) {
	if len(targets) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, target := range targets {
		wg.Add(1)
		go func(t forwardTarget) {
			defer wg.Done()
			result := r.client.Forward(ctx, t.url, t.body, t.headers)
			if result.Err != nil {
				log.Warn("forward failed", "url", t.url, "workflow", t.label, "error", result.Err)
				return
			}
			log.Debug("forward delivered", "url", t.url, "workflow", t.label, "status", result.StatusCode)
		}(target)
	}
	wg.Wait()
}

// eventMatches reports whether an event_types set matches the inbound
// event type, honoring the "*" wildcard convention used by all three
// providers.
func eventMatches(eventTypes []string, eventType string) bool {
	for _, e := range eventTypes {
		if e == "*" || e == eventType {
			return true
		}
	}
	return false
}
