package fanout

import (
	"context"
	"net/http"
	"strings"

	"github.com/mattjoyce/unihook/internal/ghsig"
	"github.com/mattjoyce/unihook/internal/log"
	"github.com/mattjoyce/unihook/internal/n8nclient"
)

// GitHubEvent is the routing-relevant facet tuple extracted from an
// inbound GitHub delivery.
type GitHubEvent struct {
	Type       string // X-GitHub-Event
	DeliveryID string // X-GitHub-Delivery, may be empty
	Owner      string
	Repository string
}

// RouteGitHub matches the event against every loaded GitHub descriptor
// (case-insensitive on owner/repository) and re-signs the forwarded
// payload with each descriptor's captured secret.
func (r *Router) RouteGitHub(ctx context.Context, event GitHubEvent, rawBody []byte) {
	descriptors, err := r.store.QueryGitHubTriggers(ctx)
	if err != nil {
		log.Error("failed to query github triggers", "error", err)
		return
	}

	owner := strings.ToLower(event.Owner)
	repo := strings.ToLower(event.Repository)

	deliveryID := event.DeliveryID
	if deliveryID == "" {
		deliveryID = n8nclient.NewDeliveryID()
	}

	var targets []forwardTarget
	for _, d := range descriptors {
		if !d.WorkflowActive || !eventMatches(d.EventTypes, event.Type) {
			continue
		}
		if strings.ToLower(d.Owner) != owner || strings.ToLower(d.Repository) != repo {
			continue
		}

		headers := http.Header{
			"Content-Type":      {"application/json"},
			"X-GitHub-Event":    {event.Type},
			"X-GitHub-Delivery": {deliveryID},
		}
		if d.Secret != nil {
			headers.Set("X-Hub-Signature-256", ghsig.Sign(rawBody, *d.Secret))
		} else {
			log.Warn("forwarding github event without signature, no secret captured", "webhook_id", d.WebhookID)
		}

		targets = append(targets, forwardTarget{
			url:     r.buildWebhookURL(d.WebhookID),
			body:    rawBody,
			headers: headers,
			label:   d.WorkflowName,
		})
	}

	if len(targets) == 0 {
		log.Debug("no matching github triggers", "event_type", event.Type, "owner", event.Owner, "repository", event.Repository)
		return
	}
	log.Info("forwarding github event", "event_type", event.Type, "matches", len(targets))
	r.dispatchAll(ctx, targets)
}
