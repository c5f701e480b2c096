package fanout

import (
	"context"
	"net/http"

	"github.com/mattjoyce/unihook/internal/log"
)

// SlackEvent is the routing-relevant facet tuple extracted from an inbound
// Slack event_callback payload.
type SlackEvent struct {
	Type    string
	Channel string // empty for workspace-level events
}

// RouteSlack matches the event against every loaded Slack descriptor and
// forwards the untouched raw body to every match. Intended to be called
// from its own goroutine by the inbound handler (ack-early).
func (r *Router) RouteSlack(ctx context.Context, event SlackEvent, rawBody []byte) {
	descriptors, err := r.store.QuerySlackTriggers(ctx)
	if err != nil {
		log.Error("failed to query slack triggers", "error", err)
		return
	}

	var targets []forwardTarget
	for _, d := range descriptors {
		if !eventMatches(d.EventTypes, event.Type) {
			continue
		}
		if !d.WatchWholeWorkspace && !channelMatches(d.Channels, event.Channel) {
			continue
		}
		if !d.WorkflowActive {
			continue
		}

		headers := http.Header{"Content-Type": {"application/json"}}
		targets = append(targets, forwardTarget{
			url:     r.buildWebhookURL(d.WebhookID),
			body:    rawBody,
			headers: headers,
			label:   d.WorkflowName,
		})
	}

	if len(targets) == 0 {
		log.Debug("no matching slack triggers", "event_type", event.Type, "channel", event.Channel)
		return
	}
	log.Info("forwarding slack event", "event_type", event.Type, "matches", len(targets))
	r.dispatchAll(ctx, targets)
}

func channelMatches(channels []string, channel string) bool {
	if channel == "" {
		return false
	}
	for _, c := range channels {
		if c == channel {
			return true
		}
	}
	return false
}
