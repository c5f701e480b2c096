package fanout

import (
	"context"
	"net/http"
	"strings"

	"github.com/mattjoyce/unihook/internal/log"
)

// jiraForwardedHeaderPrefixes lists the inbound header prefixes preserved
// on every Jira forward, keeping hop-by-hop and unrelated transport
// headers from leaking to the host.
var jiraForwardedHeaderPrefixes = []string{"x-atlassian-", "content-type"}

// RouteJira matches webhookEvent against every loaded Jira descriptor and
// forwards the raw body, with the inbound query string appended to every
// outbound URL so the host's optional query-authentication credential
// still applies.
func (r *Router) RouteJira(ctx context.Context, webhookEvent string, rawBody []byte, headers http.Header, queryString string) {
	descriptors, err := r.store.QueryJiraTriggers(ctx)
	if err != nil {
		log.Error("failed to query jira triggers", "error", err)
		return
	}

	forwarded := filterHeaders(headers, jiraForwardedHeaderPrefixes)

	var targets []forwardTarget
	for _, d := range descriptors {
		if !d.WorkflowActive || !eventMatches(d.EventTypes, webhookEvent) {
			continue
		}
		targets = append(targets, forwardTarget{
			url:     appendQueryString(r.buildWebhookURL(d.WebhookID), queryString),
			body:    rawBody,
			headers: forwarded,
			label:   d.WorkflowName,
		})
	}

	if len(targets) == 0 {
		log.Debug("no matching jira triggers", "webhook_event", webhookEvent)
		return
	}
	log.Info("forwarding jira event", "webhook_event", webhookEvent, "matches", len(targets))
	r.dispatchAll(ctx, targets)
}

func appendQueryString(url, queryString string) string {
	if queryString == "" {
		return url
	}
	if strings.Contains(url, "?") {
		return url + "&" + queryString
	}
	return url + "?" + queryString
}

func filterHeaders(headers http.Header, allowedPrefixes []string) http.Header {
	out := http.Header{}
	for name, values := range headers {
		lower := strings.ToLower(name)
		for _, prefix := range allowedPrefixes {
			if strings.HasPrefix(lower, prefix) {
				out[name] = values
				break
			}
		}
	}
	return out
}
