package trigger

import (
	"github.com/mattjoyce/unihook/internal/n8nclient"
	"github.com/mattjoyce/unihook/internal/storage"
)

// slackWireNames translates n8n's internal Slack trigger vocabulary to the
// wire-level event names this router matches against (§6). Names already
// matching the wire vocabulary pass through via the default case.
var slackWireNames = map[string]string{
	"any_event":    "*",
	"user_created": "team_join",
}

// parseSlackTrigger extracts a Slack descriptor from a slackTrigger node.
// Returns ok=false when the node has no webhook_id.
func parseSlackTrigger(wf n8nclient.Workflow, node n8nclient.WorkflowNode) (storage.SlackTrigger, bool) {
	if node.WebhookID == "" {
		return storage.SlackTrigger{}, false
	}

	watchWholeWorkspace := extractBool(node.Parameters, "watchWorkspace")

	var channels []string
	if !watchWholeWorkspace {
		if v := extractResourceLocatorValue(node.Parameters, "channelId"); v != "" {
			channels = []string{v}
		}
	}

	eventTypes := translateSlackEventTypes(extractStringSlice(node.Parameters, "trigger"))

	return storage.SlackTrigger{
		WebhookID:           node.WebhookID,
		WorkflowID:          wf.ID,
		WorkflowName:        wf.Name,
		WorkflowActive:      wf.Active,
		EventTypes:          eventTypes,
		Channels:            channels,
		WatchWholeWorkspace: watchWholeWorkspace,
	}, true
}

func translateSlackEventTypes(raw []string) []string {
	if len(raw) == 0 {
		return []string{"*"}
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if wire, ok := slackWireNames[r]; ok {
			out = append(out, wire)
		} else {
			out = append(out, r)
		}
	}
	return out
}
