package trigger

import (
	"github.com/mattjoyce/unihook/internal/n8nclient"
	"github.com/mattjoyce/unihook/internal/storage"
)

// parseJiraTrigger extracts a Jira descriptor from a jiraTrigger node. It
// returns ok=false when the node has no webhook_id, which means it isn't a
// usable trigger yet (the host hasn't registered a webhook for it).
func parseJiraTrigger(wf n8nclient.Workflow, node n8nclient.WorkflowNode) (storage.JiraTrigger, bool) {
	if node.WebhookID == "" {
		return storage.JiraTrigger{}, false
	}

	return storage.JiraTrigger{
		WebhookID:      node.WebhookID,
		WorkflowID:     wf.ID,
		WorkflowName:   wf.Name,
		WorkflowActive: wf.Active,
		EventTypes:     extractStringSlice(node.Parameters, "events"),
	}, true
}
