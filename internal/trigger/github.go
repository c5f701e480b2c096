package trigger

import (
	"github.com/mattjoyce/unihook/internal/n8nclient"
	"github.com/mattjoyce/unihook/internal/storage"
)

// parseGitHubTrigger extracts a GitHub descriptor from a githubTrigger
// node. Returns ok=false when the node has no webhook_id. owner/repository
// default to "" (a legal, if unmatchable, descriptor) when neither a
// resource-locator nor a plain-string parameter is present.
func parseGitHubTrigger(wf n8nclient.Workflow, node n8nclient.WorkflowNode) (storage.GitHubTrigger, bool) {
	if node.WebhookID == "" {
		return storage.GitHubTrigger{}, false
	}

	return storage.GitHubTrigger{
		WebhookID:      node.WebhookID,
		WorkflowID:     wf.ID,
		WorkflowName:   wf.Name,
		WorkflowActive: wf.Active,
		Owner:          extractResourceLocatorValue(node.Parameters, "owner"),
		Repository:     extractResourceLocatorValue(node.Parameters, "repository"),
		EventTypes:     extractStringSlice(node.Parameters, "events"),
	}, true
}
