// Package n8nclient is the host management API client: it lists workflows
// (cursor-paginated) so the refresher can extract trigger descriptors, and
// forwards raw inbound payloads to the host's per-trigger webhook URLs.
package n8nclient

// WorkflowsResponse is the response body of GET /api/v1/workflows.
type WorkflowsResponse struct {
	Data       []Workflow `json:"data"`
	NextCursor string     `json:"nextCursor"`
}

// Workflow is one host workflow, as returned by the management API.
type Workflow struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Active     bool                   `json:"active"`
	Nodes      []WorkflowNode         `json:"nodes"`
	StaticData map[string]interface{} `json:"staticData"`
}

// WorkflowNode is one node within a workflow's node graph.
type WorkflowNode struct {
	Type       string                 `json:"type"`
	Name       string                 `json:"name"`
	Parameters map[string]interface{} `json:"parameters"`
	WebhookID  string                 `json:"webhookId"`
}
