package httpapi

// errorResponse is the JSON body for every 4xx/5xx response.
type errorResponse struct {
	Error string `json:"error"`
}

// healthResponse is the JSON body for GET /health.
type healthResponse struct {
	Status             string `json:"status"`
	SlackTriggersLoaded int   `json:"slack_triggers_loaded"`
	JiraTriggersLoaded  int   `json:"jira_triggers_loaded"`
	GitHubTriggersLoaded int  `json:"github_triggers_loaded"`
	UptimeSeconds      int64  `json:"uptime_seconds"`
	DatabasePath       string `json:"database_path"`
}

// githubUserResponse is the fixed body for GET /user.
type githubUserResponse struct {
	Login string `json:"login"`
	ID    int    `json:"id"`
}

// githubHookRequest is the body of POST /repos/{owner}/{repo}/hooks.
type githubHookRequest struct {
	Name   string              `json:"name"`
	Active bool                `json:"active"`
	Events []string            `json:"events"`
	Config githubHookRequestConfig `json:"config"`
}

type githubHookRequestConfig struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Secret      string `json:"secret"`
}

// githubHookResponse echoes the created hook back to the host.
type githubHookResponse struct {
	ID     int64                   `json:"id"`
	Name   string                  `json:"name"`
	Active bool                    `json:"active"`
	Events []string                `json:"events"`
	Config githubHookRequestConfig `json:"config"`
}

// jiraMyselfResponse is the fixed body for GET /rest/api/2/myself.
type jiraMyselfResponse struct {
	AccountID string `json:"accountId"`
}

// jiraWebhookRequest is the body of POST /rest/webhooks/1.0/webhook.
type jiraWebhookRequest struct {
	Name    string   `json:"name"`
	URL     string   `json:"url"`
	Events  []string `json:"events"`
	Enabled bool     `json:"enabled"`
}

// jiraWebhookResponse is the body of the 201 response.
type jiraWebhookResponse struct {
	Self    string   `json:"self"`
	Name    string   `json:"name"`
	URL     string   `json:"url"`
	Events  []string `json:"events"`
	Enabled bool     `json:"enabled"`
}
