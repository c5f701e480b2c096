// Package trigger extracts per-provider trigger descriptors from host
// workflow nodes, per the extraction rules in the component design.
package trigger

import (
	"fmt"

	"github.com/mattjoyce/unihook/internal/n8nclient"
	"github.com/mattjoyce/unihook/internal/storage"
)

const (
	slackNodeType  = "n8n-nodes-base.slackTrigger"
	jiraNodeType   = "n8n-nodes-base.jiraTrigger"
	githubNodeType = "n8n-nodes-base.githubTrigger"
)

// Result groups the descriptors extracted from one pass over the host's
// workflow list, ready to hand to storage's per-provider sync calls.
type Result struct {
	Slack  []storage.SlackTrigger
	Jira   []storage.JiraTrigger
	GitHub []storage.GitHubTrigger

	// FallbackSecrets holds (webhook_id, secret) pairs discovered in a
	// GitHub trigger node's staticData, to be written via
	// UpsertWebhookSecretFallback by the caller (the refresher), which
	// alone knows whether an authoritative row already exists.
	FallbackSecrets map[string]string
}

// FromWorkflows walks every node of every workflow and extracts a
// descriptor for each recognized trigger node type. Nodes with no
// webhook_id, and nodes of unrecognized type, are silently skipped.
func FromWorkflows(workflows []n8nclient.Workflow) Result {
	result := Result{FallbackSecrets: map[string]string{}}

	for _, wf := range workflows {
		for _, node := range wf.Nodes {
			switch node.Type {
			case slackNodeType:
				if d, ok := parseSlackTrigger(wf, node); ok {
					result.Slack = append(result.Slack, d)
				}
			case jiraNodeType:
				if d, ok := parseJiraTrigger(wf, node); ok {
					result.Jira = append(result.Jira, d)
				}
			case githubNodeType:
				if d, ok := parseGitHubTrigger(wf, node); ok {
					result.GitHub = append(result.GitHub, d)
					if secret, ok := extractWebhookSecret(wf, node.Name); ok {
						result.FallbackSecrets[d.WebhookID] = secret
					}
				}
			}
		}
	}
	return result
}

// extractResourceLocatorValue reads an n8n "resource locator" parameter:
// either {"__rl": true, "value": "...", "mode": "..."} or a plain string.
func extractResourceLocatorValue(params map[string]interface{}, field string) string {
	raw, ok := params[field]
	if !ok {
		return ""
	}
	if obj, ok := raw.(map[string]interface{}); ok {
		if v, ok := obj["value"].(string); ok && v != "" {
			return v
		}
		return ""
	}
	if s, ok := raw.(string); ok {
		return s
	}
	return ""
}

// extractStringSlice reads a parameter expected to be a JSON array of
// strings, tolerating absence or malformed entries by skipping them.
func extractStringSlice(params map[string]interface{}, field string) []string {
	raw, ok := params[field]
	if !ok {
		return nil
	}
	arr, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// extractBool reads a boolean parameter, defaulting to false.
func extractBool(params map[string]interface{}, field string) bool {
	raw, ok := params[field]
	if !ok {
		return false
	}
	b, _ := raw.(bool)
	return b
}

// extractWebhookSecret reads staticData["node:<nodeName>"]["webhookSecret"].
func extractWebhookSecret(wf n8nclient.Workflow, nodeName string) (string, bool) {
	if wf.StaticData == nil {
		return "", false
	}
	key := fmt.Sprintf("node:%s", nodeName)
	entry, ok := wf.StaticData[key]
	if !ok {
		return "", false
	}
	m, ok := entry.(map[string]interface{})
	if !ok {
		return "", false
	}
	secret, ok := m["webhookSecret"].(string)
	if !ok || secret == "" {
		return "", false
	}
	return secret, true
}
