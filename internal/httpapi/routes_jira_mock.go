package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleJiraMyself(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, jiraMyselfResponse{AccountID: "noop"})
}

func (s *Server) handleJiraWebhooksList(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, []jiraWebhookResponse{})
}

func (s *Server) handleJiraWebhooksCreate(w http.ResponseWriter, r *http.Request) {
	var req jiraWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	// Jira authenticates by credential, not HMAC: there is no secret to
	// capture here, unlike the GitHub mock registration path.
	respondJSON(w, http.StatusCreated, jiraWebhookResponse{
		Self:    fmt.Sprintf("%s/rest/webhooks/1.0/webhook/1", baseURL(r)),
		Name:    req.Name,
		URL:     req.URL,
		Events:  req.Events,
		Enabled: true,
	})

	s.triggerImmediateRefresh()
}

func (s *Server) handleJiraWebhooksDelete(w http.ResponseWriter, r *http.Request) {
	_ = chi.URLParam(r, "id")
	w.WriteHeader(http.StatusNoContent)
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}
