package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/mattjoyce/unihook/internal/fanout"
	"github.com/mattjoyce/unihook/internal/ghsig"
	"github.com/mattjoyce/unihook/internal/log"
)

// slackEventEnvelope covers both Slack's URL-verification handshake and
// the event_callback payload shape; only the fields routing needs are
// decoded, the rest of the body is forwarded byte-for-byte.
type slackEventEnvelope struct {
	Type      string `json:"type"`
	Challenge string `json:"challenge"`
	Event     struct {
		Type    string `json:"type"`
		Channel string `json:"channel"`
	} `json:"event"`
}

func (s *Server) handleSlackEvents(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var envelope slackEventEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if envelope.Type == "url_verification" {
		respondJSON(w, http.StatusOK, map[string]string{"challenge": envelope.Challenge})
		return
	}

	go s.router.RouteSlack(context.Background(), fanout.SlackEvent{
		Type:    envelope.Event.Type,
		Channel: envelope.Event.Channel,
	}, body)

	w.WriteHeader(http.StatusOK)
}

type jiraEventEnvelope struct {
	WebhookEvent string `json:"webhookEvent"`
}

func (s *Server) handleJiraEvents(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var envelope jiraEventEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	headers := r.Header.Clone()
	queryString := r.URL.RawQuery

	go s.router.RouteJira(context.Background(), envelope.WebhookEvent, body, headers, queryString)

	w.WriteHeader(http.StatusOK)
}

type githubEventEnvelope struct {
	Repository struct {
		Name  string `json:"name"`
		Owner struct {
			Login string `json:"login"`
		} `json:"owner"`
	} `json:"repository"`
}

func (s *Server) handleGitHubEvents(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	eventType := r.Header.Get("X-GitHub-Event")
	if eventType == "ping" {
		w.WriteHeader(http.StatusOK)
		return
	}

	if s.cfg.GitHubWebhookSecret != "" {
		signature := r.Header.Get("X-Hub-Signature-256")
		if err := ghsig.Verify(body, signature, s.cfg.GitHubWebhookSecret); err != nil {
			log.Warn("github inbound signature verification failed")
			writeError(w, http.StatusUnauthorized, "signature verification failed")
			return
		}
	}

	var envelope githubEventEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	event := fanout.GitHubEvent{
		Type:       eventType,
		DeliveryID: r.Header.Get("X-GitHub-Delivery"),
		Owner:      envelope.Repository.Owner.Login,
		Repository: envelope.Repository.Name,
	}
	go s.router.RouteGitHub(context.Background(), event, body)

	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.Counts(r.Context())
	if err != nil {
		log.Error("failed to compute trigger counts", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute trigger counts")
		return
	}

	respondJSON(w, http.StatusOK, healthResponse{
		Status:               "ok",
		SlackTriggersLoaded:  counts.SlackTriggers,
		JiraTriggersLoaded:   counts.JiraTriggers,
		GitHubTriggersLoaded: counts.GitHubTriggers,
		UptimeSeconds:        int64(time.Since(s.startedAt).Seconds()),
		DatabasePath:         s.cfg.DatabasePath,
	})
}
