package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mattjoyce/unihook/internal/log"
	"github.com/mattjoyce/unihook/internal/storage"
)

func (s *Server) handleGitHubUser(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, githubUserResponse{Login: "noop", ID: 1})
}

func (s *Server) handleGitHubHooksList(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, []githubHookResponse{})
}

func (s *Server) handleGitHubHooksCreate(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	repo := chi.URLParam(r, "repo")

	var req githubHookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	webhookID := webhookIDFromURL(req.Config.URL, owner, repo)

	id, err := s.store.UpsertWebhookSecret(r.Context(), webhookID, storage.ProviderGitHub, req.Config.Secret)
	if err != nil {
		log.Error("failed to capture github webhook secret", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store webhook secret")
		return
	}

	respondJSON(w, http.StatusCreated, githubHookResponse{
		ID:     id,
		Name:   req.Name,
		Active: req.Active,
		Events: req.Events,
		Config: req.Config,
	})

	s.triggerImmediateRefresh()
}

func (s *Server) handleGitHubHooksDelete(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if _, err := s.store.DeleteWebhookSecretByID(r.Context(), id); err != nil {
		log.Error("failed to delete github webhook secret", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// webhookIDFromURL derives the webhook_id as the second-to-last path
// segment of the host-supplied webhook URL, e.g.
// "http://router/webhook/<id>" -> "<id>". Falls back to a synthetic,
// warning-logged id when the URL is unparsable or too short — never fails
// the request.
func webhookIDFromURL(rawURL, owner, repo string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		log.Warn("unparsable github hook config.url, using fallback webhook_id", "url", rawURL, "error", err)
		return fmt.Sprintf("unknown-%s-%s", owner, repo)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 {
		log.Warn("github hook config.url too short, using fallback webhook_id", "url", rawURL)
		return fmt.Sprintf("unknown-%s-%s", owner, repo)
	}
	return segments[len(segments)-2]
}

func (s *Server) triggerImmediateRefresh() {
	go func() {
		if err := s.refresher.Pass(context.Background()); err != nil {
			log.Error("immediate refresh after mock registration failed", "error", err)
		}
	}()
}
