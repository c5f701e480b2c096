package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Provider identifies which external event source a trigger or secret
// belongs to.
type Provider string

const (
	ProviderSlack  Provider = "slack"
	ProviderJira   Provider = "jira"
	ProviderGitHub Provider = "github"
)

// SlackTrigger is one Slack trigger descriptor as discovered from a host
// workflow node.
type SlackTrigger struct {
	WebhookID           string
	WorkflowID          string
	WorkflowName        string
	WorkflowActive      bool
	EventTypes          []string
	Channels            []string
	WatchWholeWorkspace bool
}

// JiraTrigger is one Jira trigger descriptor.
type JiraTrigger struct {
	WebhookID      string
	WorkflowID     string
	WorkflowName   string
	WorkflowActive bool
	EventTypes     []string
}

// GitHubTrigger is one GitHub trigger descriptor, optionally carrying the
// HMAC secret captured at mock-registration time (populated only by
// QueryGitHubTriggers, which joins against webhook_secrets).
type GitHubTrigger struct {
	WebhookID      string
	WorkflowID     string
	WorkflowName   string
	WorkflowActive bool
	Owner          string
	Repository     string
	EventTypes     []string
	Secret         *string
}

// Counts reports the number of currently loaded trigger descriptors per
// provider, for the health endpoint.
type Counts struct {
	SlackTriggers  int
	JiraTriggers   int
	GitHubTriggers int
}

// Store is the persistent state store described in the component design:
// trigger descriptors (replaced wholesale per sync pass) and webhook
// secrets (a monotonic store updated by mock registration and sync
// fallback).
type Store struct {
	db *sql.DB
}

// New wraps an already-open, already-bootstrapped database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// SyncSlackTriggers atomically replaces the entire Slack trigger table.
func (s *Store) SyncSlackTriggers(ctx context.Context, triggers []SlackTrigger) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin sync slack triggers: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM slack_triggers;"); err != nil {
		return fmt.Errorf("storage: clear slack triggers: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO slack_triggers
		(webhook_id, workflow_id, workflow_name, workflow_active, event_types, channels, watch_whole_workspace, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("storage: prepare slack trigger insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, t := range triggers {
		eventTypes, err := json.Marshal(t.EventTypes)
		if err != nil {
			return fmt.Errorf("storage: encode slack event_types: %w", err)
		}
		channels, err := json.Marshal(t.Channels)
		if err != nil {
			return fmt.Errorf("storage: encode slack channels: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, t.WebhookID, t.WorkflowID, t.WorkflowName, t.WorkflowActive,
			string(eventTypes), string(channels), t.WatchWholeWorkspace, now); err != nil {
			return fmt.Errorf("storage: insert slack trigger %q: %w", t.WebhookID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: commit sync slack triggers: %w", err)
	}
	return nil
}

// SyncJiraTriggers atomically replaces the entire Jira trigger table.
func (s *Store) SyncJiraTriggers(ctx context.Context, triggers []JiraTrigger) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin sync jira triggers: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM jira_triggers;"); err != nil {
		return fmt.Errorf("storage: clear jira triggers: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO jira_triggers
		(webhook_id, workflow_id, workflow_name, workflow_active, event_types, updated_at)
		VALUES (?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("storage: prepare jira trigger insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, t := range triggers {
		eventTypes, err := json.Marshal(t.EventTypes)
		if err != nil {
			return fmt.Errorf("storage: encode jira event_types: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, t.WebhookID, t.WorkflowID, t.WorkflowName, t.WorkflowActive,
			string(eventTypes), now); err != nil {
			return fmt.Errorf("storage: insert jira trigger %q: %w", t.WebhookID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: commit sync jira triggers: %w", err)
	}
	return nil
}

// SyncGitHubTriggers atomically replaces the entire GitHub trigger table.
func (s *Store) SyncGitHubTriggers(ctx context.Context, triggers []GitHubTrigger) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin sync github triggers: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM github_triggers;"); err != nil {
		return fmt.Errorf("storage: clear github triggers: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO github_triggers
		(webhook_id, workflow_id, workflow_name, workflow_active, owner, repository, event_types, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("storage: prepare github trigger insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, t := range triggers {
		eventTypes, err := json.Marshal(t.EventTypes)
		if err != nil {
			return fmt.Errorf("storage: encode github event_types: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, t.WebhookID, t.WorkflowID, t.WorkflowName, t.WorkflowActive,
			t.Owner, t.Repository, string(eventTypes), now); err != nil {
			return fmt.Errorf("storage: insert github trigger %q: %w", t.WebhookID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: commit sync github triggers: %w", err)
	}
	return nil
}

// QuerySlackTriggers returns every currently loaded Slack descriptor.
func (s *Store) QuerySlackTriggers(ctx context.Context) ([]SlackTrigger, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT webhook_id, workflow_id, workflow_name, workflow_active,
		event_types, channels, watch_whole_workspace FROM slack_triggers;`)
	if err != nil {
		return nil, fmt.Errorf("storage: query slack triggers: %w", err)
	}
	defer rows.Close()

	var out []SlackTrigger
	for rows.Next() {
		var t SlackTrigger
		var eventTypes, channels string
		if err := rows.Scan(&t.WebhookID, &t.WorkflowID, &t.WorkflowName, &t.WorkflowActive,
			&eventTypes, &channels, &t.WatchWholeWorkspace); err != nil {
			return nil, fmt.Errorf("storage: scan slack trigger: %w", err)
		}
		if err := json.Unmarshal([]byte(eventTypes), &t.EventTypes); err != nil {
			return nil, fmt.Errorf("storage: decode slack event_types: %w", err)
		}
		if err := json.Unmarshal([]byte(channels), &t.Channels); err != nil {
			return nil, fmt.Errorf("storage: decode slack channels: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// QueryJiraTriggers returns every currently loaded Jira descriptor.
func (s *Store) QueryJiraTriggers(ctx context.Context) ([]JiraTrigger, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT webhook_id, workflow_id, workflow_name, workflow_active,
		event_types FROM jira_triggers;`)
	if err != nil {
		return nil, fmt.Errorf("storage: query jira triggers: %w", err)
	}
	defer rows.Close()

	var out []JiraTrigger
	for rows.Next() {
		var t JiraTrigger
		var eventTypes string
		if err := rows.Scan(&t.WebhookID, &t.WorkflowID, &t.WorkflowName, &t.WorkflowActive, &eventTypes); err != nil {
			return nil, fmt.Errorf("storage: scan jira trigger: %w", err)
		}
		if err := json.Unmarshal([]byte(eventTypes), &t.EventTypes); err != nil {
			return nil, fmt.Errorf("storage: decode jira event_types: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// QueryGitHubTriggers returns every currently loaded GitHub descriptor,
// LEFT JOINed against webhook_secrets so each carries its captured HMAC
// secret (nil if none has ever been captured for that webhook_id).
func (s *Store) QueryGitHubTriggers(ctx context.Context) ([]GitHubTrigger, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT g.webhook_id, g.workflow_id, g.workflow_name, g.workflow_active,
		g.owner, g.repository, g.event_types, s.secret
		FROM github_triggers g
		LEFT JOIN webhook_secrets s ON s.webhook_id = g.webhook_id AND s.provider = 'github';`)
	if err != nil {
		return nil, fmt.Errorf("storage: query github triggers: %w", err)
	}
	defer rows.Close()

	var out []GitHubTrigger
	for rows.Next() {
		var t GitHubTrigger
		var eventTypes string
		var secret sql.NullString
		if err := rows.Scan(&t.WebhookID, &t.WorkflowID, &t.WorkflowName, &t.WorkflowActive,
			&t.Owner, &t.Repository, &eventTypes, &secret); err != nil {
			return nil, fmt.Errorf("storage: scan github trigger: %w", err)
		}
		if err := json.Unmarshal([]byte(eventTypes), &t.EventTypes); err != nil {
			return nil, fmt.Errorf("storage: decode github event_types: %w", err)
		}
		if secret.Valid {
			v := secret.String
			t.Secret = &v
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpsertWebhookSecret authoritatively sets the secret for (webhookID,
// provider), called from the provider-mock registration path. The
// returned id is stable across repeated registrations for the same
// webhook_id.
func (s *Store) UpsertWebhookSecret(ctx context.Context, webhookID string, provider Provider, secret string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM webhook_secrets WHERE webhook_id = ? AND provider = ?;`,
		webhookID, string(provider)).Scan(&id)
	switch {
	case err == nil:
		if _, err := s.db.ExecContext(ctx, `UPDATE webhook_secrets SET secret = ? WHERE id = ?;`, secret, id); err != nil {
			return 0, fmt.Errorf("storage: update webhook secret: %w", err)
		}
		return id, nil
	case errors.Is(err, sql.ErrNoRows):
		res, err := s.db.ExecContext(ctx, `INSERT INTO webhook_secrets (webhook_id, provider, secret, created_at) VALUES (?, ?, ?, ?);`,
			webhookID, string(provider), secret, time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return 0, fmt.Errorf("storage: insert webhook secret: %w", err)
		}
		return res.LastInsertId()
	default:
		return 0, fmt.Errorf("storage: lookup webhook secret: %w", err)
	}
}

// UpsertWebhookSecretFallback writes a secret only if no row exists yet
// for (webhookID, provider) — it never overrides an authoritative secret
// captured via the mock registration path.
func (s *Store) UpsertWebhookSecretFallback(ctx context.Context, webhookID string, provider Provider, secret string) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO webhook_secrets (webhook_id, provider, secret, created_at) VALUES (?, ?, ?, ?);`,
		webhookID, string(provider), secret, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("storage: fallback upsert webhook secret: %w", err)
	}
	return nil
}

// DeleteWebhookSecretByID removes the secret row with the given database
// id, returning whether a row actually existed.
func (s *Store) DeleteWebhookSecretByID(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM webhook_secrets WHERE id = ?;`, id)
	if err != nil {
		return false, fmt.Errorf("storage: delete webhook secret by id: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: rows affected: %w", err)
	}
	return n > 0, nil
}

// Counts reports the number of loaded trigger descriptors per provider.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM slack_triggers;").Scan(&c.SlackTriggers); err != nil {
		return Counts{}, fmt.Errorf("storage: count slack triggers: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM jira_triggers;").Scan(&c.JiraTriggers); err != nil {
		return Counts{}, fmt.Errorf("storage: count jira triggers: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM github_triggers;").Scan(&c.GitHubTriggers); err != nil {
		return Counts{}, fmt.Errorf("storage: count github triggers: %w", err)
	}
	return c, nil
}
