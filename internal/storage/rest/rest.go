// Package rest implements storage.TaskStore against a hosted backend's table
// API (PostgREST wire protocol, as served under /rest/v1).
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/AarushM142/Todo-list-with-Authentication/internal/models"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/reqctx"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/storage"
)

// Ensure Store implements storage.TaskStore
var _ storage.TaskStore = (*Store)(nil)

// DefaultTable is the table holding to-do rows.
const DefaultTable = "todos"

// Config holds remote table API settings.
type Config struct {
	// BaseURL is the project endpoint, e.g. https://xyz.supabase.co.
	BaseURL string

	// APIKey is the project access key sent as the apikey header.
	APIKey string

	// Table defaults to DefaultTable.
	Table string

	// HTTPClient is optional; a client with Timeout is built when nil.
	HTTPClient *http.Client

	// Timeout bounds every call. Zero means no timeout.
	Timeout time.Duration
}

// Store is a TaskStore backed by the remote table API.
type Store struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// row is the wire shape of one todos row. created_at is not part of the
// required table contract and is read only when the table has it; its raw
// form depends on the column type, so it is parsed by parseTimestamp.
type row struct {
	ID        int64           `json:"id"`
	Task      string          `json:"task"`
	UserID    string          `json:"user_id"`
	CreatedAt json.RawMessage `json:"created_at,omitempty"`
}

func (r row) toTask() models.Task {
	return models.Task{
		ID:        r.ID,
		OwnerID:   r.UserID,
		Text:      r.Task,
		CreatedAt: parseTimestamp(r.CreatedAt),
	}
}

// timestampLayouts covers timestamptz and zoneless timestamp columns, with
// either the ISO "T" or a space between date and time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
}

// parseTimestamp returns the zero time for missing, null or unparseable
// values. Zoneless values are taken as UTC.
func parseTimestamp(raw json.RawMessage) time.Time {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil || s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// New validates cfg and returns a Store.
func New(cfg Config) (*Store, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("rest store: base URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("rest store: API key is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("rest store: invalid base URL: %w", err)
	}
	table := cfg.Table
	if table == "" {
		table = DefaultTable
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Store{
		endpoint: base.String() + "/rest/v1/" + url.PathEscape(table),
		apiKey:   cfg.APIKey,
		client:   client,
	}, nil
}

// Close is a no-op; the HTTP client holds no exclusive resources.
func (s *Store) Close() error {
	return nil
}

// SelectTasks fetches the owner's rows ordered by id.
func (s *Store) SelectTasks(ctx context.Context, ownerID string) ([]models.Task, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("user_id", "eq."+ownerID)
	q.Set("order", "id.asc")

	var rows []row
	if err := s.do(ctx, http.MethodGet, q, nil, &rows); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]models.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, r.toTask())
	}
	return tasks, nil
}

// InsertTask inserts one row and reads back the server-assigned ID.
func (s *Store) InsertTask(ctx context.Context, task *models.Task) error {
	var rows []row
	body := map[string]string{"task": task.Text, "user_id": task.OwnerID}
	if err := s.do(ctx, http.MethodPost, nil, body, &rows); err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	if len(rows) != 1 {
		return fmt.Errorf("failed to insert task: expected 1 row back, got %d", len(rows))
	}
	created := rows[0].toTask()
	task.ID = created.ID
	task.CreatedAt = created.CreatedAt
	return nil
}

// UpdateTask patches the text of the row matching id and owner.
func (s *Store) UpdateTask(ctx context.Context, ownerID string, taskID int64, text string) (int64, error) {
	var rows []row
	if err := s.do(ctx, http.MethodPatch, ownedRow(ownerID, taskID), map[string]string{"task": text}, &rows); err != nil {
		return 0, fmt.Errorf("failed to update task: %w", err)
	}
	return int64(len(rows)), nil
}

// DeleteTask removes the row matching id and owner.
func (s *Store) DeleteTask(ctx context.Context, ownerID string, taskID int64) (int64, error) {
	var rows []row
	if err := s.do(ctx, http.MethodDelete, ownedRow(ownerID, taskID), nil, &rows); err != nil {
		return 0, fmt.Errorf("failed to delete task: %w", err)
	}
	return int64(len(rows)), nil
}

func ownedRow(ownerID string, taskID int64) url.Values {
	q := url.Values{}
	q.Set("id", "eq."+strconv.FormatInt(taskID, 10))
	q.Set("user_id", "eq."+ownerID)
	return q
}

// do sends one request. Mutations ask for the affected rows back so callers
// can tell "matched nothing" from success.
func (s *Store) do(ctx context.Context, method string, query url.Values, body any, out any) error {
	target := s.endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.bearer(ctx))
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, payload)
	}
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// bearer prefers the signed-in user's token so the backend's row policies
// see the real caller; the project key is the anonymous fallback.
func (s *Store) bearer(ctx context.Context) string {
	if token := reqctx.AccessToken(ctx); token != "" {
		return token
	}
	return s.apiKey
}
