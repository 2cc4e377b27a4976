package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/myrjola/dossier/internal/errors"
	"github.com/myrjola/dossier/internal/models"
	"github.com/myrjola/dossier/internal/sanitize"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultTimeout is the budget of every remote request.
	DefaultTimeout = 7 * time.Second

	errorBodyLimit   = 220
	maxResponseBytes = 1 << 20
)

// LiveConfig configures a Live engine.
type LiveConfig struct {
	// BaseURL is the root of the remote engine without the /api prefix.
	BaseURL string
	// Timeout defaults to DefaultTimeout.
	Timeout time.Duration
	// Client defaults to a client without its own timeout; the per-request budget applies instead.
	Client *http.Client
}

// Live talks to a remote engine and sanitizes every response before trusting it.
//
// It performs no retries. The last sanitized state is retained for snapshotting and is only
// replaced by successful calls.
type Live struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	logger  *slog.Logger

	mu       sync.Mutex
	current  models.VisibleState
	retained bool
}

func NewLive(cfg LiveConfig, logger *slog.Logger) *Live {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{} //nolint:exhaustruct // the request context carries the deadline.
	}
	return &Live{
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		timeout:  timeout,
		client:   client,
		logger:   logger,
		mu:       sync.Mutex{},
		current:  models.VisibleState{}, //nolint:exhaustruct // nothing retained yet.
		retained: false,
	}
}

func (l *Live) VisibleState(ctx context.Context) (models.VisibleState, error) {
	var (
		raw any
		err error
	)
	if raw, err = l.do(ctx, http.MethodGet, "/api/visible_state", nil); err != nil {
		return models.VisibleState{}, err //nolint:exhaustruct // error path.
	}
	state := sanitize.VisibleState(raw)
	l.retain(state)
	return state.Clone(), nil
}

func (l *Live) Actions(ctx context.Context) ([]models.ActionOption, error) {
	var (
		raw any
		err error
	)
	if raw, err = l.do(ctx, http.MethodGet, "/api/actions", nil); err != nil {
		return nil, err
	}
	return sanitize.Actions(raw), nil
}

func (l *Live) ApplyAction(ctx context.Context, actionID string, params map[string]any) (
	models.VisibleState, models.ActionResult, error) {
	if params == nil {
		params = map[string]any{}
	}
	var (
		raw any
		err error
	)
	body := models.ApplyActionRequest{ActionID: actionID, Params: params}
	if raw, err = l.do(ctx, http.MethodPost, "/api/apply_action", body); err != nil {
		return models.VisibleState{}, models.ActionResult{}, err //nolint:exhaustruct // error path.
	}
	state, result := sanitize.ApplyActionResponse(raw)
	l.retain(state)
	return state.Clone(), result, nil
}

// Current returns the last sanitized state, fetching it when nothing has been retained yet.
func (l *Live) Current(ctx context.Context) (models.VisibleState, error) {
	l.mu.Lock()
	if l.retained {
		state := l.current.Clone()
		l.mu.Unlock()
		return state, nil
	}
	l.mu.Unlock()
	return l.VisibleState(ctx)
}

// Replace swaps the retained state. The remote engine is not informed.
func (l *Live) Replace(state models.VisibleState) {
	l.retain(state)
}

func (l *Live) retain(state models.VisibleState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = state.Clone()
	l.retained = true
}

// do performs one request within the time budget and decodes the JSON body into untyped values.
// Bodies that are not valid JSON decode to nil and are left for the sanitizer to default.
func (l *Live) do(ctx context.Context, method, path string, body any) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "marshal request body", slog.String("path", path))
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, l.baseURL+path, reader)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Status: 0, Message: "invalid engine request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, l.requestError(ctx, path, err)
	}
	defer resp.Body.Close()

	l.logger.LogAttrs(ctx, slog.LevelDebug, "engine request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if readErr != nil && ctx.Err() != nil {
			return nil, l.requestError(ctx, path, readErr)
		}
		message := sanitize.ClampText(string(text), http.StatusText(resp.StatusCode), errorBodyLimit, false)
		return nil, &Error{Kind: KindTransport, Status: resp.StatusCode, Message: message, Err: nil}
	}

	var raw any
	dec := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes))
	dec.UseNumber()
	if err = dec.Decode(&raw); err != nil {
		if ctx.Err() != nil {
			return nil, l.requestError(ctx, path, err)
		}
		l.logger.LogAttrs(ctx, slog.LevelWarn, "engine response is not JSON",
			slog.String("path", path), errors.SlogError(err))
		return nil, nil
	}
	return raw, nil
}

func (l *Live) requestError(ctx context.Context, path string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &Error{
			Kind:    KindTimeout,
			Status:  0,
			Message: fmt.Sprintf("%s did not answer within %s", path, l.timeout),
			Err:     err,
		}
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return &Error{Kind: KindTransport, Status: 0, Message: fmt.Sprintf("%s request aborted", path), Err: err}
	}
	return &Error{Kind: KindTransport, Status: 0, Message: fmt.Sprintf("%s unreachable", path), Err: err}
}
