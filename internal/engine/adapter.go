package engine

import (
	"context"
	"github.com/myrjola/dossier/internal/errors"
	"github.com/myrjola/dossier/internal/models"
	"log/slog"
	"net/http"
	"time"
)

// Mode names the engine implementation selected by an Adapter.
type Mode string

const (
	ModeMock Mode = "mock"
	ModeLive Mode = "live"
)

// Config selects and configures the engine behind an Adapter.
type Config struct {
	UseMock   bool
	EngineURL string
	Seed      int
	Timeout   time.Duration
	Client    *http.Client
}

// Adapter is the uniform contract the presentation layer talks to.
//
// The engine is chosen once in New: the mock when UseMock is set or EngineURL is empty, the live engine otherwise.
type Adapter struct {
	engine    Engine
	mock      *Mock
	snapshots *SnapshotStore
	mode      Mode
	logger    *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Adapter {
	a := &Adapter{
		engine:    nil,
		mock:      nil,
		snapshots: NewSnapshotStore(),
		mode:      ModeMock,
		logger:    logger,
	}
	if cfg.UseMock || cfg.EngineURL == "" {
		a.mock = NewMock(cfg.Seed, logger)
		a.engine = a.mock
	} else {
		a.mode = ModeLive
		a.engine = NewLive(LiveConfig{BaseURL: cfg.EngineURL, Timeout: cfg.Timeout, Client: cfg.Client}, logger)
	}
	logger.LogAttrs(context.Background(), slog.LevelInfo, "engine selected",
		slog.String("mode", string(a.mode)), slog.String("engine_url", cfg.EngineURL))
	return a
}

func (a *Adapter) Mode() Mode {
	return a.mode
}

func (a *Adapter) VisibleState(ctx context.Context) (models.VisibleState, error) {
	state, err := a.engine.VisibleState(ctx)
	if err != nil {
		return state, errors.Wrap(err, "read visible state")
	}
	return state, nil
}

func (a *Adapter) Actions(ctx context.Context) ([]models.ActionOption, error) {
	actions, err := a.engine.Actions(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "read actions")
	}
	return actions, nil
}

func (a *Adapter) ApplyAction(ctx context.Context, actionID string, params map[string]any) (
	models.VisibleState, models.ActionResult, error) {
	state, result, err := a.engine.ApplyAction(ctx, actionID, params)
	if err != nil {
		return state, result, errors.Wrap(err, "apply action", slog.String("action_id", actionID))
	}
	return state, result, nil
}

// SaveSnapshot captures the engine's working state under slot.
func (a *Adapter) SaveSnapshot(ctx context.Context, slot string) error {
	var (
		state models.VisibleState
		err   error
	)
	if !ValidSlot(slot) {
		return errors.Wrap(invalidSlot(slot), "save snapshot", slog.String("slot", slot))
	}
	if state, err = a.engine.Current(ctx); err != nil {
		return errors.Wrap(err, "read current state", slog.String("slot", slot))
	}
	if err = a.snapshots.Save(slot, state); err != nil {
		return errors.Wrap(err, "save snapshot", slog.String("slot", slot))
	}
	a.logger.LogAttrs(ctx, slog.LevelDebug, "snapshot saved", slog.String("slot", slot), slog.Int("turn", state.Turn))
	return nil
}

// LoadSnapshot returns the state saved under slot and makes it the engine's working state.
// Loading a slot that was never saved leaves the working state untouched.
func (a *Adapter) LoadSnapshot(ctx context.Context, slot string) (models.VisibleState, error) {
	state, err := a.snapshots.Load(slot)
	if err != nil {
		return state, errors.Wrap(err, "load snapshot", slog.String("slot", slot))
	}
	a.engine.Replace(state)
	a.logger.LogAttrs(ctx, slog.LevelDebug, "snapshot loaded", slog.String("slot", slot), slog.Int("turn", state.Turn))
	return state, nil
}

// Snapshots lists the default slots and every other saved slot.
func (a *Adapter) Snapshots() []string {
	return a.snapshots.List()
}

// Saved reports whether slot holds a snapshot.
func (a *Adapter) Saved(slot string) bool {
	return a.snapshots.Saved(slot)
}

// Seed returns the mock seed, or zero for the live engine.
func (a *Adapter) Seed() int {
	if a.mock == nil {
		return 0
	}
	return a.mock.Seed()
}

// Reseed regenerates the mock case from seed with o applied. Snapshots are kept.
func (a *Adapter) Reseed(ctx context.Context, seed int, o CaseOverrides) (models.VisibleState, error) {
	if a.mock == nil {
		return models.VisibleState{}, &Error{ //nolint:exhaustruct // error path.
			Kind:    KindUnsupported,
			Status:  0,
			Message: "reseeding requires the mock engine",
			Err:     nil,
		}
	}
	state := a.mock.Reset(seed, o)
	a.logger.LogAttrs(ctx, slog.LevelInfo, "mock reseeded",
		slog.Int("seed", a.mock.Seed()), slog.String("crime_type", state.CrimeType))
	return state, nil
}
