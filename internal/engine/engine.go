// Package engine is the boundary between the dossier and the investigation engine.
//
// Two implementations of Engine exist: Mock, a deterministic offline simulation, and Live, which talks to a
// remote engine over HTTP and sanitizes everything it receives. Adapter selects one at startup and layers a
// SnapshotStore on top.
package engine

import (
	"context"
	"github.com/myrjola/dossier/internal/models"
)

// Engine is the contract shared by the mock and live implementations.
//
// Every returned state is an independent copy owned by the caller.
type Engine interface {
	VisibleState(ctx context.Context) (models.VisibleState, error)
	Actions(ctx context.Context) ([]models.ActionOption, error)
	ApplyAction(ctx context.Context, actionID string, params map[string]any) (
		models.VisibleState, models.ActionResult, error)
	// Current returns the retained working state, reading it from the engine if none is retained yet.
	Current(ctx context.Context) (models.VisibleState, error)
	// Replace swaps the retained working state.
	Replace(state models.VisibleState)
}

var (
	_ Engine = (*Mock)(nil)
	_ Engine = (*Live)(nil)
)
