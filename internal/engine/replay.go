package engine

import (
	"context"
	"github.com/myrjola/dossier/internal/models"
	"io"
	"log/slog"
)

// Step is the outcome of one replayed action.
type Step struct {
	ActionID string              `json:"action_id"`
	State    models.VisibleState `json:"state"`
	Result   models.ActionResult `json:"result"`
}

// Replay applies actionIDs in order to a fresh mock generated from seed and returns the opening state
// followed by one Step per action. Equal inputs always produce equal outputs.
func Replay(seed int, actionIDs []string) (models.VisibleState, []Step) {
	mock := NewMock(seed, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()
	initial, _ := mock.VisibleState(ctx)
	steps := make([]Step, 0, len(actionIDs))
	for _, id := range actionIDs {
		state, result, _ := mock.ApplyAction(ctx, id, nil)
		steps = append(steps, Step{ActionID: id, State: state, Result: result})
	}
	return initial, steps
}
