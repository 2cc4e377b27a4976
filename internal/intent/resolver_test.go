package intent_test

import (
	"context"
	"github.com/myrjola/dossier/internal/errors"
	"github.com/myrjola/dossier/internal/intent"
	"github.com/myrjola/dossier/internal/models"
	"github.com/myrjola/dossier/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"io"
	"testing"
)

var actions = []models.ActionOption{
	{ID: "remove_evidence", Label: "Remove Evidence", Enabled: true, Cost: "1 focus", Desc: "", DisabledReason: ""},
	{ID: "delay_briefing", Label: "Delay Briefing", Enabled: false, Cost: "2 influence", Desc: "",
		DisabledReason: "Public pressure is already critical."},
	{ID: "reframe_priority", Label: "Shift Focus", Enabled: true, Cost: "1 influence", Desc: "", DisabledReason: ""},
	{ID: "seal_archive", Label: "Seal Archive", Enabled: true, Cost: "2 money", Desc: "", DisabledReason: ""},
}

type stubChooser struct {
	answer string
	err    error
	calls  int
	seen   []models.ActionOption
}

func (s *stubChooser) ChooseAction(_ context.Context, _ string, offered []models.ActionOption) (string, error) {
	s.calls++
	s.seen = offered
	return s.answer, s.err
}

func TestResolver_rules(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantID     string
		wantMethod intent.Method
	}{
		{name: "empty", text: "   ", wantID: "", wantMethod: intent.MethodNone},
		{name: "exact id", text: " Seal_Archive ", wantID: "seal_archive", wantMethod: intent.MethodExact},
		{name: "exact id with hyphen", text: "remove-evidence", wantID: "remove_evidence", wantMethod: intent.MethodExact},
		{name: "exact id with spaces", text: "seal archive", wantID: "seal_archive", wantMethod: intent.MethodExact},
		{name: "exact id of disabled action", text: "delay_briefing", wantID: "delay_briefing",
			wantMethod: intent.MethodExact},
		{name: "id words", text: "Please remove that evidence, quietly.", wantID: "remove_evidence",
			wantMethod: intent.MethodKeywords},
		{name: "disabled action is skipped", text: "delay the briefing", wantID: "", wantMethod: intent.MethodNone},
		{name: "label words", text: "shift the focus elsewhere", wantID: "reframe_priority",
			wantMethod: intent.MethodLabel},
		{name: "nothing matches", text: "bribe the clerk", wantID: "", wantMethod: intent.MethodNone},
	}
	resolver := intent.NewResolver(nil, testhelpers.NewLogger(io.Discard))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolver.Resolve(context.Background(), tt.text, actions)
			require.Equal(t, tt.wantID, got.ActionID)
			require.Equal(t, tt.wantMethod, got.Method)
			require.Equal(t, tt.wantID != "", got.Resolved())
		})
	}
}

func TestResolver_chooser(t *testing.T) {
	ctx := context.Background()
	logger := testhelpers.NewLogger(io.Discard)

	chooser := &stubChooser{answer: "Seal_Archive", err: nil, calls: 0, seen: nil}
	got := intent.NewResolver(chooser, logger).Resolve(ctx, "lock it all away", actions)
	require.Equal(t, intent.Resolution{ActionID: "seal_archive", Method: intent.MethodModel}, got)
	require.Len(t, chooser.seen, 3, "only enabled actions are offered")

	for _, answer := range []string{"delay_briefing", "shred_files", "none", ""} {
		chooser = &stubChooser{answer: answer, err: nil, calls: 0, seen: nil}
		got = intent.NewResolver(chooser, logger).Resolve(ctx, "lock it all away", actions)
		require.False(t, got.Resolved(), answer)
	}

	chooser = &stubChooser{answer: "", err: errors.New("quota exceeded"), calls: 0, seen: nil}
	got = intent.NewResolver(chooser, logger).Resolve(ctx, "lock it all away", actions)
	require.False(t, got.Resolved())

	// Rules win before the model is consulted.
	chooser = &stubChooser{answer: "seal_archive", err: nil, calls: 0, seen: nil}
	got = intent.NewResolver(chooser, logger).Resolve(ctx, "remove evidence", actions)
	require.Equal(t, "remove_evidence", got.ActionID)
	require.Zero(t, chooser.calls)
}

func TestNormalize(t *testing.T) {
	require.Equal(t, "remove_evidence now", intent.Normalize("  Remove-Evidence \t NOW "))
	require.Empty(t, intent.Normalize("\n"))
}
