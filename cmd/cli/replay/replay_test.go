package replay_test

import (
	"bytes"
	"encoding/json"
	"github.com/myrjola/dossier/cmd/cli/replay"
	"github.com/myrjola/dossier/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadScript(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    replay.Script
	}{
		{
			name:    "yaml",
			file:    "script.yaml",
			content: "seed: 42\nactions:\n  - remove_evidence\n  - seal_archive\n",
			want:    replay.Script{Seed: 42, Actions: []string{"remove_evidence", "seal_archive"}},
		},
		{
			name:    "json",
			file:    "script.JSON",
			content: `{"seed": 7, "actions": ["delay_briefing"]}`,
			want:    replay.Script{Seed: 7, Actions: []string{"delay_briefing"}},
		},
		{
			name:    "missing seed defaults",
			file:    "script.yml",
			content: "actions: [reframe_priority]\n",
			want:    replay.Script{Seed: 1, Actions: []string{"reframe_priority"}},
		},
		{
			name:    "negative seed",
			file:    "script.yml",
			content: "seed: -9\n",
			want:    replay.Script{Seed: 9, Actions: nil},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := replay.LoadScript(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := replay.LoadScript(writeFile(t, "broken.json", "{"))
	require.Error(t, err)
	_, err = replay.LoadScript(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestRun(t *testing.T) {
	script := replay.Script{
		Seed:    1,
		Actions: []string{"remove_evidence", "seal_archive", "seal_archive", "unknown"},
	}
	out, err := replay.Run(script, true)
	require.NoError(t, err)

	assert.Equal(t, 3, out.Initial.Turn)
	require.Len(t, out.Steps, 4)
	turns := make([]int, 0, len(out.Steps))
	successes := make([]bool, 0, len(out.Steps))
	for _, step := range out.Steps {
		turns = append(turns, step.State.Turn)
		successes = append(successes, step.Result.Success)
	}
	assert.Equal(t, []int{4, 5, 5, 5}, turns)
	assert.Equal(t, []bool{true, true, false, false}, successes)
	assert.Equal(t, models.EvidenceArchived, out.Steps[1].State.Evidence[0].State)
	assert.Equal(t, "Action not recognized.", out.Steps[3].Result.Summary)
}

func TestCommand(t *testing.T) {
	path := writeFile(t, "script.yaml", "seed: 42\nactions: [delay_briefing, reframe_priority]\n")

	var stdout, stderr bytes.Buffer
	cmd := replay.NewCommand()
	cmd.SetArgs([]string{path, "--verify"})
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	require.NoError(t, cmd.Execute())

	var out replay.Output
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	assert.Equal(t, 42, out.Seed)
	assert.Equal(t, "case_042", out.Initial.CaseID)
	require.Len(t, out.Steps, 2)
	assert.Equal(t, "reframe_priority", out.Steps[1].ActionID)
	assert.Contains(t, stderr.String(), "verified 2 steps from seed 42")

	stdout.Reset()
	cmd = replay.NewCommand()
	cmd.SetArgs([]string{path, "--seed", "7"})
	cmd.SetOut(&stdout)
	require.NoError(t, cmd.Execute())
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	assert.Equal(t, "case_007", out.Initial.CaseID)
}
