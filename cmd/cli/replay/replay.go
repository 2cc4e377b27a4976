package replay

import (
	"encoding/json"
	"fmt"
	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/dossier/internal/engine"
	"github.com/myrjola/dossier/internal/errors"
	"github.com/myrjola/dossier/internal/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var Group = &cobra.Group{
	ID:    "replay",
	Title: "Offline simulation",
}

var ErrNotDeterministic = errors.NewSentinel("replays differ")

// Script is a seed and the actions to apply to the mock case it generates.
type Script struct {
	Seed    int      `json:"seed"    yaml:"seed"`
	Actions []string `json:"actions" yaml:"actions"`
}

// Output is what the replay command prints.
type Output struct {
	Seed    int                 `json:"seed"`
	Initial models.VisibleState `json:"initial"`
	Steps   []engine.Step       `json:"steps"`
}

// LoadScript reads a script from path. Files ending in .json are decoded as JSON, anything else as YAML.
func LoadScript(path string) (Script, error) {
	var (
		err    error
		b      []byte
		script Script
	)
	if b, err = os.ReadFile(path); err != nil {
		return script, errors.Wrap(err, "read script", slog.String("path", path))
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(b, &script)
	} else {
		err = yaml.Unmarshal(b, &script)
	}
	if err != nil {
		return script, errors.Wrap(err, "decode script", slog.String("path", path))
	}
	script.Seed = engine.NormalizeSeed(script.Seed)
	return script, nil
}

// Run replays script. With verify it replays a second time on an independent mock and fails when the two
// runs differ.
func Run(script Script, verify bool) (Output, error) {
	initial, steps := engine.Replay(script.Seed, script.Actions)
	out := Output{Seed: script.Seed, Initial: initial, Steps: steps}
	if !verify {
		return out, nil
	}
	againInitial, againSteps := engine.Replay(script.Seed, script.Actions)
	again := Output{Seed: script.Seed, Initial: againInitial, Steps: againSteps}
	if diff := cmp.Diff(out, again); diff != "" {
		return out, errors.Wrap(ErrNotDeterministic, "verify replay", slog.String("diff", diff))
	}
	return out, nil
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "replay [script]",
		GroupID: Group.ID,
		Short:   "Replay a script against the mock engine",
		Long: `Applies the actions of a YAML or JSON script ({seed, actions}) to a freshly generated mock case
and prints the opening state followed by every step as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				err    error
				script Script
				out    Output
			)
			verify, _ := cmd.Flags().GetBool("verify")
			if script, err = LoadScript(args[0]); err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				seed, _ := cmd.Flags().GetInt("seed")
				script.Seed = engine.NormalizeSeed(seed)
			}
			if out, err = Run(script, verify); err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err = enc.Encode(out); err != nil {
				return errors.Wrap(err, "encode output")
			}
			if verify {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "verified %d steps from seed %d\n", len(out.Steps), out.Seed)
			}
			return nil
		},
	}
	cmd.Flags().Bool("verify", false, "replay twice and fail when the runs differ")
	cmd.Flags().Int("seed", engine.DefaultSeed, "override the seed of the script")
	return cmd
}
