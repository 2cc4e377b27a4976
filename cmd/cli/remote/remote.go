// Package remote holds the commands that talk to an engine through the adapter facade. Without --url they
// run against a mock generated from --seed, so every invocation starts from the opening state.
package remote

import (
	"encoding/json"
	"github.com/myrjola/dossier/internal/ai"
	"github.com/myrjola/dossier/internal/engine"
	"github.com/myrjola/dossier/internal/errors"
	"github.com/myrjola/dossier/internal/intent"
	"github.com/myrjola/dossier/internal/models"
	"github.com/spf13/cobra"
	"log/slog"
	"os"
	"strings"
)

var Group = &cobra.Group{
	ID:    "engine",
	Title: "Engine operations",
}

var ErrUnresolved = errors.NewSentinel("no matching action")

// Commands returns the engine commands. logger receives the adapter's logs.
func Commands(logger *slog.Logger) []*cobra.Command {
	cmds := []*cobra.Command{
		{
			Use:     "state",
			GroupID: Group.ID,
			Short:   "Print the visible state",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				state, err := adapter(cmd, logger).VisibleState(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd, state)
			},
		},
		{
			Use:     "actions",
			GroupID: Group.ID,
			Short:   "Print the available actions",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				actions, err := adapter(cmd, logger).Actions(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd, models.ActionsResponse{Actions: actions})
			},
		},
		{
			Use:     "apply [action_id]",
			GroupID: Group.ID,
			Short:   "Apply an action and print the outcome",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				state, result, err := adapter(cmd, logger).ApplyAction(cmd.Context(), args[0], nil)
				if err != nil {
					return err
				}
				return printJSON(cmd, models.ApplyActionResponse{VisibleState: state, ActionResult: result})
			},
		},
		{
			Use:     "intent [instruction]",
			GroupID: Group.ID,
			Short:   "Resolve a free-text instruction to an action and apply it",
			Long: `Resolves the instruction with the fixed matching rules, falling back to a language model when
OPENAI_API_KEY is set. With --dry-run the resolution is printed and nothing is applied.`,
			Args: cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runIntent(cmd, logger, strings.Join(args, " "))
			},
		},
	}
	cmds[3].Flags().Bool("dry-run", false, "only print the resolved action")
	for _, cmd := range cmds {
		cmd.Flags().String("url", os.Getenv("DOSSIER_ENGINE_URL"), "base URL of a remote engine, mock when empty")
		cmd.Flags().Int("seed", engine.DefaultSeed, "seed of the mock case")
		cmd.Flags().Duration("timeout", engine.DefaultTimeout, "budget of every remote request")
	}
	return cmds
}

type intentOutput struct {
	Instruction string                      `json:"instruction"`
	ActionID    string                      `json:"action_id"`
	Method      intent.Method               `json:"method"`
	Applied     *models.ApplyActionResponse `json:"applied,omitempty"`
}

func runIntent(cmd *cobra.Command, logger *slog.Logger, text string) error {
	var (
		err     error
		actions []models.ActionOption
		chooser intent.Chooser
	)
	ctx := cmd.Context()
	a := adapter(cmd, logger)
	if actions, err = a.Actions(ctx); err != nil {
		return err
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		chooser = ai.NewClient(ai.Config{APIKey: key, BaseURL: os.Getenv("OPENAI_BASE_URL")})
	}
	resolution := intent.NewResolver(chooser, logger).Resolve(ctx, text, actions)
	if !resolution.Resolved() {
		return errors.Wrap(ErrUnresolved, "resolve intent", slog.String("instruction", text))
	}
	out := intentOutput{
		Instruction: text,
		ActionID:    resolution.ActionID,
		Method:      resolution.Method,
		Applied:     nil,
	}
	if dryRun, _ := cmd.Flags().GetBool("dry-run"); !dryRun {
		state, result, applyErr := a.ApplyAction(ctx, resolution.ActionID, nil)
		if applyErr != nil {
			return applyErr
		}
		out.Applied = &models.ApplyActionResponse{VisibleState: state, ActionResult: result}
	}
	return printJSON(cmd, out)
}

func adapter(cmd *cobra.Command, logger *slog.Logger) *engine.Adapter {
	var (
		url, _     = cmd.Flags().GetString("url")
		seed, _    = cmd.Flags().GetInt("seed")
		timeout, _ = cmd.Flags().GetDuration("timeout")
	)
	if timeout <= 0 {
		timeout = engine.DefaultTimeout
	}
	return engine.New(engine.Config{
		UseMock:   url == "",
		EngineURL: url,
		Seed:      engine.NormalizeSeed(seed),
		Timeout:   timeout,
		Client:    nil,
	}, logger)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "encode output")
	}
	return nil
}
