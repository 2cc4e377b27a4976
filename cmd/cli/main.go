package main

import (
	"context"
	"fmt"
	"github.com/joho/godotenv"
	"github.com/myrjola/dossier/cmd/cli/remote"
	"github.com/myrjola/dossier/cmd/cli/replay"
	"github.com/myrjola/dossier/internal/errors"
	"github.com/myrjola/dossier/internal/logging"
	"github.com/spf13/cobra"
	"io"
	"io/fs"
	"log/slog"
	"os"
)

// newRootCmd builds the command tree. Logs go to logOut so that stdout carries only command output.
func newRootCmd(logOut io.Writer, level slog.Level) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dossier-cli",
		Long:          `Command line utilities for the case dossier https://github.com/myrjola/dossier`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	logger := logging.NewLogger(logOut, level)

	rootCmd.AddGroup(replay.Group)
	rootCmd.AddCommand(replay.NewCommand())
	rootCmd.AddGroup(remote.Group)
	rootCmd.AddCommand(remote.Commands(logger)...)
	return rootCmd
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	level := logging.ParseLevel(os.Getenv("DOSSIER_LOG_LEVEL"))
	if err := newRootCmd(os.Stderr, level).ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
