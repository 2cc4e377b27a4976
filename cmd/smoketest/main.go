package main

import (
	"context"
	"github.com/myrjola/dossier/internal/e2etest"
	"github.com/myrjola/dossier/internal/errors"
	"github.com/myrjola/dossier/internal/logging"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// TestDossier reads the dossier page, applies the always available reframe_priority action and checks that
// the turn advanced.
func TestDossier(client *e2etest.Client) error {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	var healthy map[string]string
	status, err := client.GetJSON(ctx, "/api/healthy", &healthy)
	if err != nil {
		return errors.Wrap(err, "get health")
	}
	if status != http.StatusOK || healthy["status"] != "ok" {
		return errors.New("server not healthy", slog.Int("status", status))
	}

	doc, err := client.GetDoc(ctx, "/")
	if err != nil {
		return errors.Wrap(err, "get dossier")
	}
	before, err := strconv.Atoi(strings.TrimSpace(doc.Find(".turn").First().Text()))
	if err != nil {
		return errors.Wrap(err, "read turn")
	}

	if doc, err = client.SubmitForm(ctx, "/", "/actions/reframe_priority", nil); err != nil {
		return errors.Wrap(err, "apply reframe_priority")
	}
	after, err := strconv.Atoi(strings.TrimSpace(doc.Find(".turn").First().Text()))
	if err != nil {
		return errors.Wrap(err, "read turn after action")
	}
	if after != before+1 {
		return errors.New("turn did not advance", slog.Int("before", before), slog.Int("after", after))
	}
	return nil
}

func main() {
	logger := logging.NewLogger(os.Stdout, slog.LevelDebug)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname|url>")
		os.Exit(1)
	}

	var (
		url    = os.Args[1]
		client *e2etest.Client
		err    error
	)
	if !strings.Contains(url, "://") {
		url = "https://" + url
	}
	ctx = logging.WithAttrs(ctx, slog.String("url", url))

	if client, err = e2etest.NewClient(url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestDossier(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing dossier", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	os.Exit(0)
}
