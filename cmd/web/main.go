package main

import (
	"context"
	"github.com/alexedwards/scs/v2"
	"github.com/donseba/go-htmx"
	"github.com/joho/godotenv"
	"github.com/myrjola/dossier/internal/ai"
	"github.com/myrjola/dossier/internal/engine"
	"github.com/myrjola/dossier/internal/envstruct"
	"github.com/myrjola/dossier/internal/errors"
	"github.com/myrjola/dossier/internal/intent"
	"github.com/myrjola/dossier/internal/logging"
	"github.com/myrjola/dossier/internal/pprofserver"
	"github.com/myrjola/dossier/internal/scenario"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"
)

type application struct {
	logger         *slog.Logger
	engine         *engine.Adapter
	resolver       *intent.Resolver
	scenarios      *scenario.Store
	sessionManager *scs.SessionManager
	htmx           *htmx.HTMX
	templates      *template.Template
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"DOSSIER_ADDR" envDefault:"localhost:4000"`
	// UseMock selects the offline simulation even when EngineURL is set.
	UseMock bool `env:"DOSSIER_USE_MOCK" envDefault:"true"`
	// EngineURL is the base URL of a remote engine, without the /api prefix.
	EngineURL string `env:"DOSSIER_ENGINE_URL" envDefault:""`
	// Seed generates the mock case.
	Seed int `env:"DOSSIER_SEED" envDefault:"1"`
	// OpenAIAPIKey enables resolving free-text instructions with a language model.
	OpenAIAPIKey string `env:"OPENAI_API_KEY" envDefault:""`
	// OpenAIBaseURL points the language model client at an OpenAI compatible endpoint.
	OpenAIBaseURL string `env:"OPENAI_BASE_URL" envDefault:""`
	// ScenariosFile is a YAML or JSON list of scenarios loaded next to the built-in ones.
	ScenariosFile string `env:"DOSSIER_SCENARIOS" envDefault:""`
	// PprofAddr enables the profiling server on a separate listener, e.g. localhost:6060.
	PprofAddr string `env:"DOSSIER_PPROF_ADDR" envDefault:""`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		err       error
		cfg       config
		templates *template.Template
	)
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	if templates, err = parseTemplates(); err != nil {
		return errors.Wrap(err, "parse templates")
	}

	adapter := engine.New(engine.Config{
		UseMock:   cfg.UseMock,
		EngineURL: cfg.EngineURL,
		Seed:      engine.NormalizeSeed(cfg.Seed),
		Timeout:   engine.DefaultTimeout,
		Client:    nil,
	}, logger)

	scenarios := scenario.NewStore(scenario.Builtin()...)
	if cfg.ScenariosFile != "" {
		var loaded []scenario.Scenario
		if loaded, err = scenario.LoadFile(cfg.ScenariosFile); err != nil {
			return errors.Wrap(err, "load scenarios")
		}
		for _, sc := range loaded {
			if _, err = scenarios.Save(sc); err != nil {
				return errors.Wrap(err, "save scenario", slog.String("scenario", sc.ID))
			}
		}
		logger.LogAttrs(ctx, slog.LevelInfo, "scenarios loaded",
			slog.String("path", cfg.ScenariosFile), slog.Int("count", len(loaded)))
	}

	var chooser intent.Chooser
	if cfg.OpenAIAPIKey != "" {
		chooser = ai.NewClient(ai.Config{APIKey: cfg.OpenAIAPIKey, BaseURL: cfg.OpenAIBaseURL})
	}

	sessionManager := scs.New()
	sessionManager.Lifetime = 12 * time.Hour //nolint:mnd // half a day.
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode

	app := application{
		logger:         logger,
		engine:         adapter,
		resolver:       intent.NewResolver(chooser, logger),
		scenarios:      scenarios,
		sessionManager: sessionManager,
		htmx:           htmx.New(),
		templates:      templates,
	}

	if cfg.PprofAddr != "" {
		if _, err = pprofserver.Launch(ctx, cfg.PprofAddr, logger); err != nil {
			return errors.Wrap(err, "launch pprof server")
		}
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func main() {
	ctx := context.Background()
	// A missing .env file is fine, the environment may be configured some other way.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Default().LogAttrs(ctx, slog.LevelError, "failure loading .env", errors.SlogError(err))
		os.Exit(1)
	}
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   true,
		Level:       logging.ParseLevel(envOrDefault("DOSSIER_LOG_LEVEL", "debug")),
		ReplaceAttr: nil,
	})))
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}

func envOrDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
