// Package pprofserver serves the runtime profiles on a separate listener so they are never exposed through
// the dossier routes.
package pprofserver

import (
	"context"
	"github.com/myrjola/dossier/internal/errors"
	"log/slog"
	"net"
	"net/http"
	"net/http/pprof"
	"time"
)

const shutdownTimeout = 5 * time.Second

func Handle(mux *http.ServeMux) {
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
}

// Launch listens on addr and serves pprof until ctx is done. It returns the address actually listened on,
// which differs from addr when the port is 0.
func Launch(ctx context.Context, addr string, logger *slog.Logger) (string, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", errors.Wrap(err, "pprof listen", slog.String("pprof_addr", addr))
	}
	mux := http.NewServeMux()
	Handle(mux)
	srv := &http.Server{ //nolint:exhaustruct // profiles can take long, so no write timeout.
		Handler:           mux,
		ReadHeaderTimeout: time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.LogAttrs(shutdownCtx, slog.LevelError, "error shutting down pprof server",
				errors.SlogError(errors.Wrap(shutdownErr, "shutdown pprof server")))
		}
	}()
	go func() {
		if serveErr := srv.Serve(listener); !errors.Is(serveErr, http.ErrServerClosed) {
			logger.LogAttrs(ctx, slog.LevelError, "pprof server stopped",
				errors.SlogError(errors.Wrap(serveErr, "serve pprof")))
		}
	}()

	// Logged under its own key so that it is not mistaken for the address of the dossier server.
	logger.LogAttrs(ctx, slog.LevelInfo, "starting pprof server", slog.String("pprof_addr", listener.Addr().String()))
	return listener.Addr().String(), nil
}
