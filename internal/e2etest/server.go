package e2etest

import (
	"context"
	"github.com/myrjola/dossier/internal/errors"
	"github.com/myrjola/dossier/internal/logging"
	"io"
	"log/slog"
	"time"
)

// LogAddrKey is the key under which the server logs the address it listens on.
const LogAddrKey = "addr"

// RunFunc starts a server and blocks until ctx is done. It has the signature of the run function of cmd/web.
type RunFunc func(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error

// Server is a server started by StartServer.
type Server struct {
	client *Client
	cancel context.CancelFunc
	done   chan error
}

// StartServer runs the server in the background and returns once its health endpoint answers.
//
// logSink receives the server logs, usually [io.Discard]. lookupEnv has the signature of [os.LookupEnv] and
// should select a dynamic port such as localhost:0. The address is picked up from the first log record
// carrying LogAddrKey.
func StartServer(
	ctx context.Context,
	logSink io.Writer,
	lookupEnv func(string) (string, bool),
	run RunFunc,
) (*Server, error) {
	ctx, cancel := context.WithCancel(ctx)

	addrCh := make(chan string, 1)
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(logSink, &slog.HandlerOptions{
		AddSource: false,
		Level:     slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == LogAddrKey {
				select {
				case addrCh <- a.Value.String():
				default:
				}
			}
			return a
		},
	})))

	done := make(chan error, 1)
	go func() {
		done <- run(ctx, logger, lookupEnv)
	}()

	var addr string
	select {
	case err := <-done:
		cancel()
		if err == nil {
			err = errors.New("server exited before listening")
		}
		return nil, errors.Wrap(err, "run server")
	case <-ctx.Done():
		cancel()
		return nil, errors.Wrap(ctx.Err(), "wait for server address")
	case addr = <-addrCh:
	}

	client, err := NewClient("http://" + addr)
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "new client")
	}
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		cancel()
		return nil, errors.Wrap(err, "wait for ready", slog.String("server_addr", addr))
	}
	return &Server{client: client, cancel: cancel, done: done}, nil
}

// Client returns a client with its own session for the server.
func (s *Server) Client() *Client {
	return s.client
}

// Stop shuts the server down and returns the error the run function returned.
func (s *Server) Stop(timeout time.Duration) error {
	s.cancel()
	select {
	case err := <-s.done:
		return err
	case <-time.After(timeout):
		return errors.New("server did not stop", slog.Duration("timeout", timeout))
	}
}
