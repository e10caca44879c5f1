package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/portochat/pkg/server"
	"github.com/m-mizutani/portochat/pkg/service/mcp"
	"github.com/m-mizutani/portochat/pkg/usecase/chat"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"
)

func serveCommand() *cli.Command {
	var (
		cfg   config
		addr  string
		rps   float64
		burst int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Aliases:     []string{"a"},
			Usage:       "Listen address",
			Value:       "127.0.0.1:8080",
			Sources:     cli.EnvVars("PORTOCHAT_ADDR"),
			Destination: &addr,
		},
		&cli.FloatFlag{
			Name:        "rate",
			Usage:       "Chat requests per second allowed across all clients, 0 to disable",
			Value:       5,
			Sources:     cli.EnvVars("PORTOCHAT_RATE"),
			Destination: &rps,
		},
		&cli.IntFlag{
			Name:        "burst",
			Usage:       "Chat request burst size",
			Value:       10,
			Sources:     cli.EnvVars("PORTOCHAT_BURST"),
			Destination: &burst,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, backendFlags(&cfg)...)
	flags = append(flags, repositoryFlags(&cfg)...)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the chat API, profile and MCP endpoint over HTTP",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, logger := cfg.setupLogger(ctx)

			kb, err := cfg.newKnowledgeBase(ctx)
			if err != nil {
				return err
			}
			orchestrator, err := cfg.newOrchestrator(ctx, kb)
			if err != nil {
				return err
			}
			repo, closeRepo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer closeRepo()

			mcpServer, err := mcp.NewServer(mcp.NewInput{
				Resolver: orchestrator,
				KB:       kb,
				Version:  Version,
			})
			if err != nil {
				return err
			}

			var limiter *rate.Limiter
			if rps > 0 {
				limiter = rate.NewLimiter(rate.Limit(rps), int(burst))
			}

			srv := server.New(server.NewInput{
				Resolver:           orchestrator,
				Repo:               repo,
				KB:                 kb,
				Limiter:            limiter,
				DefaultEnvironment: chat.EnvironmentFromOrigin(cfg.origin),
				MCP: mcpsdk.NewStreamableHTTPHandler(func(*http.Request) *mcpsdk.Server {
					return mcpServer
				}, nil),
				Logger: logger,
			})

			httpServer := &http.Server{
				Addr:              addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
				WriteTimeout:      60 * time.Second,
				IdleTimeout:       120 * time.Second,
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("starting server", "addr", addr, "backend", cfg.backend)
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return goerr.Wrap(err, "server stopped", goerr.V("addr", addr))
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shut down server")
			}
			return nil
		},
	}
}
