package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/portochat/pkg/service/mcp"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/urfave/cli/v3"
)

func mcpCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, backendFlags(&cfg)...)

	return &cli.Command{
		Name:  "mcp",
		Usage: "Run the profile assistant as an MCP server on stdio",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			// stdout carries the protocol; logs go to stderr
			ctx, _ = cfg.setupLogger(ctx)

			kb, err := cfg.newKnowledgeBase(ctx)
			if err != nil {
				return err
			}
			orchestrator, err := cfg.newOrchestrator(ctx, kb)
			if err != nil {
				return err
			}

			server, err := mcp.NewServer(mcp.NewInput{
				Resolver: orchestrator,
				KB:       kb,
				Version:  Version,
			})
			if err != nil {
				return err
			}

			if err := server.Run(ctx, &mcpsdk.StdioTransport{}); err != nil {
				return goerr.Wrap(err, "mcp server stopped")
			}
			return nil
		},
	}
}
