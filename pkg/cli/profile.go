package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/portochat/pkg/knowledge"
	"github.com/urfave/cli/v3"
)

func profileCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "profile",
		Usage: "Print the knowledge base summary used as the system prompt",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, _ = cfg.setupLogger(ctx)

			kb, err := cfg.newKnowledgeBase(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintln(c.Root().Writer, knowledge.Summary(kb))
			return nil
		},
	}
}
