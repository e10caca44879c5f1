package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func askCommand() *cli.Command {
	var (
		cfg        config
		showSource bool
	)

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "source",
			Usage:       "Print which responder produced the answer",
			Destination: &showSource,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, backendFlags(&cfg)...)

	return &cli.Command{
		Name:      "ask",
		Usage:     "Answer a single question and exit",
		ArgsUsage: "<question>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if question == "" {
				return goerr.New("question is required")
			}

			ctx, _ = cfg.setupLogger(ctx)

			kb, err := cfg.newKnowledgeBase(ctx)
			if err != nil {
				return err
			}
			orchestrator, err := cfg.newOrchestrator(ctx, kb)
			if err != nil {
				return err
			}

			reply := orchestrator.Resolve(ctx, question)
			if showSource {
				fmt.Fprintf(c.Root().Writer, "[%s]\n", reply.Source)
			}
			fmt.Fprintln(c.Root().Writer, reply.Text)
			return nil
		},
	}
}
