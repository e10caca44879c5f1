package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func historyCommand() *cli.Command {
	var (
		cfg   config
		limit int64
	)

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"l"},
			Usage:       "Maximum number of interactions to display",
			Value:       20,
			Sources:     cli.EnvVars("PORTOCHAT_HISTORY_LIMIT"),
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, repositoryFlags(&cfg)...)

	return &cli.Command{
		Name:  "history",
		Usage: "List recently archived interactions, newest first",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if cfg.project == "" {
				return goerr.New("project is required to read the Firestore archive")
			}
			ctx, _ = cfg.setupLogger(ctx)

			repo, closeRepo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer closeRepo()

			interactions, err := repo.ListInteractions(ctx, int(limit))
			if err != nil {
				return goerr.Wrap(err, "failed to list interactions")
			}

			if len(interactions) == 0 {
				fmt.Fprintln(c.Root().Writer, "No interactions found")
				return nil
			}

			for _, i := range interactions {
				fmt.Fprintf(c.Root().Writer, "%s\t%s\t%s\t%q\n",
					i.CreatedAt.Format("2006-01-02 15:04:05"),
					i.SessionID,
					i.Source,
					i.Question,
				)
			}

			return nil
		},
	}
}
