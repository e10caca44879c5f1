package cli

import (
	"context"
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/m-mizutani/portochat/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Version is reported by the MCP server and --version
var Version = "dev"

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	// Values already present in the environment win over .env
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.Default().Warn("failed to load .env", "error", err)
	}

	cmd := &cli.Command{
		Name:    "portochat",
		Usage:   "Portfolio chat assistant",
		Version: Version,
		Commands: []*cli.Command{
			chatCommand(),
			askCommand(),
			serveCommand(),
			mcpCommand(),
			historyCommand(),
			profileCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		logging.Default().Error("command failed", "error", err)
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
