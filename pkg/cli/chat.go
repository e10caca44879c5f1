package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/portochat/pkg/model"
	"github.com/m-mizutani/portochat/pkg/render"
	"github.com/m-mizutani/portochat/pkg/ui/terminal"
	"github.com/m-mizutani/portochat/pkg/usecase/widget"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
)

const chatHelp = `Commands:
  /open      show the chat panel
  /close     hide the chat panel (answers still arrive)
  /history   print the transcript
  /help      show this help
  exit       quit`

func chatCommand() *cli.Command {
	var (
		cfg       config
		serverURL string
		interval  time.Duration
		instant   bool
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "server",
			Aliases:     []string{"s"},
			Usage:       "Base URL of a running portochat server to ask instead of the configured backend",
			Sources:     cli.EnvVars("PORTOCHAT_SERVER"),
			Destination: &serverURL,
		},
		&cli.DurationFlag{
			Name:        "typing-interval",
			Usage:       "Delay between characters of a streamed answer",
			Value:       render.DefaultInterval,
			Sources:     cli.EnvVars("PORTOCHAT_TYPING_INTERVAL"),
			Destination: &interval,
		},
		&cli.BoolFlag{
			Name:        "instant",
			Usage:       "Show answers at once instead of typing them out",
			Sources:     cli.EnvVars("PORTOCHAT_INSTANT"),
			Destination: &instant,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, backendFlags(&cfg)...)

	return &cli.Command{
		Name:  "chat",
		Usage: "Chat with the portfolio assistant in the terminal",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, _ = cfg.setupLogger(ctx)

			kb, err := cfg.newKnowledgeBase(ctx)
			if err != nil {
				return err
			}

			if serverURL != "" {
				cfg.backend = backendEndpoint
				cfg.endpoint = strings.TrimRight(serverURL, "/") + "/api/chat"
			}
			orchestrator, err := cfg.newOrchestrator(ctx, kb)
			if err != nil {
				return err
			}

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          "> ",
				InterruptPrompt: "^C",
				EOFPrompt:       "exit",
				Stdout:          c.Root().Writer,
			})
			if err != nil {
				return goerr.Wrap(err, "failed to initialize terminal")
			}
			defer rl.Close()

			if !isTerminal(c.Root().Writer) {
				instant = true
			}
			w := rl.Stdout()

			view := terminal.NewView(w, kb.Personal.Nickname+"'s assistant")
			input := terminal.NewInput(rl)
			ctrl := widget.New(widget.NewInput{
				Responder: orchestrator,
				Renderer: render.New(view,
					render.WithInterval(interval),
					render.WithInstant(instant),
				),
				Input:     input,
				Indicator: view.Indicator(),
				Panel:     view,
			})

			ctrl.Open()
			fmt.Fprintf(w, "Hi! Ask me anything about %s. Type /help for commands, 'exit' to quit.\n", kb.Personal.Nickname)

			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) {
					continue
				}
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return goerr.Wrap(err, "failed to read input")
				}

				switch strings.TrimSpace(line) {
				case "exit", "quit":
					return nil
				case "/open":
					ctrl.Open()
					continue
				case "/close":
					ctrl.Close()
					fmt.Fprintln(w, "(chat closed, /open to show it again)")
					continue
				case "/history":
					printTranscript(w, ctrl.Transcript())
					continue
				case "/help":
					fmt.Fprintln(w, chatHelp)
					continue
				}

				input.Set(line)
				ask(ctx, ctrl)
			}

			return nil
		},
	}
}

// ask submits the pending input. Ctrl+C while waiting abandons the question.
func ask(ctx context.Context, ctrl *widget.Controller) {
	qctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	ctrl.Submit(qctx)
}

// isTerminal reports whether w is a terminal. Anything that is not an
// *os.File, such as a buffer or pipe wrapper, is treated as not a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func printTranscript(w io.Writer, entries []model.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No messages yet")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "[%s] %s: %s\n", e.Timestamp.Format("15:04:05"), e.Sender, e.Content)
	}
}
