package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/veritas/internal/pipeline"
	"github.com/ppiankov/veritas/internal/session"
)

// sessionCmd represents the interactive session command
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Start an interactive session with a running history",
	Long: `Session keeps one history list across analyses, newest first.

Commands:
  text <words...>     analyze article text
  url <url>           analyze the article at a URL
  media <file>        analyze an image or video
  history             show recent analyses
  tab [article|media] show or switch the current tab
  help                show this help
  quit                leave the session`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, cfg, err := newPipeline(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		sess := p.Presenter().Session()
		fmt.Fprintf(cmd.ErrOrStderr(), "Session %s started. Type 'help' for commands.\n", sess.ID)
		return runSession(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), p, cfg.Output.Format)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}

const sessionHelp = `  text <words...>     analyze article text
  url <url>           analyze the article at a URL
  media <file>        analyze an image or video
  history             show recent analyses
  tab [article|media] show or switch the current tab
  quit                leave the session
`

// runSession reads commands line by line until quit or end of input.
// Analysis failures are reported as notices and never end the session.
func runSession(ctx context.Context, in io.Reader, out io.Writer, p *pipeline.Pipeline, format string) error {
	sess := p.Presenter().Session()
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	prompt := func() { fmt.Fprintf(out, "[%s]> ", sess.Tab()) }
	prompt()

	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}

		command, rest, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		rest = strings.TrimSpace(rest)

		var req *pipeline.Request
		switch strings.ToLower(command) {
		case "":
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprint(out, sessionHelp)
		case "history":
			if err := writeHistory(out, sess.History(), format); err != nil {
				return err
			}
		case "tab":
			switch session.Tab(rest) {
			case "":
			case session.TabArticle, session.TabMedia:
				sess.SetTab(session.Tab(rest))
			default:
				fmt.Fprintf(out, "Unknown tab %q (article or media)\n", rest)
			}
			fmt.Fprintf(out, "Current tab: %s\n", sess.Tab())
		case "text":
			sess.SetTab(session.TabArticle)
			req = &pipeline.Request{Kind: pipeline.InputText, Value: rest}
		case "url":
			sess.SetTab(session.TabArticle)
			req = &pipeline.Request{Kind: pipeline.InputURL, Value: rest}
		case "media":
			sess.SetTab(session.TabMedia)
			req = &pipeline.Request{Kind: pipeline.InputMedia, Value: rest}
		default:
			fmt.Fprintf(out, "Unknown command %q. Type 'help' for commands.\n", command)
		}

		if req != nil {
			rm, err := p.Run(ctx, *req)
			if err != nil {
				fmt.Fprintf(out, "✗ %s\n", noticeError(sess, err))
			} else if err := writeResult(out, rm, format); err != nil {
				return err
			}
		}
		prompt()
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
