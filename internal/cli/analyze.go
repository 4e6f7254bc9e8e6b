package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/pipeline"
	"github.com/ppiankov/veritas/internal/present"
	"github.com/ppiankov/veritas/internal/session"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze article text, an article URL, or a media file",
	Long: `Analyze runs a single analysis and prints the result.

Example:
  veritas analyze text "Scientists confirm the moon is made of cheese, sources say today"
  veritas analyze url https://example.com/news/story
  veritas analyze media ./clip.mp4 --endpoint http://localhost:5000/analyze-video
  veritas analyze text --format html --no-delay ...`,
}

var analyzeTextCmd = &cobra.Command{
	Use:   "text <words...>",
	Short: "Analyze pasted article text (at least 10 words)",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd, pipeline.Request{Kind: pipeline.InputText, Value: strings.Join(args, " ")})
	},
}

var analyzeURLCmd = &cobra.Command{
	Use:   "url <url>",
	Short: "Fetch an article and analyze its text",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd, pipeline.Request{Kind: pipeline.InputURL, Value: firstArg(args)})
	},
}

var analyzeMediaCmd = &cobra.Command{
	Use:   "media <file>",
	Short: "Analyze an image (JPEG, PNG, WebP) or video (MP4, MOV)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd, pipeline.Request{Kind: pipeline.InputMedia, Value: firstArg(args)})
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.AddCommand(analyzeTextCmd)
	analyzeCmd.AddCommand(analyzeURLCmd)
	analyzeCmd.AddCommand(analyzeMediaCmd)
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// newPipeline builds the configured pipeline around a fresh session
func newPipeline(stderr io.Writer) (*pipeline.Pipeline, *model.Config, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(stderr, cfg.Output.Verbose)
	presenter := present.New(session.New(), cfg.Thresholds)
	return pipeline.NewPipeline(cfg, presenter, logger), cfg, nil
}

func runAnalyze(cmd *cobra.Command, req pipeline.Request) error {
	p, cfg, err := newPipeline(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.Output.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚙️  Analyzing %s...\n", req.Kind)
	}

	rm, err := p.Run(ctx, req)
	if err != nil {
		return noticeError(p.Presenter().Session(), err)
	}
	return writeResult(cmd.OutOrStdout(), rm, cfg.Output.Format)
}

// noticeError reports the latest session notice in place of the raw error
func noticeError(sess *session.Session, err error) error {
	notices := sess.Notices()
	if len(notices) == 0 {
		return err
	}
	return errors.New(notices[len(notices)-1].Message)
}

func writeResult(w io.Writer, rm *present.RenderModel, format string) error {
	switch format {
	case "html":
		if err := present.RenderHTML(w, rm); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w)
		return err
	case "json":
		return present.RenderJSON(w, rm)
	default:
		return present.RenderText(w, rm)
	}
}

func writeHistory(w io.Writer, history []model.HistoryEntry, format string) error {
	switch format {
	case "html":
		if err := present.RenderHistoryHTML(w, history); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w)
		return err
	case "json":
		return present.RenderHistoryJSON(w, history)
	default:
		return present.RenderHistoryText(w, history)
	}
}
