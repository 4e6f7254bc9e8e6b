package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/veritas/internal/pipeline"
	"github.com/ppiankov/veritas/internal/worker"
)

var (
	concurrency  int
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze many inputs from a file in parallel",
	Long: `Batch reads one input per line and analyzes them concurrently:
- lines starting with http:// or https:// are article URLs
- lines starting with media: are image or video paths
- any other line is article text
- blank lines and lines starting with # are skipped

Results are printed in input order and collected into one history.

Example:
  veritas batch inputs.txt
  veritas batch inputs.txt --concurrency 8 --no-delay`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	stderr := cmd.ErrOrStderr()
	stdout := cmd.OutOrStdout()

	p, cfg, err := newPipeline(stderr)
	if err != nil {
		return err
	}
	workers := cfg.Concurrency.Workers
	if concurrency > 0 {
		workers = concurrency
	}

	lines, err := worker.ReadInputsFromFile(file)
	if err != nil {
		return fmt.Errorf("read inputs: %w", err)
	}
	requests := make([]pipeline.Request, len(lines))
	for i, line := range lines {
		requests[i] = pipeline.ParseLine(line)
	}

	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "  Veritas Batch Analysis\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(stderr, "  Inputs:       %d\n", len(requests))
	fmt.Fprintf(stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(stderr, "\n")

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	items := p.RunBatch(ctx, requests, workers)

	successCount := 0
	for i, item := range items {
		if item.Err != nil {
			fmt.Fprintf(stderr, "✗ [%d] %s: %s\n", i+1, item.Request.Kind, item.Notice)
			continue
		}
		successCount++
		if err := writeResult(stdout, item.Render, cfg.Output.Format); err != nil {
			return err
		}
	}

	if err := writeHistory(stdout, p.Presenter().Session().History(), cfg.Output.Format); err != nil {
		return err
	}

	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "  Batch Complete\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "  Total:     %d\n", len(items))
	fmt.Fprintf(stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(stderr, "  Failures:  %d\n", len(items)-successCount)
	fmt.Fprintf(stderr, "\n")

	return nil
}
