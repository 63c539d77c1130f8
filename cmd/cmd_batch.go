// Copyright 2025 The MapChat Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mapchat/mapchat/locate"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var batchOptions struct {
	Input       string
	Concurrency int
}

// batchLine is one line of the JSON Lines output.
type batchLine struct {
	Line      int               `json:"line"`
	Input     string            `json:"input"`
	Locations []locate.Location `json:"locations"`
	Error     string            `json:"error,omitempty"`
}

type locator interface {
	Locate(ctx context.Context, text string) (*locate.Result, error)
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run the pipeline for every line of a file",
	Long: `
Each non empty input line is processed as an independent request. Results are
written to stdout as JSON Lines in input order.
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := appConfig.Validate(); err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), appConfig, logger)
		if err != nil {
			return err
		}

		in := cmd.InOrStdin()

		if batchOptions.Input != "" && batchOptions.Input != "-" {
			f, err := os.Open(batchOptions.Input)
			if err != nil {
				return fmt.Errorf("opening input: %w", err)
			}
			defer f.Close()

			in = f
		}

		lines, err := readLines(in)
		if err != nil {
			return err
		}

		var bar *progressbar.ProgressBar
		if isatty.IsTerminal(os.Stderr.Fd()) {
			bar = progressbar.NewOptions(len(lines),
				progressbar.OptionSetDescription("Locating"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}

		return runBatch(cmd.Context(), a.service, lines, cmd.OutOrStdout(), batchOptions.Concurrency, bar, logger)
	},
}

type numberedLine struct {
	n    int
	text string
}

func readLines(r io.Reader) ([]numberedLine, error) {
	var lines []numberedLine

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for n := 1; scanner.Scan(); n++ {
		if text := strings.TrimSpace(scanner.Text()); text != "" {
			lines = append(lines, numberedLine{n: n, text: text})
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	return lines, nil
}

// runBatch locates every line with at most concurrency requests in flight.
// A failed line is reported in its output record and does not stop the batch.
func runBatch(
	ctx context.Context,
	loc locator,
	lines []numberedLine,
	w io.Writer,
	concurrency int,
	bar *progressbar.ProgressBar,
	logger *zap.SugaredLogger,
) error {
	results := make([]batchLine, len(lines))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))

	for i, line := range lines {
		g.Go(func() error {
			out := batchLine{Line: line.n, Input: line.text, Locations: []locate.Location{}}

			res, err := loc.Locate(gctx, line.text)
			if err != nil {
				logger.Warnw("line failed", "line", line.n, "error", err)
				out.Error = err.Error()
			} else {
				out.Locations = res.Locations
			}

			results[i] = out

			if bar != nil {
				_ = bar.Add(1)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for _, r := range results {
		if r.Error != "" {
			failed++
		}

		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}

	logger.Infow("batch complete", "lines", len(lines), "failed", failed)

	return nil
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVar(&batchOptions.Input, "input", "-", "Input file, one text per line (- for stdin)")
	batchCmd.Flags().IntVar(&batchOptions.Concurrency, "concurrency", 2, "Number of lines processed in parallel")
}
