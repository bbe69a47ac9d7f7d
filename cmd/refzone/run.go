package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/matsen/refzone/internal/pipeline"
	"github.com/matsen/refzone/internal/report"
	"github.com/matsen/refzone/internal/storage"
	"github.com/matsen/refzone/internal/tei"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runWorkers  int
	runResults  string
	runXLSX     string
	runMetrics  string
	runEnriched string
)

var runCmd = &cobra.Command{
	Use:   "run <dir>",
	Short: "Resolve every document of a directory",
	Long: `Process every document pair of a directory. A pair is a TEI file named
<name>.tei.xml and a raw document <name>.<ext> (pdf, txt, html, doc, docx,
odt, rtf) next to it.

A document that fails does not stop the run. Results are written as JSONL,
and optionally as an Excel report, a prometheus textfile and enriched TEI
files.

Examples:
  refzone run corpus/ --results results.jsonl
  refzone run corpus/ --workers 8 --xlsx report.xlsx --enriched-dir out/`,
	Args: cobra.ExactArgs(1),
	Run:  runRun,
}

func init() {
	runCmd.Flags().IntVarP(&runWorkers, "workers", "w", 0, "Documents processed in parallel (default from config)")
	runCmd.Flags().StringVar(&runResults, "results", "", "Write record results as JSONL")
	runCmd.Flags().StringVar(&runXLSX, "xlsx", "", "Write an Excel report")
	runCmd.Flags().StringVar(&runMetrics, "metrics", "", "Write metrics in prometheus textfile format")
	runCmd.Flags().StringVar(&runEnriched, "enriched-dir", "", "Write enriched TEI files to this directory")
	rootCmd.AddCommand(runCmd)
}

// RunResponse is the output of run.
type RunResponse struct {
	RunID     string                   `json:"run_id"`
	Documents int                      `json:"documents"`
	Failures  []pipeline.Failure       `json:"failures,omitempty"`
	Orphans   []string                 `json:"orphans,omitempty"`
	Outcomes  map[pipeline.Outcome]int `json:"outcomes"`
}

func runRun(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	applyRunFlags(cfg.Output.Results, &runResults)
	applyRunFlags(cfg.Output.XLSX, &runXLSX)
	applyRunFlags(cfg.Output.Metrics, &runMetrics)
	applyRunFlags(cfg.Output.Enriched, &runEnriched)
	if runWorkers <= 0 {
		runWorkers = cfg.Workers
	}

	logger := mustLogger(cfg)
	defer logger.Sync()

	docs, orphans, err := pipeline.Discover(args[0])
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	for _, o := range orphans {
		logger.Warn("TEI file without raw document", zap.String("file", o))
	}

	res := mustResolution(cfg, logger)
	defer res.Close()

	ctx, cancel := signalContext()
	defer cancel()

	b, err := res.processor.RunBatch(ctx, docs, runWorkers)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	writeRunOutputs(ctx, b, res, logger)

	resp := RunResponse{
		RunID:     b.RunID,
		Documents: len(b.Documents),
		Failures:  b.Failures,
		Orphans:   orphans,
		Outcomes:  b.Counts(),
	}
	if humanOutput {
		outputHuman("run %s: %d documents, %d failed\n", resp.RunID, resp.Documents, len(resp.Failures))
		for _, o := range pipeline.Outcomes {
			outputHuman("  %-9s %d\n", o, resp.Outcomes[o])
		}
		for _, f := range resp.Failures {
			outputHuman("  failed %s: %s\n", f.Document, f.Error)
		}
		return
	}
	outputJSON(resp)
}

// applyRunFlags falls back to the configured path when a flag is unset.
func applyRunFlags(configured string, flag *string) {
	if *flag == "" {
		*flag = configured
	}
}

// writeRunOutputs writes every requested artifact of a run, exits on error.
func writeRunOutputs(ctx context.Context, b *pipeline.Batch, res *resolution, logger *zap.Logger) {
	if runResults != "" {
		if err := storage.WriteAll(runResults, b.Results()); err != nil {
			exitWithError(ExitError, "writing results: %v", err)
		}
	}
	if runXLSX != "" {
		if err := report.WriteXLSX(runXLSX, b); err != nil {
			exitWithError(ExitError, "writing report: %v", err)
		}
	}
	if runMetrics != "" {
		if err := res.metrics.WriteFile(runMetrics); err != nil {
			exitWithError(ExitError, "%v", err)
		}
	}
	if runEnriched != "" {
		if err := os.MkdirAll(runEnriched, 0755); err != nil {
			exitWithError(ExitError, "creating %s: %v", runEnriched, err)
		}
		for _, d := range b.Documents {
			path := filepath.Join(runEnriched, d.Document+pipeline.TEISuffix)
			if err := tei.WriteFile(path, d.TEI); err != nil {
				exitWithError(ExitError, "writing enriched TEI: %v", err)
			}
		}
	}
	if res.cache != nil {
		for _, r := range b.Results() {
			err := res.cache.RecordOutcome(ctx, storage.Outcome{
				RunID:    r.RunID,
				Document: r.Document,
				RecordID: r.RecordID,
				Status:   string(r.Outcome),
				Rule:     string(r.Rule),
				HitID:    r.HitID,
			})
			if err != nil {
				logger.Warn("recording outcome failed", zap.String("record", r.RecordID), zap.Error(err))
			}
		}
	}
}
