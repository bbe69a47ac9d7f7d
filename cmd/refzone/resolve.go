package main

import (
	"github.com/matsen/refzone/internal/pipeline"
	"github.com/matsen/refzone/internal/tei"
	"github.com/spf13/cobra"
)

var resolveOut string

var resolveCmd = &cobra.Command{
	Use:   "resolve <raw> <tei>",
	Short: "Resolve the TEI records of one document",
	Long: `Link the reference zone of a document and resolve each TEI record
against the configured search backend. Validated hits are added to the
record as <idno> and <ptr> elements.

Examples:
  refzone resolve paper.pdf paper.tei.xml
  refzone resolve paper.pdf paper.tei.xml --out paper.enriched.tei.xml`,
	Args: cobra.ExactArgs(2),
	Run:  runResolve,
}

func init() {
	resolveCmd.Flags().StringVarP(&resolveOut, "out", "o", "", "Write the enriched TEI to this file")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	logger := mustLogger(cfg)
	defer logger.Sync()

	lines, doc := mustReadInputs(args[0], args[1])
	res := mustResolution(cfg, logger)
	defer res.Close()

	ctx, cancel := signalContext()
	defer cancel()

	dr := res.processor.ProcessParsed(ctx, documentName(args[1]), lines, doc)
	if resolveOut != "" {
		if err := tei.WriteFile(resolveOut, dr.TEI); err != nil {
			exitWithError(ExitError, "writing enriched TEI: %v", err)
		}
	}

	if humanOutput {
		printResultsHuman(dr.Results)
		return
	}
	outputJSON(dr)
}

// printResultsHuman prints one line per record result.
func printResultsHuman(results []pipeline.Result) {
	for _, r := range results {
		switch r.Outcome {
		case pipeline.OutcomeResolved:
			outputHuman("%-10s resolved (%s) %s\n", r.RecordID, r.Rule, r.URI)
		case pipeline.OutcomeSkipped, pipeline.OutcomeError:
			outputHuman("%-10s %s: %s\n", r.RecordID, r.Outcome, r.Reason)
		default:
			outputHuman("%-10s %s\n", r.RecordID, r.Outcome)
		}
	}
}
