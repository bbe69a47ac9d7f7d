package main

import (
	"github.com/matsen/refzone/internal/record"
	"github.com/matsen/refzone/internal/zone"
	"github.com/spf13/cobra"
)

var locateCmd = &cobra.Command{
	Use:   "locate <raw> <tei>",
	Short: "Locate the reference zone of a document",
	Long: `Locate the block of raw lines holding the reference list described by
the TEI records.

The raw document may be plain text, PDF, HTML or an office document.

Examples:
  refzone locate paper.pdf paper.tei.xml
  refzone locate paper.txt paper.tei.xml --human`,
	Args: cobra.ExactArgs(2),
	Run:  runLocate,
}

func init() {
	rootCmd.AddCommand(locateCmd)
}

// LocateResponse is the output of locate.
type LocateResponse struct {
	Document string     `json:"document"`
	Lines    int        `json:"lines"`
	Records  int        `json:"records"`
	Found    bool       `json:"found"`
	Zone     *zone.Zone `json:"zone,omitempty"`
}

func runLocate(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	logger := mustLogger(cfg)
	defer logger.Sync()

	lines, doc := mustReadInputs(args[0], args[1])
	recs := record.Load(doc, logger)

	resp := LocateResponse{Document: documentName(args[1]), Lines: len(lines), Records: len(recs)}
	z, err := zone.Locate(lines, record.Texts(recs), cfg.ZoneParams(), logger)
	if err == nil {
		resp.Found = true
		resp.Zone = &z
	}

	if humanOutput {
		if !resp.Found {
			outputHuman("%s: no reference zone (%d lines, %d records)\n", resp.Document, resp.Lines, resp.Records)
			return
		}
		outputHuman("%s: lines %d-%d (%d lines, %d records)\n", resp.Document, z.Start, z.End, z.Len(), resp.Records)
		for i := z.Start; i <= z.End; i++ {
			outputHuman("  %4d  %s\n", i, truncateString(lines[i], LineTextMaxLen))
		}
		return
	}
	outputJSON(resp)
}

