package main

import (
	"github.com/matsen/refzone/internal/linker"
	"github.com/matsen/refzone/internal/pipeline"
	"github.com/matsen/refzone/internal/record"
	"github.com/matsen/refzone/internal/zone"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var linkCmd = &cobra.Command{
	Use:   "link <raw> <tei>",
	Short: "Link reference zone lines to TEI records",
	Long: `Locate the reference zone and assign each of its lines to at most one
TEI record. Lines that cannot be attributed confidently stay unassigned.

Examples:
  refzone link paper.pdf paper.tei.xml
  refzone link paper.txt paper.tei.xml --human`,
	Args: cobra.ExactArgs(2),
	Run:  runLink,
}

func init() {
	rootCmd.AddCommand(linkCmd)
}

// LinkedLine is one zone line and the record it was linked to.
type LinkedLine struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Record string `json:"record,omitempty"`
}

// LinkResponse is the output of link.
type LinkResponse struct {
	Document string       `json:"document"`
	Zone     *zone.Zone   `json:"zone,omitempty"`
	Lines    []LinkedLine `json:"lines"`
}

func runLink(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	logger := mustLogger(cfg)
	defer logger.Sync()

	lines, doc := mustReadInputs(args[0], args[1])
	recs := record.Load(doc, logger)
	p := pipeline.NewProcessor(pipeline.Options{
		Zone:   cfg.ZoneParams(),
		Linker: cfg.LinkerParams(),
		Logger: logger,
	})

	resp := LinkResponse{Document: documentName(args[1]), Lines: []LinkedLine{}}
	z, al, err := p.Align(lines, recs)
	if err != nil {
		logger.Info("no reference zone", zap.Error(err))
	} else {
		resp.Zone = &z
		resp.Lines = linkedLines(lines, z, al, recs)
	}

	if humanOutput {
		if resp.Zone == nil {
			outputHuman("%s: no reference zone\n", resp.Document)
			return
		}
		for _, l := range resp.Lines {
			id := l.Record
			if id == "" {
				id = "-"
			}
			outputHuman("%4d  %-10s %s\n", l.Line, id, truncateString(l.Text, LineTextMaxLen))
		}
		return
	}
	outputJSON(resp)
}

// linkedLines pairs every zone line with the id of its record.
func linkedLines(lines []string, z zone.Zone, al linker.Alignment, recs []record.Record) []LinkedLine {
	out := make([]LinkedLine, 0, len(al))
	for i, rec := range al {
		l := LinkedLine{Line: z.Start + i, Text: lines[z.Start+i]}
		if rec != linker.Unassigned && rec < len(recs) {
			l.Record = recs[rec].ID
		}
		out = append(out, l)
	}
	return out
}
