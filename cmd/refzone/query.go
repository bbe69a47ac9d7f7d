package main

import (
	"github.com/matsen/refzone/internal/query"
	"github.com/matsen/refzone/internal/record"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query <tei>",
	Short: "Show the search query built for each TEI record",
	Long: `Extract the fields of every TEI record and print the search query that
resolve would send. Records that cannot be resolved are reported with the
reason.

Examples:
  refzone query paper.tei.xml
  refzone query paper.tei.xml --human`,
	Args: cobra.ExactArgs(1),
	Run:  runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

// QueryResponse is one record in the output of query.
type QueryResponse struct {
	Record     string `json:"record"`
	Resolvable bool   `json:"resolvable"`
	Reason     string `json:"reason,omitempty"`
	Query      string `json:"query,omitempty"`
}

func runQuery(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	logger := mustLogger(cfg)
	defer logger.Sync()

	_, doc := mustReadInputs("", args[0])
	resp := recordQueries(record.Load(doc, logger), cfg.Validate.MaxTitleLen, cfg.QueryParams())

	if humanOutput {
		for _, q := range resp {
			if !q.Resolvable {
				outputHuman("%-10s skipped: %s\n", q.Record, q.Reason)
				continue
			}
			outputHuman("%-10s %s\n", q.Record, truncateString(q.Query, QueryMaxLen))
		}
		return
	}
	outputJSON(resp)
}

func recordQueries(recs []record.Record, maxTitleLen int, p query.Params) []QueryResponse {
	out := make([]QueryResponse, 0, len(recs))
	for _, r := range recs {
		q := QueryResponse{Record: r.ID}
		if err := r.Resolvable(maxTitleLen); err != nil {
			q.Reason = err.Error()
		} else {
			q.Resolvable = true
			q.Query = query.Build(r.Derived.Tokens, p)
		}
		out = append(out, q)
	}
	return out
}
