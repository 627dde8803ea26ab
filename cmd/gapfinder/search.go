// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gapfinder/internal/config"
	"github.com/pdiddy/gapfinder/internal/search"
	"github.com/pdiddy/gapfinder/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [topic]",
	Short: "Search CORE for papers without calling the language model",
	Long: `Search the CORE API for papers on a topic and print them as a table or JSON.
Only CORE_API_KEY is required.

Use --save to write the query and results to a YAML file, and --load to print
a previously saved file without searching again. --load --refresh runs the
saved query against CORE.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("topic", "", "research topic")
	searchCmd.Flags().Int("limit", 0, "maximum results (default from config)")
	searchCmd.Flags().Int("offset", 0, "result offset for paging")
	searchCmd.Flags().String("sort", "", "sort order: relevance, views, popularity")
	searchCmd.Flags().Bool("json", false, "print results as JSON")
	searchCmd.Flags().String("save", "", "write the query and results to a YAML file")
	searchCmd.Flags().String("load", "", "print results from a saved query file instead of searching")
	searchCmd.Flags().Bool("refresh", false, "with --load, run the saved query again")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	out := cmd.OutOrStdout()

	var (
		papers []types.PaperRecord
		query  search.Query
		err    error
	)
	if load, _ := cmd.Flags().GetString("load"); load != "" {
		qf, err := search.ReadQueryFile(load)
		if err != nil {
			return err
		}
		if refresh, _ := cmd.Flags().GetBool("refresh"); !refresh {
			return printPapers(out, qf.Results, asJSON)
		}
		if query, err = qf.Query.ToQuery(); err != nil {
			return err
		}
	} else if query, err = searchQueryFromFlags(cmd, args); err != nil {
		return err
	}

	if err := config.Require(cfg.Credentials, true, false); err != nil {
		return err
	}
	searcher, err := newFactory(log).NewSearcher(cfg.CoreAPIKey, cfg.Core)
	if err != nil {
		return err
	}
	papers, err = searcher.Search(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("searching papers: %w", err)
	}
	if save, _ := cmd.Flags().GetString("save"); save != "" {
		if err := search.WriteQueryFile(save, query, papers); err != nil {
			return err
		}
		log.Info().Str("path", save).Int("papers", len(papers)).Msg("saved query results")
	}
	return printPapers(out, papers, asJSON)
}

func printPapers(w io.Writer, papers []types.PaperRecord, asJSON bool) error {
	if asJSON {
		return search.FormatJSON(papers, w)
	}
	search.FormatTable(papers, w)
	return nil
}

func searchQueryFromFlags(cmd *cobra.Command, args []string) (search.Query, error) {
	topic, _ := cmd.Flags().GetString("topic")
	if topic == "" && len(args) > 0 {
		topic = strings.Join(args, " ")
	}
	limit, _ := cmd.Flags().GetInt("limit")
	if limit == 0 {
		limit = cfg.Core.MaxResults
	}
	offset, _ := cmd.Flags().GetInt("offset")
	sort, _ := cmd.Flags().GetString("sort")
	if sort == "" {
		sort = cfg.Core.Sort
	}

	q := search.Query{Topic: topic, Limit: limit, Offset: offset, Sort: sort}
	if err := q.Validate(); err != nil {
		return search.Query{}, err
	}
	return q, nil
}
