// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/birlabs/partgen/internal/httputil"
	"github.com/birlabs/partgen/internal/logging"
	"github.com/birlabs/partgen/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the web for part information sources",
	Long: `Search queries the configured backends for pages about a part number
or product. Under the default auto engine, Perplexity citations are tried
first with Google Custom Search as the fallback; a strictly selected
engine never falls back.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	engineName, _ := cmd.Flags().GetString("engine")
	engine, err := search.ParseEngine(engineName)
	if err != nil {
		return err
	}

	cfg := pipelineConfig().Search
	if maxResults, _ := cmd.Flags().GetInt("max-results"); maxResults > 0 {
		cfg.MaxResults = maxResults
	}

	client := httputil.NewClient(cfg.Timeout)
	out, err := search.Route(context.Background(), args[0], engine,
		&search.PerplexityBackend{Client: client},
		&search.GoogleBackend{Client: client},
		cfg, logging.Stage("search"))
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(out.Results) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "Engine: %s\n\n", out.Engine)
	for i, r := range out.Results {
		fmt.Fprintf(os.Stdout, "%2d. %s\n    %s\n", i+1, r.Title, r.URL)
		if r.Snippet != "" {
			fmt.Fprintf(os.Stdout, "    %s\n", r.Snippet)
		}
	}
	fmt.Fprintf(os.Stdout, "\n%d results\n", len(out.Results))
	return nil
}

func init() {
	searchCmd.Flags().String("engine", "auto", "search engine: auto, perplexity, or google")
	searchCmd.Flags().Int("max-results", 0, "maximum number of results per backend")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}
