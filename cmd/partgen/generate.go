// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/birlabs/partgen/internal/catalog"
	"github.com/birlabs/partgen/internal/logging"
	"github.com/birlabs/partgen/internal/pipeline"
	"github.com/birlabs/partgen/internal/search"
)

var generateCmd = &cobra.Command{
	Use:   "generate [part-number]",
	Short: "Generate a structured part record for a part number",
	Long: `Generate runs the full pipeline for one part number: search for
sources, fetch and normalize page text, summarize into a structured
record, select images, and back-fill Thai translations.

The record is printed to stdout. Pass --save to also store it in the
part catalog.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	engineName, _ := cmd.Flags().GetString("engine")
	engine, err := search.ParseEngine(engineName)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	if format != "json" && format != "yaml" {
		return fmt.Errorf("format must be json or yaml")
	}

	ctx := context.Background()
	cfg := pipelineConfig()
	gen := pipeline.New(ctx, cfg, logging.Stage("pipeline"))

	rec, err := gen.Generate(ctx, args[0], engine)
	if err != nil {
		return err
	}

	var out any = rec
	if save, _ := cmd.Flags().GetBool("save"); save {
		store, err := catalog.NewStore(cfg.Catalog)
		if err != nil {
			return err
		}
		defer store.Close()

		stored, err := store.Save(ctx, rec)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved as %s\n", stored.ID)
		out = stored
	}

	if format == "yaml" {
		data, err := yaml.Marshal(out)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func init() {
	generateCmd.Flags().String("engine", "auto", "search engine: auto, perplexity, or google")
	generateCmd.Flags().Bool("save", false, "store the generated record in the catalog")
	generateCmd.Flags().String("format", "json", "output format: json or yaml")

	rootCmd.AddCommand(generateCmd)
}
