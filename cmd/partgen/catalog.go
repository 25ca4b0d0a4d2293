// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/birlabs/partgen/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the part catalog (list, show, delete, export)",
	Long: `Catalog manages the local SQLite store of generated part records.
Use subcommands to list stored parts, show or delete one by ID, search
by name, or export the whole catalog.`,
}

// --- list subcommand ---

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored parts, newest first",
	RunE:  runCatalogList,
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	store, err := catalog.NewStore(pipelineConfig().Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	parts, err := store.List(context.Background())
	if err != nil {
		return err
	}
	printPartsTable(parts)
	return nil
}

// --- show subcommand ---

var catalogShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print one stored part as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := catalog.NewStore(pipelineConfig().Catalog)
		if err != nil {
			return err
		}
		defer store.Close()

		stored, err := store.Get(context.Background(), args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stored)
	},
}

// --- delete subcommand ---

var catalogDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete one stored part by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := catalog.NewStore(pipelineConfig().Catalog)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted", args[0])
		return nil
	},
}

// --- search subcommand ---

var catalogSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search stored parts by part number or name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := catalog.NewStore(pipelineConfig().Catalog)
		if err != nil {
			return err
		}
		defer store.Close()

		parts, err := store.SearchByName(context.Background(), args[0])
		if err != nil {
			return err
		}
		printPartsTable(parts)
		return nil
	},
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog as CSV, JSON, or YAML",
	RunE:  runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	store, err := catalog.NewStore(pipelineConfig().Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	ctx := context.Background()
	switch format {
	case "csv":
		return store.ExportCSV(ctx, w)
	case "json":
		return store.ExportJSON(ctx, w)
	case "yaml":
		return store.ExportYAML(ctx, w)
	}
	return fmt.Errorf("format must be csv, json, or yaml")
}

func printPartsTable(parts []catalog.StoredPart) {
	if len(parts) == 0 {
		fmt.Println("No parts stored.")
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "Part Number", "Product Name", "Confidence", "Created"})
	for _, p := range parts {
		tw.AppendRow(table.Row{
			p.ID, p.PartNumber, p.ProductName,
			string(p.SourceConfidence),
			p.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	tw.Render()

	fmt.Printf("\n%d parts\n", len(parts))
}

func init() {
	catalogExportCmd.Flags().String("format", "csv", "export format: csv, json, or yaml")
	catalogExportCmd.Flags().String("output", "", "output file (default: stdout)")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogDeleteCmd)
	catalogCmd.AddCommand(catalogSearchCmd)
	catalogCmd.AddCommand(catalogExportCmd)
	rootCmd.AddCommand(catalogCmd)
}
