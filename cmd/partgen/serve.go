// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/birlabs/partgen/internal/catalog"
	"github.com/birlabs/partgen/internal/logging"
	"github.com/birlabs/partgen/internal/pipeline"
	"github.com/birlabs/partgen/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the part generation HTTP API",
	Long: `Serve exposes the pipeline and the catalog over HTTP: generate part
records, list and search stored parts, and export the catalog. The
listen address comes from server.addr in the config file or --addr.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	gen := pipeline.New(ctx, cfg, logging.Stage("pipeline"))
	srv := server.New(store, gen, cfg.Server, logging.Stage("server"))
	return srv.ListenAndServe()
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")

	rootCmd.AddCommand(serveCmd)
}
