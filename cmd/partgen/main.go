// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the partgen CLI. Subcommands cover
// the pipeline surface: generate a part record, search sources, manage the
// catalog, and serve the HTTP API.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/birlabs/partgen/internal/logging"
	"github.com/birlabs/partgen/internal/secrets"
	"github.com/birlabs/partgen/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// credential resolves a key from the environment first, then from the
// .secrets/ directory.
func credential(envVar, secretKey string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return loadedSecrets[secretKey]
}

// rootCmd is the base command for the partgen CLI.
var rootCmd = &cobra.Command{
	Use:   "partgen",
	Short: "Generate structured part records from public web sources",
	Long: `partgen turns a manufacturer part number into a structured bilingual
part record. It searches the web for sources, fetches and normalizes page
text, summarizes it with a language model under strict anti-hallucination
rules, selects representative product images, and back-fills Thai fields
by translation.

Each pipeline surface is a subcommand: generate, search, catalog, and
serve.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional developer convenience; absence is not an error.
		_ = godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}

		levelName, _ := cmd.Flags().GetString("log-level")
		level, err := zerolog.ParseLevel(levelName)
		if err != nil {
			return fmt.Errorf("invalid log level %q", levelName)
		}
		pretty, _ := cmd.Flags().GetBool("log-pretty")
		logging.Init("partgen", level, pretty)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./partgen.yaml or ~/.config/partgen/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("log-pretty", false, "human-readable console logs instead of JSON")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("partgen")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "partgen"))
		}
	}

	viper.SetEnvPrefix("PARTGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig assembles the full stage configuration from the config
// file, environment, and .secrets/.
func pipelineConfig() types.PipelineConfig {
	var cfg types.PipelineConfig

	timeout := viper.GetDuration("http.timeout")
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	userAgent := viper.GetString("http.user_agent")
	if userAgent == "" {
		userAgent = "partgen/" + version
	}
	http := types.HTTPConfig{Timeout: timeout, UserAgent: userAgent}

	perplexityKey := credential("PERPLEXITY_API_KEY", secrets.KeyPerplexityAPI)
	googleKey := credential("GOOGLE_SEARCH_API_KEY", secrets.KeyGoogleSearchAPI)
	googleEngine := credential("GOOGLE_SEARCH_ENGINE_ID", secrets.KeyGoogleEngineID)

	cfg.Search = types.SearchConfig{
		HTTPConfig:       http,
		MaxResults:       viper.GetInt("search.max_results"),
		PerplexityAPIKey: perplexityKey,
		PerplexityModel:  credential("PERPLEXITY_MODEL", secrets.KeyPerplexityModel),
		GoogleAPIKey:     googleKey,
		GoogleEngineID:   googleEngine,
	}
	cfg.Sources = types.SourceConfig{
		HTTPConfig: http,
		MaxSources: viper.GetInt("sources.max_sources"),
		MinTextLen: viper.GetInt("sources.min_text_len"),
		MaxTextLen: viper.GetInt("sources.max_text_len"),
	}
	cfg.Summarize = types.SummarizeConfig{
		AIConfig: types.AIConfig{
			Model:           credential("PERPLEXITY_MODEL", secrets.KeyPerplexityModel),
			APIKey:          perplexityKey,
			ModelCandidates: viper.GetStringSlice("summarize.model_candidates"),
			MaxTokens:       viper.GetInt("summarize.max_tokens"),
		},
		HTTPConfig:    http,
		SourceTextCap: viper.GetInt("summarize.source_text_cap"),
	}
	cfg.Images = types.ImageConfig{
		HTTPConfig:              http,
		GoogleAPIKey:            googleKey,
		GoogleEngineID:          googleEngine,
		MaxImages:               viper.GetInt("images.max_images"),
		RestrictToSourceDomains: viper.GetBool("images.restrict_to_source_domains"),
	}
	cfg.Catalog = types.CatalogConfig{
		DataDir:    viper.GetString("catalog.data_dir"),
		MaxResults: viper.GetInt("catalog.max_results"),
	}
	if cfg.Catalog.DataDir == "" {
		cfg.Catalog.DataDir = "data"
	}
	cfg.Server = types.ServerConfig{
		Addr: viper.GetString("server.addr"),
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
