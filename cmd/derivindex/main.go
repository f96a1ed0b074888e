// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the derivindex CLI. derivindex
// generates, stores, queries, and exports buffer-index lookup tables for
// integral derivative buffers.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/derivindex/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the derivindex CLI.
var rootCmd = &cobra.Command{
	Use:   "derivindex",
	Short: "Lookup-table tooling for integral derivative buffers",
	Long: `derivindex precomputes the buffer-index lookup tables used to address
integral derivative buffers. Each table maps the unique non-decreasing
multi-indices over an operator's differentiable components to flat buffer
offsets.

Use generate to build and store tables, query to resolve the buffers a
shell set and derivative vector select, combos to run the underlying
combination generator directly, and list/export to inspect stored runs.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./derivindex.yaml or ~/.config/derivindex/config.yaml)")
	rootCmd.PersistentFlags().String("tables-dir", "", "base directory for stored tables (default: tables)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("derivindex")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "derivindex"))
		}
	}

	viper.SetEnvPrefix("DERIVINDEX")
	viper.AutomaticEnv()

	viper.SetDefault("store.tables_dir", "tables")
	viper.SetDefault("store.max_results", 20)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// storeConfig resolves the table store settings from flags and config.
func storeConfig(cmd *cobra.Command) types.StoreConfig {
	tablesDir, _ := cmd.Flags().GetString("tables-dir")
	if tablesDir == "" {
		tablesDir = viper.GetString("store.tables_dir")
	}
	return types.StoreConfig{
		TablesDir:  tablesDir,
		MaxResults: viper.GetInt("store.max_results"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
