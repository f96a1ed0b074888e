// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/derivindex/internal/tablestore"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a stored lookup table to YAML or JSON",
	Long: `Export writes a stored run's metadata and entries to
<tables-dir>/index/export.yaml or export.json.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	runID, _ := cmd.Flags().GetString("run")
	format, _ := cmd.Flags().GetString("format")

	store, err := tablestore.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(cmd.Context(), runID)
	case "json":
		path, err = store.ExportJSON(cmd.Context(), runID)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Println("Exported to", path)
	return nil
}

func init() {
	exportCmd.Flags().String("run", "", "run ID to export")
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	exportCmd.MarkFlagRequired("run")

	rootCmd.AddCommand(exportCmd)
}
