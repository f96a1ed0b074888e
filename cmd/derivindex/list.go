// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/derivindex/internal/tablestore"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored lookup-table runs",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	store, err := tablestore.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	metas, err := store.List(cmd.Context())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(metas)
	}

	if len(metas) == 0 {
		fmt.Println("No stored runs.")
		return nil
	}

	fmt.Printf("%-36s  %-10s  %-5s  %-5s  %-10s  %-7s  %s\n",
		"Run", "Operator", "Order", "Atoms", "Components", "Entries", "Created")
	fmt.Println(strings.Repeat("-", 100))
	for _, m := range metas {
		fmt.Printf("%-36s  %-10s  %-5d  %-5d  %-10d  %-7d  %s\n",
			m.RunID, m.Operator, m.DerivOrder, m.NumAtoms,
			m.Components, m.Size, m.CreatedAt.Format(time.RFC3339))
	}
	fmt.Printf("\n%d run(s)\n", len(metas))
	return nil
}

func init() {
	listCmd.Flags().Bool("json", false, "output runs as JSON")

	rootCmd.AddCommand(listCmd)
}
