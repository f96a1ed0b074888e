// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/derivindex/internal/derivvec"
	"github.com/pdiddy/derivindex/internal/lookup"
	"github.com/pdiddy/derivindex/internal/tablestore"
	"github.com/pdiddy/derivindex/pkg/types"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Resolve the derivative buffers for a shell set",
	Long: `Query locates the derivative buffers a shell set contributes to under
a derivative vector. It collects the component slots matching the
differentiated coordinates, generates every unique combination with
repetition of them at the vector's order, and resolves each combination
to its flat buffer index.

When a stored run matches the operator and order, indices are read from
the store; otherwise they are computed directly.`,
	Example: `  derivindex query --operator overlap --centers 0,1 --deriv 0,0,1,0,0,1
  derivindex query --operator eri --centers 0,1,0,1 --deriv 0,1,0,0,0,0 --json`,
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	opFlag, _ := cmd.Flags().GetString("operator")
	centersFlag, _ := cmd.Flags().GetString("centers")
	derivFlag, _ := cmd.Flags().GetString("deriv")

	op := types.Operator(opFlag)
	if !op.Valid() {
		return fmt.Errorf("unknown operator %q: use overlap, kinetic, potential, or eri", opFlag)
	}

	dv, err := derivvec.Parse(derivFlag)
	if err != nil {
		return err
	}
	shells, err := derivvec.ParseShells(centersFlag, op)
	if err != nil {
		return err
	}

	entries, err := lookup.Resolve(op, shells, dv)
	if err != nil {
		return err
	}

	// Prefer stored indices when a matching run exists, so queries
	// reflect exactly what was generated.
	runID, err := resolveFromStore(cmd, op, dv, entries)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No derivative buffers match.")
		return nil
	}

	if runID != "" {
		fmt.Fprintf(os.Stderr, "Using stored run %s\n", runID)
	}
	fmt.Printf("%-20s  %s\n", "Multi-index", "Buffer index")
	fmt.Println(strings.Repeat("-", 34))
	for _, e := range entries {
		parts := make([]string, len(e.Combo))
		for i, v := range e.Combo {
			parts[i] = strconv.Itoa(v)
		}
		fmt.Printf("%-20s  %d\n", strings.Join(parts, ","), e.BufferIndex)
	}
	fmt.Printf("\n%d buffer(s)\n", len(entries))
	return nil
}

// resolveFromStore overwrites the computed buffer indices with stored
// ones when a matching run exists. It returns the run ID used, or ""
// when no stored run matches.
func resolveFromStore(cmd *cobra.Command, op types.Operator, dv derivvec.DerivVec, entries []types.TableEntry) (string, error) {
	store, err := tablestore.NewStore(storeConfig(cmd))
	if err != nil {
		return "", err
	}
	defer store.Close()

	ctx := cmd.Context()
	meta, err := store.Find(ctx, op, dv.Order(), metaAtoms(op, dv.NumAtoms()))
	if err != nil {
		return "", err
	}
	if meta == nil {
		return "", nil
	}

	for i := range entries {
		idx, err := store.Resolve(ctx, meta.RunID, entries[i].Combo)
		if err != nil {
			return "", err
		}
		entries[i].BufferIndex = idx
	}
	return meta.RunID, nil
}

func init() {
	queryCmd.Flags().String("operator", "", "operator: overlap, kinetic, potential, or eri")
	queryCmd.Flags().String("centers", "", "comma-separated atom index per shell center")
	queryCmd.Flags().String("deriv", "", "comma-separated derivative vector, three entries per atom")
	queryCmd.Flags().Bool("json", false, "output results as JSON")

	queryCmd.MarkFlagRequired("operator")
	queryCmd.MarkFlagRequired("centers")
	queryCmd.MarkFlagRequired("deriv")

	rootCmd.AddCommand(queryCmd)
}
