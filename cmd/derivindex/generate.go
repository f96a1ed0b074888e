// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/derivindex/internal/combin"
	"github.com/pdiddy/derivindex/internal/lookup"
	"github.com/pdiddy/derivindex/internal/tablestore"
	"github.com/pdiddy/derivindex/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate and store buffer-index lookup tables",
	Long: `Generate builds the lookup table for each selected operator at the
given derivative order and stores it under a fresh run ID. Operators with
an identical stored run are skipped unless --force is set.

The potential operator's component count depends on the atom count, so
--atoms is required when generating potential tables.`,
	Example: `  derivindex generate --operator overlap --order 2
  derivindex generate --operator all --order 1 --atoms 3`,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	opFlag, _ := cmd.Flags().GetString("operator")
	order, _ := cmd.Flags().GetInt("order")
	atoms, _ := cmd.Flags().GetInt("atoms")
	force, _ := cmd.Flags().GetBool("force")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	ops, err := resolveOperators(opFlag)
	if err != nil {
		return err
	}

	if dryRun {
		return printPlan(ops, order, atoms)
	}

	store, err := tablestore.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()

	// Table generation is CPU-bound and independent per operator, so it
	// fans out; saving stays sequential on the single store connection.
	tables := make([]*lookup.Table, len(ops))
	g, gctx := errgroup.WithContext(ctx)
	for i, op := range ops {
		i, op := i, op
		g.Go(func() error {
			if !force {
				existing, err := store.Find(gctx, op, order, metaAtoms(op, atoms))
				if err != nil {
					return err
				}
				if existing != nil {
					return nil
				}
			}
			table, err := lookup.Generate(op, order, atoms)
			if err != nil {
				return err
			}
			tables[i] = table
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var generated, skipped int
	for i, table := range tables {
		if table == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "skipped   %s (stored run exists, use --force to regenerate)\n", ops[i])
			skipped++
			continue
		}
		meta, err := store.Save(ctx, table)
		if err != nil {
			return fmt.Errorf("saving %s table: %w", ops[i], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "generated %s order-%d: %d entries (run %s)\n",
			meta.Operator, meta.DerivOrder, meta.Size, meta.RunID)
		generated++
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\ngenerated: %d, skipped: %d\n", generated, skipped)
	return nil
}

// printPlan reports table dimensions without generating or storing.
func printPlan(ops []types.Operator, order, atoms int) error {
	for _, op := range ops {
		ncomp, err := lookup.ComponentCount(op, atoms)
		if err != nil {
			return err
		}
		size, err := combin.MultisetCoefficient(ncomp, order)
		if err != nil {
			return err
		}
		fmt.Printf("%-10s order %d: %d components, %d entries\n", op, order, ncomp, size)
	}
	return nil
}

// metaAtoms returns the atom count recorded in a table's metadata: only
// the potential operator's layout depends on it.
func metaAtoms(op types.Operator, atoms int) int {
	if op == types.OpPotential {
		return atoms
	}
	return 0
}

func resolveOperators(s string) ([]types.Operator, error) {
	if s == "" || s == "all" {
		return types.Operators, nil
	}
	var ops []types.Operator
	for _, f := range strings.Split(s, ",") {
		op := types.Operator(strings.TrimSpace(f))
		if !op.Valid() {
			return nil, fmt.Errorf("unknown operator %q: use overlap, kinetic, potential, eri, or all", op)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func init() {
	generateCmd.Flags().String("operator", "all", "operator(s) to generate: overlap, kinetic, potential, eri, all, or a comma-separated list")
	generateCmd.Flags().Int("order", 1, "derivative order")
	generateCmd.Flags().Int("atoms", 0, "atom count (required for the potential operator)")
	generateCmd.Flags().Bool("force", false, "regenerate even when an identical run is stored")
	generateCmd.Flags().Bool("dry-run", false, "print table dimensions without generating")

	rootCmd.AddCommand(generateCmd)
}
