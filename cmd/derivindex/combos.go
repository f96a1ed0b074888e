// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/derivindex/internal/combin"
)

var combosCmd = &cobra.Command{
	Use:   "combos [integers...]",
	Short: "Generate unique combinations with repetition",
	Long: `Combos runs the combination generator directly: it sorts the given
integers ascending and emits every distinct non-decreasing selection of
length k, allowing elements to repeat. Duplicate input values produce
each value-identical combination only once.

Use --eligible to restrict selection to the first n sorted elements.`,
	Example: `  derivindex combos 2 5 8 -k 2
  derivindex combos 2 5 8 11 -k 2 --eligible 3 --json`,
	RunE: runCombos,
}

func runCombos(cmd *cobra.Command, args []string) error {
	k, _ := cmd.Flags().GetInt("length")
	n, _ := cmd.Flags().GetInt("eligible")

	input := make([]int, 0, len(args))
	for _, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("argument %q is not an integer", arg)
		}
		input = append(input, v)
	}

	// Duplicate pruning relies on equal values being adjacent.
	sort.Ints(input)

	if n < 0 {
		n = len(input)
	}

	result, err := combin.UniqueCombinations(input, k, n)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(result)
	}

	for _, combo := range result {
		parts := make([]string, len(combo))
		for i, v := range combo {
			parts[i] = strconv.Itoa(v)
		}
		fmt.Println(strings.Join(parts, " "))
	}
	fmt.Fprintf(os.Stderr, "%d combination(s)\n", len(result))
	return nil
}

func init() {
	combosCmd.Flags().IntP("length", "k", 0, "combination length")
	combosCmd.Flags().Int("eligible", -1, "number of sorted elements eligible for selection (-1 = all)")
	combosCmd.Flags().Bool("json", false, "output combinations as JSON")

	rootCmd.AddCommand(combosCmd)
}
