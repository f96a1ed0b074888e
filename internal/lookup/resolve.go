// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"fmt"

	"github.com/pdiddy/derivindex/internal/combin"
	"github.com/pdiddy/derivindex/internal/derivvec"
	"github.com/pdiddy/derivindex/pkg/types"
)

// Resolve locates the derivative buffers of one shell set under a
// derivative vector. It gathers the eligible component slots, generates
// every unique combination with repetition of them at the vector's order,
// and ranks each combination into its flat buffer index. Buffer indices
// are computed directly; no stored table is required.
func Resolve(op types.Operator, shells derivvec.ShellSet, dv derivvec.DerivVec) ([]types.TableEntry, error) {
	slots, err := derivvec.EligibleSlots(op, shells, dv)
	if err != nil {
		return nil, err
	}

	ncomp, err := ComponentCount(op, dv.NumAtoms())
	if err != nil {
		return nil, err
	}

	order := dv.Order()
	if order < 1 {
		return nil, fmt.Errorf("derivative vector %v has order 0", dv)
	}

	var entries []types.TableEntry
	err = combin.Walk(slots, order, len(slots), func(combo []int) error {
		idx, err := Rank(combo, ncomp)
		if err != nil {
			return err
		}
		entries = append(entries, types.TableEntry{BufferIndex: idx, Combo: combo})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
