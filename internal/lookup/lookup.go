// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lookup generates buffer-index lookup tables for integral
// derivative buffers. A table maps each unique non-decreasing multi-index
// over an operator's differentiable component slots to the flat offset of
// the corresponding derivative buffer.
package lookup

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/derivindex/internal/combin"
	"github.com/pdiddy/derivindex/pkg/types"
)

// shellComponents is the number of differentiable slots per shell center
// (x, y, z).
const shellComponents = 3

// ComponentCount returns the number of differentiable component slots for
// an operator: 6 for overlap and kinetic (two centers), 12 for eri (four
// centers), and 6 + 3*natoms for potential, whose nuclear attraction term
// is also differentiated with respect to every nuclear coordinate.
func ComponentCount(op types.Operator, natoms int) (int, error) {
	if !op.Valid() {
		return 0, fmt.Errorf("unknown operator %q", op)
	}
	if op == types.OpPotential {
		if natoms <= 0 {
			return 0, fmt.Errorf("operator %s requires a positive atom count, got %d", op, natoms)
		}
		return op.Centers()*shellComponents + natoms*shellComponents, nil
	}
	if natoms < 0 {
		return 0, fmt.Errorf("negative atom count %d", natoms)
	}
	return op.Centers() * shellComponents, nil
}

// Table is a generated buffer-index lookup table. Entries appear in
// generation (lexicographic) order; BufferIndex of entry i is i.
type Table struct {
	Meta    types.TableMeta
	Entries []types.TableEntry

	index map[string]int
}

// Generate builds the lookup table for one operator at the given
// derivative order. It enumerates every unique combination with
// repetition of the component slot indices [0..ncomp) of length order and
// assigns flat buffer indices in generation order. natoms is only
// consulted for the potential operator.
func Generate(op types.Operator, order, natoms int) (*Table, error) {
	ncomp, err := ComponentCount(op, natoms)
	if err != nil {
		return nil, err
	}
	if order < 1 {
		return nil, fmt.Errorf("derivative order %d: must be at least 1", order)
	}

	slots := make([]int, ncomp)
	for i := range slots {
		slots[i] = i
	}

	size, err := combin.MultisetCoefficient(ncomp, order)
	if err != nil {
		return nil, fmt.Errorf("sizing %s order-%d table: %w", op, order, err)
	}

	t := &Table{
		Meta: types.TableMeta{
			Operator:   op,
			DerivOrder: order,
			NumAtoms:   natoms,
			Components: ncomp,
			Size:       int(size),
		},
		Entries: make([]types.TableEntry, 0, size),
		index:   make(map[string]int, size),
	}
	if op != types.OpPotential {
		t.Meta.NumAtoms = 0
	}

	err = combin.Walk(slots, order, ncomp, func(combo []int) error {
		seq := len(t.Entries)
		t.Entries = append(t.Entries, types.TableEntry{BufferIndex: seq, Combo: combo})
		t.index[comboKey(combo)] = seq
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("generating %s order-%d table: %w", op, order, err)
	}
	return t, nil
}

// BufferIndex resolves a component multi-index to its flat buffer offset.
// The combo is normalized (sorted ascending) before lookup, so callers
// may pass slot indices in any order.
func (t *Table) BufferIndex(combo []int) (int, bool) {
	normalized := make([]int, len(combo))
	copy(normalized, combo)
	sort.Ints(normalized)

	idx, ok := t.index[comboKey(normalized)]
	return idx, ok
}

// Rank returns the lexicographic rank of a non-decreasing multi-index
// over the alphabet [0..ncomp), which equals the buffer index Generate
// assigns to it. This answers point queries without materializing or
// loading a table.
func Rank(combo []int, ncomp int) (int, error) {
	if ncomp < 0 {
		return 0, fmt.Errorf("component count %d: %w", ncomp, combin.ErrInvalidArgument)
	}
	lo := 0
	rank := int64(0)
	for i, c := range combo {
		if c < lo || c >= ncomp {
			return 0, fmt.Errorf("multi-index %v: entry %d out of range: %w",
				combo, i, combin.ErrInvalidArgument)
		}
		// Count the combinations whose prefix places a smaller slot
		// at this position.
		remaining := len(combo) - i - 1
		for v := lo; v < c; v++ {
			m, err := combin.MultisetCoefficient(ncomp-v, remaining)
			if err != nil {
				return 0, err
			}
			rank += m
		}
		lo = c
	}
	return int(rank), nil
}

// comboKey encodes a normalized multi-index as a map key.
func comboKey(combo []int) string {
	var b strings.Builder
	for i, c := range combo {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(c))
	}
	return b.String()
}
