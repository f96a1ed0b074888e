// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package derivvec models derivative vectors and shell sets, and maps
// them to the component slot indices eligible for differentiation.
package derivvec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/derivindex/internal/combin"
	"github.com/pdiddy/derivindex/pkg/types"
)

// coordsPerAtom is the number of cartesian coordinates per center.
const coordsPerAtom = 3

// DerivVec holds the differentiation count for every cartesian coordinate
// of every atom, in atom-major order (x, y, z per atom). The sum of its
// entries is the derivative order.
type DerivVec []int

// Parse reads a derivative vector from a comma-separated list, e.g.
// "0,0,1,0,0,1" for d/dz1 d/dz2 of a two-atom system.
func Parse(s string) (DerivVec, error) {
	fields := strings.Split(s, ",")
	dv := make(DerivVec, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("derivative vector entry %q: %w", f, err)
		}
		if v < 0 {
			return nil, fmt.Errorf("derivative vector entry %d is negative", v)
		}
		dv = append(dv, v)
	}
	if len(dv) == 0 || len(dv)%coordsPerAtom != 0 {
		return nil, fmt.Errorf("derivative vector has %d entries, want a positive multiple of 3", len(dv))
	}
	return dv, nil
}

// Order returns the total derivative order, the sum of all entries.
func (dv DerivVec) Order() int {
	total := 0
	for _, v := range dv {
		total += v
	}
	return total
}

// NumAtoms returns the number of atoms the vector spans.
func (dv DerivVec) NumAtoms() int {
	return len(dv) / coordsPerAtom
}

// ShellSet lists the atom index of each shell center of an integral, two
// centers for one-electron operators and four for eri.
type ShellSet []int

// ParseShells reads a shell set from a comma-separated list of atom
// indices and checks it against the operator's center count.
func ParseShells(s string, op types.Operator) (ShellSet, error) {
	if !op.Valid() {
		return nil, fmt.Errorf("unknown operator %q", op)
	}
	fields := strings.Split(s, ",")
	shells := make(ShellSet, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("shell set entry %q: %w", f, err)
		}
		if v < 0 {
			return nil, fmt.Errorf("shell set atom index %d is negative", v)
		}
		shells = append(shells, v)
	}
	if len(shells) != op.Centers() {
		return nil, fmt.Errorf("operator %s couples %d centers, shell set has %d",
			op, op.Centers(), len(shells))
	}
	return shells, nil
}

// EligibleSlots returns the sorted component slot indices whose (atom,
// coordinate) pair is differentiated by dv. Shell center slots come
// first, three per center; for the potential operator the nuclear slots
// follow, three per atom. The result is the input the combination
// generator runs over when locating derivative buffers.
func EligibleSlots(op types.Operator, shells ShellSet, dv DerivVec) ([]int, error) {
	if !op.Valid() {
		return nil, fmt.Errorf("unknown operator %q", op)
	}
	if len(shells) != op.Centers() {
		return nil, fmt.Errorf("operator %s couples %d centers, shell set has %d",
			op, op.Centers(), len(shells))
	}
	natoms := dv.NumAtoms()
	if natoms == 0 {
		return nil, fmt.Errorf("empty derivative vector")
	}
	for _, atom := range shells {
		if atom < 0 || atom >= natoms {
			return nil, fmt.Errorf("shell atom index %d out of range for %d atoms", atom, natoms)
		}
	}

	// Slot order is the cartesian product of centers and coordinates,
	// center-major, matching the buffer component layout.
	centers := indexRange(len(shells))
	coords := indexRange(coordsPerAtom)

	var slots []int
	for slot, pair := range combin.CartesianProduct(centers, coords) {
		center, coord := pair[0], pair[1]
		if dv[shells[center]*coordsPerAtom+coord] > 0 {
			slots = append(slots, slot)
		}
	}

	if op == types.OpPotential {
		base := len(shells) * coordsPerAtom
		atoms := indexRange(natoms)
		for offset, pair := range combin.CartesianProduct(atoms, coords) {
			atom, coord := pair[0], pair[1]
			if dv[atom*coordsPerAtom+coord] > 0 {
				slots = append(slots, base+offset)
			}
		}
	}

	return slots, nil
}

func indexRange(n int) []int {
	r := make([]int, n)
	for i := range r {
		r[i] = i
	}
	return r
}
