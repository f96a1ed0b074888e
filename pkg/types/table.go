// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Operator identifies an integral type whose derivative buffers are indexed.
type Operator string

const (
	OpOverlap   Operator = "overlap"
	OpKinetic   Operator = "kinetic"
	OpPotential Operator = "potential"
	OpERI       Operator = "eri"
)

// Operators lists every supported operator in generation order.
var Operators = []Operator{OpOverlap, OpKinetic, OpPotential, OpERI}

// Valid reports whether op names a supported operator.
func (op Operator) Valid() bool {
	switch op {
	case OpOverlap, OpKinetic, OpPotential, OpERI:
		return true
	}
	return false
}

// Centers returns the number of shell centers the operator couples:
// two for one-electron integrals, four for electron repulsion integrals.
func (op Operator) Centers() int {
	if op == OpERI {
		return 4
	}
	return 2
}

// TableMeta describes a stored lookup-table generation run.
type TableMeta struct {
	// RunID is the UUID assigned when the table was saved.
	RunID string `json:"run_id" yaml:"run_id"`

	// Operator is the integral type the table indexes.
	Operator Operator `json:"operator" yaml:"operator"`

	// DerivOrder is the differentiation order (1 = gradient, 2 = hessian, ...).
	DerivOrder int `json:"deriv_order" yaml:"deriv_order"`

	// NumAtoms is the atom count the table was generated for. Only the
	// potential operator's component count depends on it; zero otherwise.
	NumAtoms int `json:"num_atoms" yaml:"num_atoms"`

	// Components is the number of differentiable component slots.
	Components int `json:"components" yaml:"components"`

	// Size is the number of entries, C(Components+DerivOrder-1, DerivOrder).
	Size int `json:"size" yaml:"size"`

	// CreatedAt records when the run was saved.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// TableEntry maps one multi-dimensional derivative index to its flat
// position in the integral derivative buffer.
type TableEntry struct {
	// BufferIndex is the flat buffer offset, assigned in generation order.
	BufferIndex int `json:"buffer_index" yaml:"buffer_index"`

	// Combo is the non-decreasing component multi-index.
	Combo []int `json:"combo" yaml:"combo"`
}
