// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package derivvec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/derivindex/pkg/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   DerivVec
		errMsg string
	}{
		{
			name: "two-atom z gradient pair",
			in:   "0,0,1,0,0,1",
			want: DerivVec{0, 0, 1, 0, 0, 1},
		},
		{
			name: "whitespace tolerated",
			in:   " 1, 0, 0 ",
			want: DerivVec{1, 0, 0},
		},
		{
			name:   "negative entry",
			in:     "0,-1,0",
			errMsg: "negative",
		},
		{
			name:   "not a multiple of three",
			in:     "1,0",
			errMsg: "multiple of 3",
		},
		{
			name:   "non-numeric entry",
			in:     "0,z,0",
			errMsg: `entry "z"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDerivVecOrderAndAtoms(t *testing.T) {
	dv := DerivVec{0, 0, 1, 0, 0, 1}
	assert.Equal(t, 2, dv.Order())
	assert.Equal(t, 2, dv.NumAtoms())

	hessian := DerivVec{2, 0, 0, 0, 0, 0, 0, 0, 0}
	assert.Equal(t, 2, hessian.Order())
	assert.Equal(t, 3, hessian.NumAtoms())
}

func TestParseShells(t *testing.T) {
	shells, err := ParseShells("0,1", types.OpOverlap)
	require.NoError(t, err)
	assert.Equal(t, ShellSet{0, 1}, shells)

	shells, err = ParseShells("0,1,0,1", types.OpERI)
	require.NoError(t, err)
	assert.Equal(t, ShellSet{0, 1, 0, 1}, shells)

	_, err = ParseShells("0,1,2", types.OpOverlap)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "couples 2 centers")

	_, err = ParseShells("0,x", types.OpOverlap)
	require.Error(t, err)

	_, err = ParseShells("0,1", types.Operator("nope"))
	require.Error(t, err)
}

func TestEligibleSlots(t *testing.T) {
	tests := []struct {
		name   string
		op     types.Operator
		shells ShellSet
		dv     DerivVec
		want   []int
	}{
		{
			name:   "overlap z gradient on both atoms",
			op:     types.OpOverlap,
			shells: ShellSet{0, 1},
			dv:     DerivVec{0, 0, 1, 0, 0, 1},
			want:   []int{2, 5},
		},
		{
			name:   "both centers on the differentiated atom",
			op:     types.OpKinetic,
			shells: ShellSet{0, 0},
			dv:     DerivVec{1, 0, 0, 0, 0, 0},
			want:   []int{0, 3},
		},
		{
			name:   "potential includes the nuclear slot",
			op:     types.OpPotential,
			shells: ShellSet{0, 1},
			dv:     DerivVec{0, 0, 1, 0, 0, 0},
			want:   []int{2, 8},
		},
		{
			name:   "eri with a repeated center atom",
			op:     types.OpERI,
			shells: ShellSet{0, 1, 0, 1},
			dv:     DerivVec{0, 1, 0, 0, 0, 0},
			want:   []int{1, 7},
		},
		{
			name:   "no slot matches",
			op:     types.OpOverlap,
			shells: ShellSet{0, 0},
			dv:     DerivVec{0, 0, 0, 1, 0, 0},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EligibleSlots(tt.op, tt.shells, tt.dv)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEligibleSlotsErrors(t *testing.T) {
	// Shell atom outside the derivative vector's atom range.
	_, err := EligibleSlots(types.OpOverlap, ShellSet{0, 2}, DerivVec{1, 0, 0, 0, 0, 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")

	// Wrong center count for the operator.
	_, err = EligibleSlots(types.OpERI, ShellSet{0, 1}, DerivVec{1, 0, 0, 0, 0, 0})
	require.Error(t, err)

	_, err = EligibleSlots(types.Operator("nope"), ShellSet{0, 1}, DerivVec{1, 0, 0})
	require.Error(t, err)
}
