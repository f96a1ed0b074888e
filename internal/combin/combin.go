// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package combin provides the combinatorial primitives behind derivative
// buffer indexing: unique combinations with repetition, multiset
// coefficients, and cartesian products of index sets.
package combin

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is wrapped by all argument validation failures.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrOverflow is returned when a coefficient exceeds the int64 range.
var ErrOverflow = errors.New("coefficient overflows int64")

// validate checks the shared preconditions of Walk and UniqueCombinations.
func validate(inputLen, k, n int) error {
	if k < 0 {
		return fmt.Errorf("combination length %d: %w", k, ErrInvalidArgument)
	}
	if n < 0 {
		return fmt.Errorf("eligible element count %d: %w", n, ErrInvalidArgument)
	}
	if n > inputLen {
		return fmt.Errorf("eligible element count %d exceeds input length %d: %w",
			n, inputLen, ErrInvalidArgument)
	}
	return nil
}

// Walk visits every distinct non-decreasing k-length selection with
// repetition from input[0..n), in depth-first left-to-right order
// (lexicographic when input is sorted). Each visit receives its own copy
// of the combination. A non-nil error from visit stops the traversal and
// is returned as-is.
//
// input must be sorted ascending by the caller: the duplicate pruning
// relies on equal values being adjacent. Unsorted input still terminates
// but may emit value-identical combinations more than once.
func Walk(input []int, k, n int, visit func(combo []int) error) error {
	if err := validate(len(input), k, n); err != nil {
		return err
	}
	out := make([]int, 0, k)
	return walk(input, out, k, 0, n, visit)
}

// walk grows out one element at a time, recursing with the same start
// index so elements may repeat, and backtracks before trying the next
// sibling. Branches that would restart from an equal adjacent value are
// skipped, so value-identical combinations are produced at most once.
func walk(input, out []int, k, i, n int, visit func(combo []int) error) error {
	if len(out) == k {
		combo := make([]int, k)
		copy(combo, out)
		return visit(combo)
	}

	for j := i; j < n; j++ {
		out = append(out, input[j])
		if err := walk(input, out, k, j, n, visit); err != nil {
			return err
		}
		out = out[:len(out)-1]

		// Skip adjacent duplicates so equal-valued branches at this
		// depth are visited once.
		for j < n-1 && input[j] == input[j+1] {
			j++
		}
	}
	return nil
}

// UniqueCombinations returns every distinct non-decreasing k-length
// selection with repetition from input[0..n), in generation order. With
// k == 0 the result is a single empty combination; with n == 0 and k > 0
// it is empty.
func UniqueCombinations(input []int, k, n int) ([][]int, error) {
	var result [][]int
	err := Walk(input, k, n, func(combo []int) error {
		result = append(result, combo)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// MultisetCoefficient returns the number of k-element multisets drawn
// from n distinct values, C(n+k-1, k). This is the size of the result of
// UniqueCombinations over a duplicate-free input of length n.
func MultisetCoefficient(n, k int) (int64, error) {
	if n < 0 {
		return 0, fmt.Errorf("set size %d: %w", n, ErrInvalidArgument)
	}
	if k < 0 {
		return 0, fmt.Errorf("multiset size %d: %w", k, ErrInvalidArgument)
	}
	if k == 0 {
		return 1, nil
	}
	if n == 0 {
		return 0, nil
	}
	return binomial(n+k-1, k)
}

// binomial computes C(n, k) for 0 <= k <= n. The running product after
// step i equals C(n-k+i, i), so every intermediate division is exact.
func binomial(n, k int) (int64, error) {
	if k > n-k {
		k = n - k
	}
	result := int64(1)
	for i := 1; i <= k; i++ {
		f := int64(n - k + i)
		next := result * f
		if next/f != result {
			return 0, fmt.Errorf("C(%d, %d): %w", n, k, ErrOverflow)
		}
		result = next / int64(i)
	}
	return result, nil
}

// CartesianProduct returns every tuple formed by taking one element from
// each set, in row-major order (last set varies fastest). With no sets
// the result is a single empty tuple; an empty set yields no tuples.
func CartesianProduct(sets ...[]int) [][]int {
	size := 1
	for _, s := range sets {
		size *= len(s)
	}
	if size == 0 {
		return nil
	}

	result := make([][]int, 0, size)
	idx := make([]int, len(sets))
	for {
		tuple := make([]int, len(sets))
		for d, s := range sets {
			tuple[d] = s[idx[d]]
		}
		result = append(result, tuple)

		// Advance the odometer, last position fastest.
		d := len(sets) - 1
		for ; d >= 0; d-- {
			idx[d]++
			if idx[d] < len(sets[d]) {
				break
			}
			idx[d] = 0
		}
		if d < 0 {
			return result
		}
	}
}
