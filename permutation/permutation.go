package permutation

import "fmt"

// Permutation is a finite sequence of integers indexed by position. The
// sentinel -1 represents "no position" and is a fixed point under Apply:
// π[-1] = -1. Construction does not by itself assert that the sequence is a
// bijection on [0,n) — it is checked only where it is needed: Invert (used
// on p1) rejects a non-bijection, and the Meeting 3 tally check calls
// IsBijection on each composed d2∘d4∘r chain; the P-table p3 / D-table d3 "selection"
// fields reuse the same type for indexing but are allowed padding with -1
// and are never composed or inverted.
type Permutation struct {
	values []int
}

// New wraps values as a Permutation, copying the slice.
func New(values []int) Permutation {
	cp := make([]int, len(values))
	copy(cp, values)
	return Permutation{values: cp}
}

// Len returns the declared length n of the permutation.
func (p Permutation) Len() int {
	return len(p.values)
}

// Values returns a copy of the underlying integer sequence.
func (p Permutation) Values() []int {
	cp := make([]int, len(p.values))
	copy(cp, p.values)
	return cp
}

// At applies the permutation at position i: π[i]. At(-1) returns -1.
func (p Permutation) At(i int) int {
	if i == -1 {
		return -1
	}
	return p.values[i]
}

// IsBijection reports whether the permutation is a bijection on [0, n) for
// n = p.Len(): every value in [0,n) appears exactly once.
func (p Permutation) IsBijection() bool {
	n := len(p.values)
	seen := make([]bool, n)
	for _, v := range p.values {
		if v < 0 || v >= n || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

// Compose returns π∘σ under the convention (π∘σ)[i] = σ[π[i]]: apply the
// receiver first, then other. Both must have the same length.
func (p Permutation) Compose(other Permutation) (Permutation, error) {
	if p.Len() != other.Len() {
		return Permutation{}, fmt.Errorf("permutation: compose length mismatch: %d vs %d",
			p.Len(), other.Len())
	}
	out := make([]int, p.Len())
	for i, pi := range p.values {
		out[i] = other.At(pi)
	}
	return Permutation{values: out}, nil
}

// Invert returns π⁻¹ such that π⁻¹[π[i]] = i. Only defined for bijections.
func (p Permutation) Invert() (Permutation, error) {
	if !p.IsBijection() {
		return Permutation{}, fmt.Errorf("permutation: cannot invert a non-bijective sequence of length %d",
			p.Len())
	}
	out := make([]int, p.Len())
	for i, v := range p.values {
		out[v] = i
	}
	return Permutation{values: out}, nil
}

// Equal reports element-wise equality.
func (p Permutation) Equal(other Permutation) bool {
	if p.Len() != other.Len() {
		return false
	}
	for i, v := range p.values {
		if other.values[i] != v {
			return false
		}
	}
	return true
}

// PermuteList returns [p.At(e) for e in lst].
func (p Permutation) PermuteList(lst []int) []int {
	out := make([]int, len(lst))
	for i, e := range lst {
		out[i] = p.At(e)
	}
	return out
}

// ComposeLists composes two equal-length lists of permutations element-wise:
// result[i] = a[i].Compose(b[i]).
func ComposeLists(a, b []Permutation) ([]Permutation, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("permutation: compose_lists length mismatch: %d vs %d", len(a), len(b))
	}
	out := make([]Permutation, len(a))
	for i := range a {
		composed, err := a[i].Compose(b[i])
		if err != nil {
			return nil, fmt.Errorf("permutation: compose_lists at index %d: %w", i, err)
		}
		out[i] = composed
	}
	return out, nil
}

// InvertEach inverts every permutation in list, failing on the first one
// that is not a bijection.
func InvertEach(list []Permutation) ([]Permutation, error) {
	out := make([]Permutation, len(list))
	for i, p := range list {
		inv, err := p.Invert()
		if err != nil {
			return nil, fmt.Errorf("permutation: invert_each at index %d: %w", i, err)
		}
		out[i] = inv
	}
	return out, nil
}
