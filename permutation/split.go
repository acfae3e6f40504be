package permutation

import "fmt"

// Map is a partition map: Map[partitionID] lists, per question in that
// partition in order, the number of integers ("slots") the question
// consumes from a concatenated permutation stream. It is the two-level tree
// described in the data model: a list per partition, a leaf count per
// question.
type Map [][]int

// Row is a single partition's sub-tree of a Map: one slot count per question
// in that partition. D-table fields (d2, d3, d4) are split against a single
// partition's Row rather than the full two-level Map.
type Row []int

// SplitRow performs the depth-first, single-level split of flat against ks:
// the i-th entry of ks consumes the next ks[i] integers into one
// Permutation. It fails if the total does not exactly account for len(flat).
func SplitRow(flat []int, ks Row) ([]Permutation, error) {
	out := make([]Permutation, len(ks))
	idx := 0
	for i, k := range ks {
		if k < 0 {
			return nil, fmt.Errorf("permutation: split: negative slot count %d at index %d", k, i)
		}
		if idx+k > len(flat) {
			return nil, fmt.Errorf("permutation: split: ran out of integers at question %d (need %d, have %d remaining)",
				i, k, len(flat)-idx)
		}
		out[i] = New(flat[idx : idx+k])
		idx += k
	}
	if idx != len(flat) {
		return nil, fmt.Errorf("permutation: split: consumed %d of %d integers", idx, len(flat))
	}
	return out, nil
}

// Split performs the depth-first, two-level split of flat against m: for
// each partition in order, SplitRow consumes that partition's share of flat.
// It fails if the grand total does not exactly account for len(flat).
func Split(flat []int, m Map) ([][]Permutation, error) {
	total := 0
	for _, row := range m {
		for _, k := range row {
			total += k
		}
	}
	if total != len(flat) {
		return nil, fmt.Errorf("permutation: split: map expects %d integers, got %d", total, len(flat))
	}

	out := make([][]Permutation, len(m))
	idx := 0
	for pi, row := range m {
		rowTotal := 0
		for _, k := range row {
			rowTotal += k
		}
		perms, err := SplitRow(flat[idx:idx+rowTotal], Row(row))
		if err != nil {
			return nil, fmt.Errorf("permutation: split: partition %d: %w", pi, err)
		}
		out[pi] = perms
		idx += rowTotal
	}
	return out, nil
}
