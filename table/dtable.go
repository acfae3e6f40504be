package table

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/scantegrity/verify/commitment"
	"github.com/scantegrity/verify/permutation"
)

// DRow is one row of a decrypt table instance: the commitments cl/cr to the
// left (coded-to-intermediate) and right (intermediate-to-decoded)
// permutations, their salts, references to the corresponding print-table
// row (pid) and result-table row (rid), and (once revealed) the
// permutations themselves.
type DRow struct {
	ID         int
	PID, RID   int
	CL, CR     string
	SL, SR     string
	D2, D3, D4 []int
}

// DTable is one decrypt-table instance within one partition.
type DTable struct {
	ID   int
	Rows map[int]DRow

	permCache map[int][3][]permutation.Permutation
}

// ParseDTable parses a single <instance> element.
func ParseDTable(data []byte) (*DTable, error) {
	var x tableXML
	if err := xml.Unmarshal(data, &x); err != nil {
		return nil, fmt.Errorf("table: parse d table: %w", err)
	}
	return buildDTable(x)
}

func buildDTable(x tableXML) (*DTable, error) {
	t := &DTable{Rows: make(map[int]DRow), permCache: make(map[int][3][]permutation.Permutation)}
	if x.ID != "" {
		if id, err := strconv.Atoi(x.ID); err == nil {
			t.ID = id
		}
	}
	for _, row := range x.Rows {
		id, err := row.requireInt("id")
		if err != nil {
			return nil, err
		}
		dr := DRow{ID: id}
		dr.CL, _ = row.attr("cl")
		dr.CR, _ = row.attr("cr")
		dr.SL, _ = row.attr("sl")
		dr.SR, _ = row.attr("sr")
		if v, ok := row.attr("pid"); ok {
			if dr.PID, err = strconv.Atoi(v); err != nil {
				return nil, fmt.Errorf("table: d table row %d: pid: %w", id, err)
			}
		}
		if v, ok := row.attr("rid"); ok {
			if dr.RID, err = strconv.Atoi(v); err != nil {
				return nil, fmt.Errorf("table: d table row %d: rid: %w", id, err)
			}
		}
		if v, ok := row.attr("d2"); ok {
			if dr.D2, err = parsePermField(v); err != nil {
				return nil, fmt.Errorf("table: d table row %d: %w", id, err)
			}
		}
		if v, ok := row.attr("d3"); ok {
			if dr.D3, err = parsePermField(v); err != nil {
				return nil, fmt.Errorf("table: d table row %d: %w", id, err)
			}
		}
		if v, ok := row.attr("d4"); ok {
			if dr.D4, err = parsePermField(v); err != nil {
				return nil, fmt.Errorf("table: d table row %d: %w", id, err)
			}
		}
		t.Rows[id] = dr
	}
	return t, nil
}

func checkDCommitment(commitmentB64 string, partitionID, instanceID, rowID, externalID int, perm []int, saltKeyB64 string, constant []byte) (bool, error) {
	packed, err := commitment.PackBytes(perm)
	if err != nil {
		return false, fmt.Errorf("table: pack permutation for d row %d: %w", rowID, err)
	}
	message := []byte{byte(partitionID), byte(instanceID)}
	message = append(message, commitment.DecimalASCII(rowID)...)
	message = append(message, commitment.DecimalASCII(externalID)...)
	message = append(message, packed...)
	computed, err := commitment.Commit(message, saltKeyB64, constant)
	if err != nil {
		return false, fmt.Errorf("table: recompute commitment for d row %d: %w", rowID, err)
	}
	return computed == commitmentB64, nil
}

// CheckCl verifies the reveal of cl: the commitment binding this row to its
// print-table counterpart (pid) via the left permutation d2.
func (t *DTable) CheckCl(partitionID, instanceID int, reveal DRow, constant []byte) (bool, error) {
	committed, ok := t.Rows[reveal.ID]
	if !ok {
		return false, fmt.Errorf("table: no committed d table row %d", reveal.ID)
	}
	return checkDCommitment(committed.CL, partitionID, instanceID, committed.ID, reveal.PID, reveal.D2, committed.SL, constant)
}

// CheckCr verifies the reveal of cr: the commitment binding this row to its
// result-table counterpart (rid) via the right permutation d4.
func (t *DTable) CheckCr(partitionID, instanceID int, reveal DRow, constant []byte) (bool, error) {
	committed, ok := t.Rows[reveal.ID]
	if !ok {
		return false, fmt.Errorf("table: no committed d table row %d", reveal.ID)
	}
	return checkDCommitment(committed.CR, partitionID, instanceID, committed.ID, reveal.RID, reveal.D4, committed.SR, constant)
}

// CheckFullRow verifies both cl and cr for a single revealed row.
func (t *DTable) CheckFullRow(partitionID, instanceID int, reveal DRow, constant []byte) (bool, error) {
	okL, err := t.CheckCl(partitionID, instanceID, reveal, constant)
	if err != nil {
		return false, err
	}
	if !okL {
		return false, nil
	}
	return t.CheckCr(partitionID, instanceID, reveal, constant)
}

// PermutationsByRowID splits a row's d2/d3/d4 fields against row, a single
// partition's slot-count row, caching the result by row id. A field absent
// from this row (nil) splits to nil rather than erroring: reveal documents
// carry d2/d4 but not d3, the choices-layer field.
func (t *DTable) PermutationsByRowID(rowID int, row permutation.Row) ([3][]permutation.Permutation, error) {
	if cached, ok := t.permCache[rowID]; ok {
		return cached, nil
	}
	dr, ok := t.Rows[rowID]
	if !ok {
		return [3][]permutation.Permutation{}, fmt.Errorf("table: no d table row %d", rowID)
	}
	d2Split, err := splitRowIfPresent(dr.D2, row)
	if err != nil {
		return [3][]permutation.Permutation{}, fmt.Errorf("table: split d2 for row %d: %w", rowID, err)
	}
	d3Split, err := splitRowIfPresent(dr.D3, row)
	if err != nil {
		return [3][]permutation.Permutation{}, fmt.Errorf("table: split d3 for row %d: %w", rowID, err)
	}
	d4Split, err := splitRowIfPresent(dr.D4, row)
	if err != nil {
		return [3][]permutation.Permutation{}, fmt.Errorf("table: split d4 for row %d: %w", rowID, err)
	}
	result := [3][]permutation.Permutation{d2Split, d3Split, d4Split}
	t.permCache[rowID] = result
	return result, nil
}

// splitRowIfPresent returns nil without error when flat is absent (nil),
// mirroring data.py's get_permutations_by_row_id, which only splits fields
// the row actually carries.
func splitRowIfPresent(flat []int, row permutation.Row) ([]permutation.Permutation, error) {
	if flat == nil {
		return nil, nil
	}
	return permutation.SplitRow(flat, row)
}
