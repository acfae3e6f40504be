package table

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/scantegrity/verify/commitment"
	"github.com/scantegrity/verify/permutation"
)

// PRow is one row of the print table: the commitments c1/c2 to the coded and
// decoded permutations, the salts used to open them, and (once revealed)
// the permutations themselves.
type PRow struct {
	ID         int
	C1, C2     string
	S1, S2     string
	P1, P2, P3 []int
}

// PTable is the print table: one row per printed ballot position, its
// commitments, and (in a reveal document) the opened permutations.
type PTable struct {
	ID   int
	Rows map[int]PRow

	permCache map[int][3][][]permutation.Permutation
}

// ParsePTable parses a <print> element's id and <row> children.
func ParsePTable(data []byte) (*PTable, error) {
	var x tableXML
	if err := xml.Unmarshal(data, &x); err != nil {
		return nil, fmt.Errorf("table: parse p table: %w", err)
	}
	return buildPTable(x)
}

func buildPTable(x tableXML) (*PTable, error) {
	t := &PTable{Rows: make(map[int]PRow), permCache: make(map[int][3][][]permutation.Permutation)}
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
		pr := PRow{ID: id}
		pr.C1, _ = row.attr("c1")
		pr.C2, _ = row.attr("c2")
		pr.S1, _ = row.attr("s1")
		pr.S2, _ = row.attr("s2")
		if v, ok := row.attr("p1"); ok {
			if pr.P1, err = parsePermField(v); err != nil {
				return nil, fmt.Errorf("table: p table row %d: %w", id, err)
			}
		}
		if v, ok := row.attr("p2"); ok {
			if pr.P2, err = parsePermField(v); err != nil {
				return nil, fmt.Errorf("table: p table row %d: %w", id, err)
			}
		}
		if v, ok := row.attr("p3"); ok {
			if pr.P3, err = parsePermField(v); err != nil {
				return nil, fmt.Errorf("table: p table row %d: %w", id, err)
			}
		}
		t.Rows[id] = pr
	}
	return t, nil
}

// ParseChallengePTable parses a document whose print table lives under
// challenges/print, the shape of a meeting's "in" (challenge) document.
func ParseChallengePTable(data []byte) (*PTable, error) {
	var doc struct {
		XMLName    xml.Name
		Challenges struct {
			Print tableXML `xml:"print"`
		} `xml:"challenges"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("table: parse challenge p table: %w", err)
	}
	return buildPTable(doc.Challenges.Print)
}

func checkPermutationCommitment(commitmentB64 string, rowID int, perm []int, saltKeyB64 string, constant []byte) (bool, error) {
	packed, err := commitment.PackBytes(perm)
	if err != nil {
		return false, fmt.Errorf("table: pack permutation for row %d: %w", rowID, err)
	}
	message := append(commitment.DecimalASCII(rowID), packed...)
	computed, err := commitment.Commit(message, saltKeyB64, constant)
	if err != nil {
		return false, fmt.Errorf("table: recompute commitment for row %d: %w", rowID, err)
	}
	return computed == commitmentB64, nil
}

// CheckC1 verifies the reveal of c1: the commitment to the coded
// permutation p1.
func (t *PTable) CheckC1(reveal PRow, constant []byte) (bool, error) {
	committed, ok := t.Rows[reveal.ID]
	if !ok {
		return false, fmt.Errorf("table: no committed p table row %d", reveal.ID)
	}
	return checkPermutationCommitment(committed.C1, reveal.ID, reveal.P1, committed.S1, constant)
}

// CheckC2 verifies the reveal of c2: the commitment to the decoded
// permutation p2.
func (t *PTable) CheckC2(reveal PRow, constant []byte) (bool, error) {
	committed, ok := t.Rows[reveal.ID]
	if !ok {
		return false, fmt.Errorf("table: no committed p table row %d", reveal.ID)
	}
	return checkPermutationCommitment(committed.C2, reveal.ID, reveal.P2, committed.S2, constant)
}

// CheckFullRow verifies both c1 and c2 for a single revealed row.
func (t *PTable) CheckFullRow(reveal PRow, constant []byte) (bool, error) {
	ok1, err := t.CheckC1(reveal, constant)
	if err != nil {
		return false, err
	}
	if !ok1 {
		return false, nil
	}
	return t.CheckC2(reveal, constant)
}

// PermutationsByRowID splits a row's p1/p2/p3 fields against pmap, caching
// the result by row id. The three returned slices index as
// [partition][question]. A field absent from this row (nil) splits to nil
// rather than erroring: p3, the choices layer, is only meaningful against
// PartitionMapChoices and callers checking only p1/p2 pass a row that lacks
// it.
func (t *PTable) PermutationsByRowID(rowID int, pmap permutation.Map) ([3][][]permutation.Permutation, error) {
	if cached, ok := t.permCache[rowID]; ok {
		return cached, nil
	}
	row, ok := t.Rows[rowID]
	if !ok {
		return [3][][]permutation.Permutation{}, fmt.Errorf("table: no p table row %d", rowID)
	}
	p1Split, err := splitIfPresent(row.P1, pmap)
	if err != nil {
		return [3][][]permutation.Permutation{}, fmt.Errorf("table: split p1 for row %d: %w", rowID, err)
	}
	p2Split, err := splitIfPresent(row.P2, pmap)
	if err != nil {
		return [3][][]permutation.Permutation{}, fmt.Errorf("table: split p2 for row %d: %w", rowID, err)
	}
	p3Split, err := splitIfPresent(row.P3, pmap)
	if err != nil {
		return [3][][]permutation.Permutation{}, fmt.Errorf("table: split p3 for row %d: %w", rowID, err)
	}
	result := [3][][]permutation.Permutation{p1Split, p2Split, p3Split}
	t.permCache[rowID] = result
	return result, nil
}

// splitIfPresent returns nil without error when flat is absent (nil),
// mirroring data.py's get_permutations_by_row_id, which only splits fields
// the row actually carries.
func splitIfPresent(flat []int, pmap permutation.Map) ([][]permutation.Permutation, error) {
	if flat == nil {
		return nil, nil
	}
	return permutation.Split(flat, pmap)
}
