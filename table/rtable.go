package table

import (
	"encoding/xml"
	"fmt"
	"strconv"
)

// RRow is one row of a results table: the final, uncommitted permutation
// mapping decoded symbols to candidate positions for tallying.
type RRow struct {
	ID int
	R  []int
}

// RTable is the results table within one partition. Unlike P and D tables
// it carries no commitments: its rows are opened directly at Meeting 3.
type RTable struct {
	ID   int
	Rows map[int]RRow
}

// ParseRTable parses a <results> element.
func ParseRTable(data []byte) (*RTable, error) {
	var x tableXML
	if err := xml.Unmarshal(data, &x); err != nil {
		return nil, fmt.Errorf("table: parse r table: %w", err)
	}
	t := &RTable{Rows: make(map[int]RRow)}
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
		rr := RRow{ID: id}
		if v, ok := row.attr("r"); ok {
			if rr.R, err = parsePermField(v); err != nil {
				return nil, fmt.Errorf("table: r table row %d: %w", id, err)
			}
		}
		t.Rows[id] = rr
	}
	return t, nil
}
