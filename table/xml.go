package table

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// rowXML captures a <row> element generically: every attribute the
// authority chooses to put there, without committing to a fixed schema per
// table kind. Each table type picks out the attributes it understands.
type rowXML struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

func (r rowXML) attr(name string) (string, bool) {
	for _, a := range r.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (r rowXML) requireAttr(name string) (string, error) {
	v, ok := r.attr(name)
	if !ok {
		return "", fmt.Errorf("table: row missing required attribute %q", name)
	}
	return v, nil
}

func (r rowXML) requireInt(name string) (int, error) {
	s, err := r.requireAttr(name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("table: attribute %q not an integer: %w", name, err)
	}
	return n, nil
}

// parsePermField splits a space-separated list of integers, the wire format
// for every permutation-valued field (p1, p2, p3, d2, d3, d4, r).
func parsePermField(s string) ([]int, error) {
	fields := strings.Fields(s)
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("table: permutation field element %q: %w", f, err)
		}
		out[i] = n
	}
	return out, nil
}

type tableXML struct {
	ID   string   `xml:"id,attr"`
	Rows []rowXML `xml:"row"`
}
