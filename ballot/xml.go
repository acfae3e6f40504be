package ballot

import (
	"encoding/xml"
	"fmt"
	"strconv"
)

type symbolXML struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

func (s symbolXML) attr(name string) (string, bool) {
	for _, a := range s.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

type questionXML struct {
	ID      string      `xml:"id,attr"`
	Symbols []symbolXML `xml:"symbol"`
}

type ballotXML struct {
	Attrs     []xml.Attr    `xml:",any,attr"`
	Questions []questionXML `xml:"question"`
}

func (b ballotXML) attr(name string) (string, bool) {
	for _, a := range b.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func buildBallot(x ballotXML) (*Ballot, error) {
	pidStr, ok := x.attr("pid")
	if !ok {
		return nil, fmt.Errorf("ballot: row missing required attribute \"pid\"")
	}
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		return nil, fmt.Errorf("ballot: pid %q: %w", pidStr, err)
	}

	b := &Ballot{PID: pid, Questions: make(map[string]map[int]Symbol)}
	b.WebSerialCommitment, _ = x.attr("webSerialCommitment")
	b.WebSerialSalt, _ = x.attr("webSerialSalt")
	b.WebSerial, _ = x.attr("webSerial")
	b.BarcodeSerialCommitment, _ = x.attr("barcodeSerialCommitment")
	b.BarcodeSerialSalt, _ = x.attr("barcodeSerialSalt")
	if v, ok := x.attr("barcodeSerial"); ok {
		b.BarcodeSerial = &v
	}

	for _, q := range x.Questions {
		symbols := make(map[int]Symbol)
		for _, s := range q.Symbols {
			idStr, ok := s.attr("id")
			if !ok {
				return nil, fmt.Errorf("ballot: pid %d: symbol missing required attribute \"id\"", pid)
			}
			id, err := strconv.Atoi(idStr)
			if err != nil {
				return nil, fmt.Errorf("ballot: pid %d: symbol id %q: %w", pid, idStr, err)
			}
			sym := Symbol{ID: id}
			sym.Commitment, _ = s.attr("c")
			sym.Salt, _ = s.attr("salt")
			sym.Code, _ = s.attr("code")
			symbols[id] = sym
		}
		b.Questions[q.ID] = symbols
	}
	return b, nil
}

// ParseBallot parses a single <ballot> element, committed or opened.
func ParseBallot(data []byte) (*Ballot, error) {
	var x ballotXML
	if err := xml.Unmarshal(data, &x); err != nil {
		return nil, fmt.Errorf("ballot: parse ballot: %w", err)
	}
	return buildBallot(x)
}

type printCommitmentsDocumentXML struct {
	XMLName  xml.Name
	Database struct {
		PrintCommitments struct {
			Ballot []ballotXML `xml:"ballot"`
		} `xml:"printCommitments"`
	} `xml:"database"`
}

// ParseBallotTable parses database/printCommitments/ballot into a map keyed
// by pid, mirroring the print-commitments table loaded alongside the P and
// D tables.
func ParseBallotTable(data []byte) (map[int]*Ballot, error) {
	var doc printCommitmentsDocumentXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("ballot: parse ballot table: %w", err)
	}
	out := make(map[int]*Ballot)
	for _, bx := range doc.Database.PrintCommitments.Ballot {
		b, err := buildBallot(bx)
		if err != nil {
			return nil, err
		}
		out[b.PID] = b
	}
	return out, nil
}
