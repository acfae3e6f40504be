package table

import (
	"encoding/xml"
	"fmt"
	"strconv"
)

// Partitions maps partition id -> D-table instance id -> that instance's
// decrypt table.
type Partitions map[int]map[int]*DTable

// ResultPartitions maps partition id -> that partition's results table.
type ResultPartitions map[int]*RTable

type partitionXML struct {
	ID      string `xml:"id,attr"`
	Decrypt struct {
		Instance []tableXML `xml:"instance"`
	} `xml:"decrypt"`
	Results tableXML `xml:"results"`
}

type databaseXML struct {
	Print     tableXML       `xml:"print"`
	Partition []partitionXML `xml:"partition"`
}

type databaseDocumentXML struct {
	XMLName  xml.Name
	Database databaseXML `xml:"database"`
}

// ParseDatabase parses a document containing both the print table and the
// per-partition decrypt tables: database/print and database/partition.
func ParseDatabase(data []byte) (*PTable, Partitions, error) {
	var doc databaseDocumentXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("table: parse database: %w", err)
	}
	pTable, err := buildPTable(doc.Database.Print)
	if err != nil {
		return nil, nil, fmt.Errorf("table: parse database print table: %w", err)
	}
	partitions, err := buildPartitions(doc.Database.Partition)
	if err != nil {
		return nil, nil, err
	}
	return pTable, partitions, nil
}

// ParseDTables parses only the per-partition decrypt tables.
func ParseDTables(data []byte) (Partitions, error) {
	var doc databaseDocumentXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("table: parse d tables: %w", err)
	}
	return buildPartitions(doc.Database.Partition)
}

func buildPartitions(partitionEls []partitionXML) (Partitions, error) {
	partitions := make(Partitions)
	for _, p := range partitionEls {
		pid, err := strconv.Atoi(p.ID)
		if err != nil {
			return nil, fmt.Errorf("table: partition id %q: %w", p.ID, err)
		}
		instances := make(map[int]*DTable)
		for _, instanceXML := range p.Decrypt.Instance {
			dTable, err := buildDTable(instanceXML)
			if err != nil {
				return nil, fmt.Errorf("table: partition %d: %w", pid, err)
			}
			instances[dTable.ID] = dTable
		}
		partitions[pid] = instances
	}
	return partitions, nil
}

// ParseRTables parses the per-partition results tables.
func ParseRTables(data []byte) (ResultPartitions, error) {
	var doc databaseDocumentXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("table: parse r tables: %w", err)
	}
	result := make(ResultPartitions)
	for _, p := range doc.Database.Partition {
		pid, err := strconv.Atoi(p.ID)
		if err != nil {
			return nil, fmt.Errorf("table: partition id %q: %w", p.ID, err)
		}
		rTable := &RTable{Rows: make(map[int]RRow)}
		if p.Results.ID != "" {
			if id, err := strconv.Atoi(p.Results.ID); err == nil {
				rTable.ID = id
			}
		}
		for _, row := range p.Results.Rows {
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
			rTable.Rows[id] = rr
		}
		result[pid] = rTable
	}
	return result, nil
}
