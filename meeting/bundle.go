package meeting

import (
	"github.com/scantegrity/verify/artifact"
	"github.com/scantegrity/verify/ballot"
	"github.com/scantegrity/verify/election"
	"github.com/scantegrity/verify/table"
	"github.com/scantegrity/verify/verifyerr"
)

// Bundle is everything Meeting 1 ingests and fingerprints: the election
// specification, the committed print table, the committed decrypt tables
// by partition, and the committed ballots.
type Bundle struct {
	Election   *election.Election
	PTable     *table.PTable
	Partitions table.Partitions
	Ballots    map[int]*ballot.Ballot
}

// LoadMeetingOne reads partitions.xml, ElectionSpec.xml, MeetingOneIn.xml,
// and MeetingOneOut.xml, fingerprinting each, and builds the Bundle the
// later meetings check against.
func LoadMeetingOne(loader *artifact.Loader) (*Bundle, error) {
	partitionsXML, err := loader.Load(artifact.Partitions, "Partitions", true)
	if err != nil {
		return nil, err
	}
	partitionInfo, err := election.ParsePartitionInfo(partitionsXML)
	if err != nil {
		return nil, verifyerr.Structural("partitions.xml: %v", err)
	}

	specXML, err := loader.Load(artifact.ElectionSpec, "Election Spec", true)
	if err != nil {
		return nil, err
	}
	spec, err := election.ParseElectionSpec(specXML, partitionInfo)
	if err != nil {
		return nil, verifyerr.Structural("ElectionSpec.xml: %v", err)
	}

	headerXML, err := loader.Load(artifact.MeetingOneIn, "Meeting One In", true)
	if err != nil {
		return nil, err
	}
	el, err := election.ParseElectionHeader(headerXML, spec)
	if err != nil {
		return nil, verifyerr.Structural("MeetingOneIn.xml: %v", err)
	}

	outXML, err := loader.Load(artifact.MeetingOneOut, "Meeting One Out", true)
	if err != nil {
		return nil, err
	}
	pTable, partitions, err := table.ParseDatabase(outXML)
	if err != nil {
		return nil, verifyerr.Structural("MeetingOneOut.xml: %v", err)
	}
	ballots, err := ballot.ParseBallotTable(outXML)
	if err != nil {
		return nil, verifyerr.Structural("MeetingOneOut.xml: %v", err)
	}

	return &Bundle{
		Election:   el,
		PTable:     pTable,
		Partitions: partitions,
		Ballots:    ballots,
	}, nil
}
