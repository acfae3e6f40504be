package meeting

import (
	"context"
	"sort"

	"github.com/scantegrity/verify/artifact"
	"github.com/scantegrity/verify/permutation"
	"github.com/scantegrity/verify/table"
	"github.com/scantegrity/verify/verifyerr"
)

// TallyPosition names one fully-decoded slot: the partition and D-table
// instance the ballot row belongs to, and the composed coded-to-tally
// permutation for one question.
type TallyPosition struct {
	PartitionID    int
	DTableInstance int
	RowID          int
	QuestionIndex  int
	Composed       permutation.Permutation
}

// MeetingThreeResult summarizes a successful Meeting 3 verification: how
// many rows were opened (checked to be disjoint from Meeting 2's challenge)
// and the reconstructed coded-to-tally permutation chain for each revealed
// D-table row.
type MeetingThreeResult struct {
	ElectionID string
	RowCount   int
	Tally      []TallyPosition
}

// VerifyMeetingThree reads Meeting 3's reveal and result-table documents,
// checks that its opened rows are disjoint from Meeting 2's challenge,
// verifies the P and D table reveals the same way Meeting 2 does, and
// composes each row's D-table chain with its R-table row to reconstruct
// the coded-to-tally mapping.
func VerifyMeetingThree(ctx context.Context, bundle *Bundle, loader *artifact.Loader, meetingTwoRowIDs []int) (*MeetingThreeResult, error) {
	inXML, err := loader.Load(artifact.MeetingThreeIn, "Meeting Three In", true)
	if err != nil {
		return nil, err
	}
	challengePTable, err := table.ParseChallengePTable(inXML)
	if err != nil {
		return nil, verifyerr.Structural("MeetingThreeIn.xml: %v", err)
	}

	outXML, err := loader.Load(artifact.MeetingThreeOut, "Meeting Three Out", true)
	if err != nil {
		return nil, err
	}
	responsePTable, responsePartitions, err := table.ParseDatabase(outXML)
	if err != nil {
		return nil, verifyerr.Structural("MeetingThreeOut.xml: %v", err)
	}
	resultPartitions, err := table.ParseRTables(outXML)
	if err != nil {
		return nil, verifyerr.Structural("MeetingThreeOut.xml: %v", err)
	}

	rowIDs := sortedKeysP(challengePTable.Rows)
	challenged := make(map[int]bool, len(meetingTwoRowIDs))
	for _, id := range meetingTwoRowIDs {
		challenged[id] = true
	}
	for _, id := range rowIDs {
		if challenged[id] {
			return nil, verifyerr.Verification("row %d opened in both meeting two and meeting three", id)
		}
	}

	partitionMap := bundle.Election.PartitionMap()
	ok, err := VerifyOpenPAndDTables(ctx, bundle.PTable, bundle.Partitions, partitionMap,
		responsePTable, responsePartitions, bundle.Election.Constant)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, verifyerr.Verification("bad reveal of p and d tables")
	}

	tally, err := reconstructTally(bundle.Partitions, responsePartitions, resultPartitions, partitionMap)
	if err != nil {
		return nil, err
	}

	return &MeetingThreeResult{
		ElectionID: bundle.Election.Spec.ID,
		RowCount:   len(rowIDs),
		Tally:      tally,
	}, nil
}

// reconstructTally composes each revealed D-table row's d2∘d4 chain with
// its result-table row's r permutation, one composition per question,
// confirming each composed result is a bijection. The final tally
// aggregation against a published result is left to the caller; the
// published tally format is not part of this system's data model.
func reconstructTally(
	committedPartitions, openPartitions table.Partitions,
	resultPartitions table.ResultPartitions,
	partitionMap permutation.Map,
) ([]TallyPosition, error) {
	var out []TallyPosition

	partitionIDs := make([]int, 0, len(committedPartitions))
	for pID := range committedPartitions {
		partitionIDs = append(partitionIDs, pID)
	}
	sort.Ints(partitionIDs)

	for _, pID := range partitionIDs {
		if pID >= len(partitionMap) {
			return nil, verifyerr.Structural("partition %d has no entry in the partition map", pID)
		}
		row := permutation.Row(partitionMap[pID])

		rTable, ok := resultPartitions[pID]
		if !ok {
			return nil, verifyerr.Structural("no result table for partition %d", pID)
		}

		dTableIDs := make([]int, 0, len(committedPartitions[pID]))
		for dID := range committedPartitions[pID] {
			dTableIDs = append(dTableIDs, dID)
		}
		sort.Ints(dTableIDs)

		for _, dID := range dTableIDs {
			responseInstance, ok := openPartitions[pID][dID]
			if !ok {
				continue
			}
			rowIDs := make([]int, 0, len(responseInstance.Rows))
			for rowID := range responseInstance.Rows {
				rowIDs = append(rowIDs, rowID)
			}
			sort.Ints(rowIDs)

			for _, rowID := range rowIDs {
				responseRow := responseInstance.Rows[rowID]
				dPerms, err := responseInstance.PermutationsByRowID(rowID, row)
				if err != nil {
					return nil, err
				}
				dComposed, err := permutation.ComposeLists(dPerms[0], dPerms[2])
				if err != nil {
					return nil, err
				}

				rRow, ok := rTable.Rows[responseRow.RID]
				if !ok {
					return nil, verifyerr.Structural("partition %d: d table row %d references unknown result row %d",
						pID, rowID, responseRow.RID)
				}
				rSplit, err := permutation.SplitRow(rRow.R, row)
				if err != nil {
					return nil, err
				}

				fullComposed, err := permutation.ComposeLists(dComposed, rSplit)
				if err != nil {
					return nil, err
				}
				for qIdx, composed := range fullComposed {
					if !composed.IsBijection() {
						return nil, verifyerr.Verification(
							"partition %d d table %d row %d question %d: coded-to-tally chain is not a bijection",
							pID, dID, rowID, qIdx)
					}
					out = append(out, TallyPosition{
						PartitionID:    pID,
						DTableInstance: dID,
						RowID:          rowID,
						QuestionIndex:  qIdx,
						Composed:       composed,
					})
				}
			}
		}
	}

	return out, nil
}
