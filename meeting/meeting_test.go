package meeting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scantegrity/verify/artifact"
	"github.com/scantegrity/verify/fingerprint"
	"github.com/scantegrity/verify/internal/testfixture"
	"github.com/scantegrity/verify/permutation"
	"github.com/scantegrity/verify/table"
	"github.com/scantegrity/verify/verifyerr"
)

var testConstant = []byte("PrincetonElectio")
var testKeyB64 = "dWvJjTDof3YHWyOYvkIFoA=="

func TestIntSetsEqual(t *testing.T) {
	require.True(t, intSetsEqual([]int{1, 2, 3}, []int{3, 2, 1}))
	require.False(t, intSetsEqual([]int{1, 2}, []int{1, 2, 3}))
	require.False(t, intSetsEqual([]int{1, 2}, []int{1, 3}))
}

func TestPermListsEqual(t *testing.T) {
	a := []permutation.Permutation{permutation.New([]int{1, 0}), permutation.New([]int{0, 1})}
	b := []permutation.Permutation{permutation.New([]int{1, 0}), permutation.New([]int{0, 1})}
	require.True(t, permListsEqual(a, b))

	c := []permutation.Permutation{permutation.New([]int{0, 1}), permutation.New([]int{0, 1})}
	require.False(t, permListsEqual(a, c))
	require.False(t, permListsEqual(a, a[:1]))
}

// buildSingleRowFixtures returns a matching pair of committed and opened
// database documents for one print row (id 5) feeding one D-table instance
// (partition 0, instance 0, row id 10) and one result row (id 20), all
// against a single one-question, two-slot partition.
func buildSingleRowFixtures(t *testing.T) (committed, opened string) {
	t.Helper()

	p1 := []int{1, 0}
	p2 := []int{0, 1}
	c1, c2, err := testfixture.PCommitments(5, p1, p2, testKeyB64, testConstant)
	require.NoError(t, err)

	d2 := []int{1, 0}
	d4 := []int{0, 1}
	cl, cr, err := testfixture.DCommitments(0, 0, 10, 5, 20, d2, d4, testKeyB64, testConstant)
	require.NoError(t, err)

	committed = fmt.Sprintf(`<root><database>
    <print id="0"><row id="5" c1="%s" c2="%s" s1="%s" s2="%s"/></print>
    <partition id="0">
      <decrypt><instance id="0"><row id="10" cl="%s" cr="%s" sl="%s" sr="%s"/></instance></decrypt>
      <results><row id="20" r="1 0"/></results>
    </partition>
  </database></root>`, c1, c2, testKeyB64, testKeyB64, cl, cr, testKeyB64, testKeyB64)

	opened = fmt.Sprintf(`<root><database>
    <print id="0"><row id="5" c1="%s" c2="%s" s1="%s" s2="%s" p1="1 0" p2="0 1"/></print>
    <partition id="0">
      <decrypt><instance id="0"><row id="10" pid="5" rid="20" cl="%s" cr="%s" sl="%s" sr="%s" d2="1 0" d4="0 1"/></instance></decrypt>
      <results><row id="20" r="1 0"/></results>
    </partition>
  </database></root>`, c1, c2, testKeyB64, testKeyB64, cl, cr, testKeyB64, testKeyB64)

	return committed, opened
}

func TestVerifyOpenPAndDTablesHappyPath(t *testing.T) {
	committedDoc, openDoc := buildSingleRowFixtures(t)

	committedPTable, committedPartitions, err := table.ParseDatabase([]byte(committedDoc))
	require.NoError(t, err)
	openPTable, openPartitions, err := table.ParseDatabase([]byte(openDoc))
	require.NoError(t, err)

	partitionMap := permutation.Map{{2}}

	ok, err := VerifyOpenPAndDTables(context.Background(), committedPTable, committedPartitions,
		partitionMap, openPTable, openPartitions, testConstant)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyOpenPAndDTablesRejectsBadPReveal(t *testing.T) {
	committedDoc, openDoc := buildSingleRowFixtures(t)
	// Swap the revealed p1/p2 values: the commitments no longer match.
	bad := fmt.Sprintf(`<root><database>
    <print id="0"><row id="5" c1="X" c2="Y" s1="%s" s2="%s" p1="0 1" p2="1 0"/></print>
    <partition id="0"><decrypt><instance id="0"></instance></decrypt><results></results></partition>
  </database></root>`, testKeyB64, testKeyB64)
	_ = openDoc

	committedPTable, committedPartitions, err := table.ParseDatabase([]byte(committedDoc))
	require.NoError(t, err)
	openPTable, openPartitions, err := table.ParseDatabase([]byte(bad))
	require.NoError(t, err)

	partitionMap := permutation.Map{{2}}
	ok, err := VerifyOpenPAndDTables(context.Background(), committedPTable, committedPartitions,
		partitionMap, openPTable, openPartitions, testConstant)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyOpenPAndDTablesRejectsTamperedDReveal(t *testing.T) {
	committedDoc, openDoc := buildSingleRowFixtures(t)
	committedPTable, committedPartitions, err := table.ParseDatabase([]byte(committedDoc))
	require.NoError(t, err)
	openPTable, openPartitions, err := table.ParseDatabase([]byte(openDoc))
	require.NoError(t, err)

	// Claim the D row covers a different print-table row: the commitment
	// was computed against pid 5, so this no longer matches it.
	openPartitions[0][0].Rows[10] = table.DRow{
		ID: 10, PID: 99, RID: 20, D2: []int{1, 0}, D4: []int{0, 1},
	}

	partitionMap := permutation.Map{{2}}
	ok, err := VerifyOpenPAndDTables(context.Background(), committedPTable, committedPartitions,
		partitionMap, openPTable, openPartitions, testConstant)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestReconstructTallyHappyPath(t *testing.T) {
	committedDoc, openDoc := buildSingleRowFixtures(t)
	_, committedPartitions, err := table.ParseDatabase([]byte(committedDoc))
	require.NoError(t, err)
	_, openPartitions, err := table.ParseDatabase([]byte(openDoc))
	require.NoError(t, err)
	resultPartitions, err := table.ParseRTables([]byte(openDoc))
	require.NoError(t, err)

	partitionMap := permutation.Map{{2}}
	tally, err := reconstructTally(committedPartitions, openPartitions, resultPartitions, partitionMap)
	require.NoError(t, err)
	require.Len(t, tally, 1)
	require.Equal(t, 0, tally[0].PartitionID)
	require.Equal(t, 0, tally[0].DTableInstance)
	require.Equal(t, 10, tally[0].RowID)
	require.Equal(t, 0, tally[0].QuestionIndex)
	require.Equal(t, []int{0, 1}, tally[0].Composed.Values())
}

func TestReconstructTallyRejectsNonBijection(t *testing.T) {
	committedDoc, openDoc := buildSingleRowFixtures(t)
	_, committedPartitions, err := table.ParseDatabase([]byte(committedDoc))
	require.NoError(t, err)
	_, openPartitions, err := table.ParseDatabase([]byte(openDoc))
	require.NoError(t, err)
	resultPartitions, err := table.ParseRTables([]byte(openDoc))
	require.NoError(t, err)

	// Corrupt the result row so its "r" field is not a bijection.
	resultPartitions[0].Rows[20] = table.RRow{ID: 20, R: []int{0, 0}}

	partitionMap := permutation.Map{{2}}
	_, err = reconstructTally(committedPartitions, openPartitions, resultPartitions, partitionMap)
	require.Error(t, err)
	require.True(t, verifyerr.IsVerification(err))
}

const meetingOneOutFixture = `<root><database>
  <print id="0"><row id="5" c1="C1" c2="C2" s1="S1" s2="S2"/></print>
  <partition id="0">
    <decrypt><instance id="0"><row id="10" cl="CL" cr="CR" sl="SL" sr="SR"/></instance></decrypt>
    <results><row id="20" r="1 0"/></results>
  </partition>
  <printCommitments>
    <ballot pid="5" webSerialCommitment="WC" webSerialSalt="WS">
      <question id="Q1"><symbol id="0" c="SC" salt="SS"/></question>
    </ballot>
  </printCommitments>
</database></root>`

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
}

func TestLoadMeetingOne(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, artifact.Partitions, `<root><electionInfo id="E1"><sections>
    <section id="S1"><questions>
      <question id="Q1" possition="0" partitionNo="0"/>
    </questions></section>
  </sections></electionInfo></root>`)
	writeFile(t, dir, artifact.ElectionSpec, `<root><electionInfo id="E1"><sections>
    <section id="S1"><questions>
      <question id="Q1" possition="0" typeOfAnswerChoice="one_answer" max_number_of_answers_selected="1">
        <answers><answer possition="0"/><answer possition="1"/></answers>
      </question>
    </questions></section>
  </sections></electionInfo></root>`)
	writeFile(t, dir, artifact.MeetingOneIn, `<root><noDs>1</noDs><noBallots>1</noBallots><constant>UHJpbmNldG9uRWxlY3Rp</constant></root>`)
	writeFile(t, dir, artifact.MeetingOneOut, meetingOneOutFixture)

	ledger := &fingerprint.Ledger{}
	loader := artifact.NewLoader(dir, ledger)
	bundle, err := LoadMeetingOne(loader)
	require.NoError(t, err)
	require.Equal(t, "E1", bundle.Election.Spec.ID)
	require.Contains(t, bundle.PTable.Rows, 5)
	require.Contains(t, bundle.Partitions, 0)
	require.Contains(t, bundle.Ballots, 5)
	require.Len(t, ledger.Entries(), 4)
}

func TestVerifyMeetingThreeRejectsOverlapWithMeetingTwo(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, artifact.MeetingThreeIn, `<root><challenges>
    <print id="0"><row id="10" c1="A" c2="B" s1="S" s2="T"/></print>
  </challenges></root>`)
	writeFile(t, dir, artifact.MeetingThreeOut, `<root><database>
    <print id="0"></print>
    <partition id="0"><decrypt><instance id="0"></instance></decrypt><results></results></partition>
  </database></root>`)

	loader := artifact.NewLoader(dir, &fingerprint.Ledger{})

	_, err := VerifyMeetingThree(context.Background(), &Bundle{}, loader, []int{10})
	require.Error(t, err)
	require.True(t, verifyerr.IsVerification(err))
}
