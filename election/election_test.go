package election

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const partitionsFixture = `<root>
  <electionInfo id="E1">
    <sections>
      <section id="S1">
        <questions>
          <question id="Q1" possition="0" partitionNo="0"/>
          <question id="Q2" possition="1" partitionNo="0"/>
        </questions>
      </section>
      <section id="S2">
        <questions>
          <question id="Q3" possition="0" partitionNo="1"/>
        </questions>
      </section>
    </sections>
  </electionInfo>
</root>`

const electionSpecFixture = `<root>
  <electionInfo id="E1">
    <sections>
      <section id="S1">
        <questions>
          <question id="Q1" possition="1" typeOfAnswerChoice="one_answer" max_number_of_answers_selected="1">
            <answers>
              <answer possition="0"/>
              <answer possition="1"/>
            </answers>
          </question>
          <question id="Q2" possition="0" typeOfAnswerChoice="rank" max_number_of_answers_selected="3">
            <answers>
              <answer possition="0"/>
              <answer possition="1"/>
              <answer possition="2"/>
            </answers>
          </question>
        </questions>
      </section>
      <section id="S2">
        <questions>
          <question id="Q3" possition="0" typeOfAnswerChoice="multiple_answers" max_number_of_answers_selected="2">
            <answers>
              <answer possition="0"/>
              <answer possition="1"/>
            </answers>
          </question>
        </questions>
      </section>
    </sections>
  </electionInfo>
</root>`

const electionHeaderFixture = `<root>
  <noDs>4</noDs>
  <noBallots>100</noBallots>
  <constant>UHJpbmNldG9uRWxlY3Rp</constant>
</root>`

func TestParsePartitionInfo(t *testing.T) {
	pi, err := ParsePartitionInfo([]byte(partitionsFixture))
	require.NoError(t, err)
	require.Equal(t, "E1", pi.ElectionID)
	require.Equal(t, 2, pi.NumPartitions())

	num, err := pi.PartitionNum("S1", "Q2")
	require.NoError(t, err)
	require.Equal(t, 0, num)

	num, err = pi.PartitionNum("S2", "Q3")
	require.NoError(t, err)
	require.Equal(t, 1, num)

	_, err = pi.PartitionNum("S1", "missing")
	require.Error(t, err)
}

func TestParseElectionSpecOrdersByPossitionWithinPartition(t *testing.T) {
	pi, err := ParsePartitionInfo([]byte(partitionsFixture))
	require.NoError(t, err)
	// Override partitions to match the spec fixture's own section layout:
	// Q1,Q2 in partition 0, Q3 in partition 1.
	pi, err = ParsePartitionInfo([]byte(`<root><electionInfo id="E1"><sections>
      <section id="S1"><questions>
        <question id="Q1" possition="1" partitionNo="0"/>
        <question id="Q2" possition="0" partitionNo="0"/>
      </questions></section>
      <section id="S2"><questions>
        <question id="Q3" possition="0" partitionNo="1"/>
      </questions></section>
    </sections></electionInfo></root>`))
	require.NoError(t, err)

	spec, err := ParseElectionSpec([]byte(electionSpecFixture), pi)
	require.NoError(t, err)
	require.Equal(t, "E1", spec.ID)
	require.Len(t, spec.Questions, 3)

	q2, err := spec.LookupQuestion("S1", "Q2")
	require.NoError(t, err)
	q1, err := spec.LookupQuestion("S1", "Q1")
	require.NoError(t, err)
	// Q2 has possition 0, Q1 has possition 1: Q2 sorts first in partition 0.
	require.Equal(t, 0, q2.PositionInPartition)
	require.Equal(t, 1, q1.PositionInPartition)
	require.Equal(t, Rank, q2.Type)
	require.Equal(t, 3, q2.NumAnswers)
	require.Equal(t, OneAnswer, q1.Type)

	q3, err := spec.LookupQuestion("S2", "Q3")
	require.NoError(t, err)
	require.Equal(t, MultipleAnswers, q3.Type)
	require.Equal(t, 0, q3.PositionInPartition)

	require.Len(t, spec.QuestionsByPartition, 2)
	require.Len(t, spec.QuestionsByPartition[0], 2)
	require.Len(t, spec.QuestionsByPartition[1], 1)
}

func TestParseElectionSpecRejectsIDMismatch(t *testing.T) {
	pi := &PartitionInfo{ElectionID: "OTHER", sections: map[string]map[string]int{}}
	pi.partitions = [][]QuestionRef{{}}
	_, err := ParseElectionSpec([]byte(electionSpecFixture), pi)
	require.Error(t, err)
}

func TestParseElectionHeader(t *testing.T) {
	pi, err := ParsePartitionInfo([]byte(partitionsFixture))
	require.NoError(t, err)
	spec, err := ParseElectionSpec([]byte(electionSpecFixture), pi)
	require.NoError(t, err)

	el, err := ParseElectionHeader([]byte(electionHeaderFixture), spec)
	require.NoError(t, err)
	require.Equal(t, 4, el.NumDTables)
	require.Equal(t, 100, el.NumBallots)
	require.Len(t, el.Constant, 15)
}

func TestPartitionMapLeaves(t *testing.T) {
	pi, err := ParsePartitionInfo([]byte(`<root><electionInfo id="E1"><sections>
      <section id="S1"><questions>
        <question id="Q1" possition="1" partitionNo="0"/>
        <question id="Q2" possition="0" partitionNo="0"/>
      </questions></section>
      <section id="S2"><questions>
        <question id="Q3" possition="0" partitionNo="1"/>
      </questions></section>
    </sections></electionInfo></root>`))
	require.NoError(t, err)
	spec, err := ParseElectionSpec([]byte(electionSpecFixture), pi)
	require.NoError(t, err)

	el := &Election{Spec: spec}
	pm := el.PartitionMap()
	require.Len(t, pm, 2)
	require.Equal(t, []int{3, 2}, pm[0]) // Q2 (3 answers) then Q1 (2 answers)
	require.Equal(t, []int{2}, pm[1])

	pmc := el.PartitionMapChoices()
	require.Equal(t, []int{3, 1}, pmc[0])
	require.Equal(t, []int{2}, pmc[1])

	require.Equal(t, 2, el.NumPartitions())
	require.Len(t, el.QuestionsInPartition(0), 2)
}
