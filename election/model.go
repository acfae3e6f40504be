package election

import (
	"fmt"
	"sort"

	"github.com/scantegrity/verify/permutation"
)

// AnswerType is the tagged variant of question types the ballot package
// dispatches on; see design notes on polymorphism over question type.
type AnswerType int

const (
	Rank AnswerType = iota
	OneAnswer
	MultipleAnswers
)

// ParseAnswerType maps the XML typeOfAnswerChoice attribute to AnswerType.
func ParseAnswerType(s string) (AnswerType, error) {
	switch s {
	case "rank":
		return Rank, nil
	case "one_answer":
		return OneAnswer, nil
	case "multiple_answers":
		return MultipleAnswers, nil
	default:
		return 0, fmt.Errorf("election: unknown typeOfAnswerChoice %q", s)
	}
}

func (t AnswerType) String() string {
	switch t {
	case Rank:
		return "rank"
	case OneAnswer:
		return "one_answer"
	case MultipleAnswers:
		return "multiple_answers"
	default:
		return "unknown"
	}
}

// QuestionRef names a question within its section, as recorded in a
// partition's question list.
type QuestionRef struct {
	SectionID  string
	QuestionID string
}

// PartitionInfo maps (section_id, question_id) to a partition number, as
// loaded from partitions.xml. It carries its own election id so it can be
// cross-checked against the ElectionSpec's id.
type PartitionInfo struct {
	ElectionID string
	sections   map[string]map[string]int
	partitions [][]QuestionRef
}

// PartitionNum looks up the partition number of a (section, question) pair.
func (pi *PartitionInfo) PartitionNum(sectionID, questionID string) (int, error) {
	section, ok := pi.sections[sectionID]
	if !ok {
		return 0, fmt.Errorf("election: unknown section %q", sectionID)
	}
	num, ok := section[questionID]
	if !ok {
		return 0, fmt.Errorf("election: unknown question %q in section %q", questionID, sectionID)
	}
	return num, nil
}

// NumPartitions returns max(partition_num) + 1.
func (pi *PartitionInfo) NumPartitions() int {
	return len(pi.partitions)
}

// Partitions returns, for each partition number, the question refs it
// contains, in the order they were declared.
func (pi *PartitionInfo) Partitions() [][]QuestionRef {
	return pi.partitions
}

// Question is one election question, with its derived partition placement.
type Question struct {
	ID                  string
	Position            int
	Type                AnswerType
	MaxNumAnswers       int
	NumAnswers          int
	SectionID           string
	PartitionNum        int
	PositionInPartition int
}

// ElectionSpec is the parsed election specification: sections, their
// position-sorted questions, and the derived partition groupings.
type ElectionSpec struct {
	ID                   string
	PartitionInfo        *PartitionInfo
	sectionQuestions     map[string]map[string]*Question
	Questions            []*Question
	QuestionsByID        map[string]*Question
	QuestionsByPartition [][]*Question
}

// LookupQuestion returns the question with questionID within sectionID.
func (es *ElectionSpec) LookupQuestion(sectionID, questionID string) (*Question, error) {
	section, ok := es.sectionQuestions[sectionID]
	if !ok {
		return nil, fmt.Errorf("election: unknown section %q", sectionID)
	}
	q, ok := section[questionID]
	if !ok {
		return nil, fmt.Errorf("election: unknown question %q in section %q", questionID, sectionID)
	}
	return q, nil
}

// Election carries the election spec plus the three integers loaded from
// Meeting 1's header: the number of D-table instances, the number of
// printed ballots, and the 16-byte AES constant used throughout commitment
// derivation.
type Election struct {
	Spec       *ElectionSpec
	NumDTables int
	NumBallots int
	Constant   []byte
}

// NumPartitions returns the number of partitions in the election.
func (e *Election) NumPartitions() int {
	return len(e.Spec.PartitionInfo.partitions)
}

// QuestionsInPartition returns the questions assigned to partitionNum, in
// partition order.
func (e *Election) QuestionsInPartition(partitionNum int) []*Question {
	return e.Spec.QuestionsByPartition[partitionNum]
}

// PartitionMap returns the partition map whose leaves are each question's
// total number of answers — used to split the p1/p2 (and d2/d4) permutation
// fields.
func (e *Election) PartitionMap() permutation.Map {
	m := make(permutation.Map, len(e.Spec.QuestionsByPartition))
	for i, questions := range e.Spec.QuestionsByPartition {
		row := make([]int, len(questions))
		for j, q := range questions {
			row[j] = q.NumAnswers
		}
		m[i] = row
	}
	return m
}

// PartitionMapChoices returns the partition map whose leaves are each
// question's max_num_answers — used to split the p3/d3 selection fields.
func (e *Election) PartitionMapChoices() permutation.Map {
	m := make(permutation.Map, len(e.Spec.QuestionsByPartition))
	for i, questions := range e.Spec.QuestionsByPartition {
		row := make([]int, len(questions))
		for j, q := range questions {
			row[j] = q.MaxNumAnswers
		}
		m[i] = row
	}
	return m
}

// sortByPosition sorts refs in place by their possition attribute,
// mirroring the authority's (misspelled) sort key.
func sortByPosition(questions []*Question) {
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].Position < questions[j].Position
	})
}
