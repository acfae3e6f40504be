package election

import (
	"encoding/base64"
	"encoding/xml"
	"fmt"
)

// The XML ingestion layer is intentionally thin: per the scope note that
// XML parsing itself is an external collaborator's concern, these structs
// capture only the attributes the rest of the package needs and tolerate
// unknown siblings. The question element's possition attribute keeps the
// authority's misspelling; verifiers must accept exactly that spelling.

type questionXML struct {
	ID                    string `xml:"id,attr"`
	Possition             int    `xml:"possition,attr"`
	TypeOfAnswerChoice    string `xml:"typeOfAnswerChoice,attr"`
	MaxNumAnswersSelected int    `xml:"max_number_of_answers_selected,attr"`
	PartitionNo           int    `xml:"partitionNo,attr"`
	Answers               struct {
		Answer []struct {
			Possition int `xml:"possition,attr"`
		} `xml:"answer"`
	} `xml:"answers"`
}

type sectionXML struct {
	ID        string `xml:"id,attr"`
	Questions struct {
		Question []questionXML `xml:"question"`
	} `xml:"questions"`
}

type electionInfoXML struct {
	ID       string `xml:"id,attr"`
	Sections struct {
		Section []sectionXML `xml:"section"`
	} `xml:"sections"`
}

type electionDocumentXML struct {
	XMLName      xml.Name
	ElectionInfo electionInfoXML `xml:"electionInfo"`
}

// ParsePartitionInfo parses partitions.xml: an electionInfo tree whose
// questions carry only an id and a partitionNo.
func ParsePartitionInfo(data []byte) (*PartitionInfo, error) {
	var doc electionDocumentXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("election: parse partition info: %w", err)
	}

	pi := &PartitionInfo{
		ElectionID: doc.ElectionInfo.ID,
		sections:   make(map[string]map[string]int),
	}
	maxPartition := -1
	for _, s := range doc.ElectionInfo.Sections.Section {
		section, ok := pi.sections[s.ID]
		if !ok {
			section = make(map[string]int)
			pi.sections[s.ID] = section
		}
		for _, q := range s.Questions.Question {
			section[q.ID] = q.PartitionNo
			if q.PartitionNo > maxPartition {
				maxPartition = q.PartitionNo
			}
		}
	}

	pi.partitions = make([][]QuestionRef, maxPartition+1)
	for _, s := range doc.ElectionInfo.Sections.Section {
		for _, q := range s.Questions.Question {
			pi.partitions[q.PartitionNo] = append(pi.partitions[q.PartitionNo], QuestionRef{
				SectionID:  s.ID,
				QuestionID: q.ID,
			})
		}
	}
	return pi, nil
}

// ParseElectionSpec parses the full election specification XML and cross
// checks its id against partitionInfo's, per the rule that the election id
// appearing in PartitionInfo and in the election-spec document must agree.
func ParseElectionSpec(data []byte, partitionInfo *PartitionInfo) (*ElectionSpec, error) {
	var doc electionDocumentXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("election: parse election spec: %w", err)
	}

	if doc.ElectionInfo.ID != partitionInfo.ElectionID {
		return nil, fmt.Errorf("election: election id mismatch: spec has %q, partition info has %q",
			doc.ElectionInfo.ID, partitionInfo.ElectionID)
	}

	es := &ElectionSpec{
		ID:               doc.ElectionInfo.ID,
		PartitionInfo:    partitionInfo,
		sectionQuestions: make(map[string]map[string]*Question),
		QuestionsByID:    make(map[string]*Question),
	}

	maxPartition := partitionInfo.NumPartitions() - 1
	for _, s := range doc.ElectionInfo.Sections.Section {
		sectionMap, ok := es.sectionQuestions[s.ID]
		if !ok {
			sectionMap = make(map[string]*Question)
			es.sectionQuestions[s.ID] = sectionMap
		}
		var sectionQuestions []*Question
		for _, q := range s.Questions.Question {
			answerType, err := ParseAnswerType(q.TypeOfAnswerChoice)
			if err != nil {
				return nil, fmt.Errorf("election: section %s question %s: %w", s.ID, q.ID, err)
			}
			partitionNum, err := partitionInfo.PartitionNum(s.ID, q.ID)
			if err != nil {
				return nil, fmt.Errorf("election: section %s question %s: %w", s.ID, q.ID, err)
			}
			if partitionNum > maxPartition {
				maxPartition = partitionNum
			}
			question := &Question{
				ID:            q.ID,
				Position:      q.Possition,
				Type:          answerType,
				MaxNumAnswers: q.MaxNumAnswersSelected,
				NumAnswers:    len(q.Answers.Answer),
				SectionID:     s.ID,
				PartitionNum:  partitionNum,
			}
			sectionMap[q.ID] = question
			sectionQuestions = append(sectionQuestions, question)
			es.Questions = append(es.Questions, question)
			es.QuestionsByID[q.ID] = question
		}
		sortByPosition(sectionQuestions)
	}

	es.QuestionsByPartition = make([][]*Question, maxPartition+1)
	for _, s := range doc.ElectionInfo.Sections.Section {
		var ordered []*Question
		for _, q := range s.Questions.Question {
			ordered = append(ordered, es.sectionQuestions[s.ID][q.ID])
		}
		sortByPosition(ordered)
		for _, q := range ordered {
			q.PositionInPartition = len(es.QuestionsByPartition[q.PartitionNum])
			es.QuestionsByPartition[q.PartitionNum] = append(es.QuestionsByPartition[q.PartitionNum], q)
		}
	}

	return es, nil
}

type electionHeaderXML struct {
	XMLName    xml.Name
	NumDTables int    `xml:"noDs"`
	NumBallots int    `xml:"noBallots"`
	Constant   string `xml:"constant"`
}

// ParseElectionHeader parses Meeting 1's election header document, carrying
// the D-table count, ballot count, and base64-encoded AES constant.
func ParseElectionHeader(data []byte, spec *ElectionSpec) (*Election, error) {
	var doc electionHeaderXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("election: parse election header: %w", err)
	}
	constant, err := base64.StdEncoding.DecodeString(doc.Constant)
	if err != nil {
		return nil, fmt.Errorf("election: decode constant: %w", err)
	}
	return &Election{
		Spec:       spec,
		NumDTables: doc.NumDTables,
		NumBallots: doc.NumBallots,
		Constant:   constant,
	}, nil
}
