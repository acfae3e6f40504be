package artifact

// Filenames of the fixed artifacts each meeting reads from the data
// directory.
const (
	MeetingOneIn  = "MeetingOneIn.xml"
	MeetingOneOut = "MeetingOneOut.xml"
	ElectionSpec  = "ElectionSpec.xml"
	Partitions    = "partitions.xml"

	MeetingTwoIn             = "MeetingTwoIn.xml"
	MeetingTwoOut            = "MeetingTwoOut.xml"
	MeetingTwoOutCommitments = "MeetingTwoOutCommitments.xml"
	MeetingTwoRandomData     = "MeetingTwoRandomData.txt"

	MeetingThreeIn         = "MeetingThreeIn.xml"
	MeetingThreeOut        = "MeetingThreeOut.xml"
	MeetingThreeRandomData = "MeetingThreeRandomData.txt"
)
