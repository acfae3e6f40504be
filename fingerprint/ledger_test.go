package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLedgerReportOrderAndDuplicates(t *testing.T) {
	var l Ledger
	l.Add("ElectionSpec.xml", "aaaa")
	l.Add("MeetingOneIn.xml", "bbbb")
	l.Add("ElectionSpec.xml", "aaaa")

	want := "ElectionSpec.xml: aaaa\nMeetingOneIn.xml: bbbb\nElectionSpec.xml: aaaa\n"
	require.Equal(t, want, l.Report())
	require.Len(t, l.Entries(), 3)
}

func TestLedgerEntriesIsACopy(t *testing.T) {
	var l Ledger
	l.Add("a", "1")
	entries := l.Entries()
	entries[0].Label = "mutated"
	require.Equal(t, "a", l.Entries()[0].Label)
}
