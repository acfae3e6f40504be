package scantegrity

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/scantegrity/verify/artifact"
	"github.com/scantegrity/verify/verifyerr"
)

func writeFixture(t *testing.T, dir, name, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
}

func TestVerifyMeetingTwoAndThreeRequireLoadMeetingOneFirst(t *testing.T) {
	v := New(t.TempDir(), zerolog.Nop())

	_, err := v.VerifyMeetingTwo(context.Background(), "")
	require.Error(t, err)
	require.True(t, verifyerr.IsStructural(err))

	_, err = v.VerifyMeetingThree(context.Background(), nil)
	require.Error(t, err)
	require.True(t, verifyerr.IsStructural(err))
}

func TestLoadMeetingOneFingerprintsEveryArtifact(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, artifact.Partitions, `<root><electionInfo id="E1"><sections>
    <section id="S1"><questions>
      <question id="Q1" possition="0" partitionNo="0"/>
    </questions></section>
  </sections></electionInfo></root>`)
	writeFixture(t, dir, artifact.ElectionSpec, `<root><electionInfo id="E1"><sections>
    <section id="S1"><questions>
      <question id="Q1" possition="0" typeOfAnswerChoice="one_answer" max_number_of_answers_selected="1">
        <answers><answer possition="0"/><answer possition="1"/></answers>
      </question>
    </questions></section>
  </sections></electionInfo></root>`)
	writeFixture(t, dir, artifact.MeetingOneIn, `<root><noDs>1</noDs><noBallots>1</noBallots><constant>UHJpbmNldG9uRWxlY3Rp</constant></root>`)
	writeFixture(t, dir, artifact.MeetingOneOut, `<root><database>
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
</database></root>`)

	v := New(dir, zerolog.Nop())
	require.NoError(t, v.LoadMeetingOne())

	entries := v.Fingerprints()
	require.Len(t, entries, 4)
	labels := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = e.Label
	}
	require.Equal(t, []string{"Partitions", "Election Spec", "Meeting One In", "Meeting One Out"}, labels)
	require.Contains(t, v.Report(), "Meeting One Out: ")
}

func TestLoadMeetingOnePropagatesInputError(t *testing.T) {
	v := New(t.TempDir(), zerolog.Nop())
	err := v.LoadMeetingOne()
	require.Error(t, err)
	require.True(t, verifyerr.IsInput(err))
}
