// Command fingerprint recomputes the SHA-1 fingerprints of a Scantegrity
// data directory's fixed artifacts, independently of any verify run. Given
// a previously saved report it also compares each recomputed fingerprint
// with the report line of the same label (report lines for artifacts it
// could not read, and artifacts the report does not list, are not
// compared), so a reviewer
// can confirm a `verify` run's report matches the files on disk without
// re-running the full verification.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scantegrity/verify/artifact"
	"github.com/scantegrity/verify/fingerprint"
)

// artifactLabels names every fixed artifact this command will fingerprint,
// in the order Meeting 1/2/3 load them, paired with whether it gets the
// Windows-newline correction before hashing.
var artifactLabels = []struct {
	label          string
	file           string
	correctWindows bool
}{
	{"Partitions", artifact.Partitions, true},
	{"Election Spec", artifact.ElectionSpec, true},
	{"Meeting One In", artifact.MeetingOneIn, true},
	{"Meeting One Out", artifact.MeetingOneOut, true},
	{"Meeting Two In", artifact.MeetingTwoIn, true},
	{"Meeting Two Out", artifact.MeetingTwoOut, true},
	{"Meeting Two Out Commitments", artifact.MeetingTwoOutCommitments, true},
	{"Random Data for Meeting Two Challenges", artifact.MeetingTwoRandomData, false},
	{"Meeting Three In", artifact.MeetingThreeIn, true},
	{"Meeting Three Out", artifact.MeetingThreeOut, true},
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fingerprint <data_dir> [report_file]",
		Short: "Recompute and optionally cross-check a Scantegrity data directory's artifact fingerprints",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runFingerprint,
	}
	return cmd
}

func runFingerprint(cmd *cobra.Command, args []string) error {
	dataDir := args[0]
	ledger := &fingerprint.Ledger{}
	loader := artifact.NewLoader(dataDir, ledger)

	for _, a := range artifactLabels {
		if _, err := loader.Load(a.file, a.label, a.correctWindows); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipping %s (%s): %v\n", a.label, a.file, err)
		}
	}

	report := ledger.Report()
	if len(args) == 1 {
		fmt.Fprint(cmd.OutOrStdout(), report)
		return nil
	}

	want, err := parseReport(args[1])
	if err != nil {
		return err
	}
	mismatches := diffReport(want, ledger.Entries())
	for _, m := range mismatches {
		fmt.Fprintln(cmd.OutOrStdout(), m)
	}
	if len(mismatches) > 0 {
		return fmt.Errorf("%d fingerprint(s) did not match %s", len(mismatches), args[1])
	}
	fmt.Fprintln(cmd.OutOrStdout(), "all fingerprints match")
	return nil
}

func parseReport(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening report file: %w", err)
	}
	defer f.Close()

	want := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		label, sha1Hex, ok := strings.Cut(line, ": ")
		if !ok {
			return nil, fmt.Errorf("malformed report line %q", line)
		}
		want[label] = sha1Hex
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading report file: %w", err)
	}
	return want, nil
}

func diffReport(want map[string]string, got []fingerprint.Entry) []string {
	var mismatches []string
	for _, e := range got {
		expected, ok := want[e.Label]
		if !ok {
			continue
		}
		if expected != e.SHA1 {
			mismatches = append(mismatches, fmt.Sprintf("%s: report says %s, disk has %s", e.Label, expected, e.SHA1))
		}
	}
	return mismatches
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fingerprint: %v\n", err)
		os.Exit(1)
	}
}
