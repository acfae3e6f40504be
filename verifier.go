package scantegrity

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/scantegrity/verify/artifact"
	"github.com/scantegrity/verify/fingerprint"
	"github.com/scantegrity/verify/meeting"
	"github.com/scantegrity/verify/verifyerr"
)

var errNotLoaded = verifyerr.Structural("meeting one has not been loaded yet")

// Verifier runs an independent check of one election's published Scantegrity
// artifacts against each other. It holds no secrets and never writes to the
// data directory it reads from.
type Verifier struct {
	loader *artifact.Loader
	ledger *fingerprint.Ledger
	log    zerolog.Logger

	bundle *meeting.Bundle
}

// New returns a Verifier that reads artifacts from dataDir, logging its
// progress to log.
func New(dataDir string, log zerolog.Logger) *Verifier {
	ledger := &fingerprint.Ledger{}
	return &Verifier{
		loader: artifact.NewLoader(dataDir, ledger),
		ledger: ledger,
		log:    log,
	}
}

// Fingerprints returns the SHA-1 fingerprints recorded so far, in artifact
// load order.
func (v *Verifier) Fingerprints() []fingerprint.Entry {
	return v.ledger.Entries()
}

// Report renders the recorded fingerprints as "label: sha1_hex" lines.
func (v *Verifier) Report() string {
	return v.ledger.Report()
}

// LoadMeetingOne ingests the election specification and the committed P, D,
// and ballot tables, fingerprinting each file it reads. It must run before
// VerifyMeetingTwo or VerifyMeetingThree.
func (v *Verifier) LoadMeetingOne() error {
	v.log.Info().Msg("loading meeting one artifacts")
	bundle, err := meeting.LoadMeetingOne(v.loader)
	if err != nil {
		v.log.Error().Err(err).Msg("meeting one load failed")
		return err
	}
	v.bundle = bundle
	v.log.Info().
		Str("election_id", bundle.Election.Spec.ID).
		Int("ballots", bundle.Election.NumBallots).
		Msg("meeting one loaded")
	return nil
}

// VerifyMeetingTwo checks Meeting 2's challenge response: that the challenge
// itself was reproduced from the published randomness (randomDataFile,
// relative to the data directory; empty uses the default filename) and that
// the revealed rows open their commitments correctly.
func (v *Verifier) VerifyMeetingTwo(ctx context.Context, randomDataFile string) (*meeting.MeetingTwoResult, error) {
	if v.bundle == nil {
		return nil, errNotLoaded
	}
	v.log.Info().Msg("verifying meeting two")
	result, err := meeting.VerifyMeetingTwo(ctx, v.bundle, v.loader, randomDataFile)
	if err != nil {
		v.log.Error().Err(err).Msg("meeting two verification failed")
		return nil, err
	}
	v.log.Info().
		Int("challenged_ballots", result.ChallengedBallotCount).
		Bool("challenges_match_randomness", result.ChallengesMatchRandomness).
		Msg("meeting two verified")
	return result, nil
}

// VerifyMeetingThree checks Meeting 3's tally reveal against the rows
// Meeting 2 already opened, reconstructing the coded-to-tally permutation
// chain for every cast ballot row.
func (v *Verifier) VerifyMeetingThree(ctx context.Context, meetingTwoRowIDs []int) (*meeting.MeetingThreeResult, error) {
	if v.bundle == nil {
		return nil, errNotLoaded
	}
	v.log.Info().Msg("verifying meeting three")
	result, err := meeting.VerifyMeetingThree(ctx, v.bundle, v.loader, meetingTwoRowIDs)
	if err != nil {
		v.log.Error().Err(err).Msg("meeting three verification failed")
		return nil, err
	}
	v.log.Info().
		Int("tallied_rows", result.RowCount).
		Msg("meeting three verified")
	return result, nil
}
