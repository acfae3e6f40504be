package ballot

import (
	"sort"
)

// Symbol is one confirmation-code slot on a ballot: either the commitment
// and salt that bind it (on a committed ballot) or the code a voter
// revealed (on an opening).
type Symbol struct {
	ID         int
	Commitment string
	Salt       string
	Code       string
}

// Ballot is a single printed ballot: its serial-number commitments and, per
// question, the symbol commitments a voter can later open to retrieve a
// confirmation code. The same type represents both a committed ballot (c,
// salt populated) and an opening (code, barcodeSerial, webSerial populated);
// callers distinguish by which fields they read.
type Ballot struct {
	PID int

	WebSerialCommitment string
	WebSerialSalt       string
	WebSerial           string

	BarcodeSerialCommitment string
	BarcodeSerialSalt       string
	// BarcodeSerial is nil when the ballot carries no barcode serial number
	// opening; the spec treats this field as optional.
	BarcodeSerial *string

	Questions map[string]map[int]Symbol
}

// symbolIDs returns the sorted symbol ids marked on q. Sorting makes the
// result deterministic regardless of map iteration order; the original
// implementation relied on whatever order a dict produced, which was
// incidental rather than meaningful to any of these checks.
func symbolIDs(q map[int]Symbol) []int {
	ids := make([]int, 0, len(q))
	for id := range q {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
