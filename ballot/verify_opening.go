package ballot

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/scantegrity/verify/commitment"
)

// CodeCallback is invoked once for every confirmation code successfully
// verified by VerifyCodeOpenings, so a caller can record codes to show a
// voter without re-deriving them.
type CodeCallback func(webSerial string, pid int, questionID string, symbolID int, code string)

// VerifyCodeOpenings checks that open is a valid opening of b's
// commitments: matching pid, matching serial-number openings, and matching
// per-symbol confirmation codes. b is the committed ballot; open is the
// opening. Every mismatch yields a clean false rather than a crash — the
// original implementation had a code path that referenced an undefined
// name instead of returning a negative verdict, which would abort the
// whole run instead of reporting one bad opening.
func (b *Ballot) VerifyCodeOpenings(open *Ballot, constant []byte, callback CodeCallback) (bool, error) {
	if b.PID != open.PID {
		return false, nil
	}

	if open.BarcodeSerial != nil {
		message := bytes.Join([][]byte{commitment.DecimalASCII(b.PID), []byte(*open.BarcodeSerial)}, []byte(" "))
		computed, err := commitment.Commit(message, open.BarcodeSerialSalt, constant)
		if err != nil {
			return false, fmt.Errorf("ballot: recompute barcode serial commitment for pid %d: %w", b.PID, err)
		}
		if b.BarcodeSerialCommitment != computed {
			return false, nil
		}
	}

	webMessage := bytes.Join([][]byte{commitment.DecimalASCII(b.PID), []byte(open.WebSerial)}, []byte(" "))
	computedWeb, err := commitment.Commit(webMessage, open.WebSerialSalt, constant)
	if err != nil {
		return false, fmt.Errorf("ballot: recompute web serial commitment for pid %d: %w", b.PID, err)
	}
	if b.WebSerialCommitment != computedWeb {
		return false, nil
	}

	questionIDs := make([]string, 0, len(open.Questions))
	for qID := range open.Questions {
		questionIDs = append(questionIDs, qID)
	}
	sort.Strings(questionIDs)

	for _, qID := range questionIDs {
		committedSymbols, ok := b.Questions[qID]
		if !ok {
			return false, fmt.Errorf("ballot: pid %d: opening references unknown question %q", b.PID, qID)
		}
		for _, sID := range symbolIDs(open.Questions[qID]) {
			openSymbol := open.Questions[qID][sID]
			committedSymbol, ok := committedSymbols[sID]
			if !ok {
				return false, fmt.Errorf("ballot: pid %d: opening references unknown symbol %d in question %q",
					b.PID, sID, qID)
			}
			message := bytes.Join([][]byte{
				commitment.DecimalASCII(b.PID),
				[]byte(qID),
				commitment.DecimalASCII(sID),
				[]byte(openSymbol.Code),
			}, []byte(" "))
			computed, err := commitment.Commit(message, openSymbol.Salt, constant)
			if err != nil {
				return false, fmt.Errorf("ballot: pid %d: recompute code commitment for %s/%d: %w",
					b.PID, qID, sID, err)
			}
			if committedSymbol.Commitment != computed {
				return false, nil
			}
			if callback != nil {
				callback(open.WebSerial, b.PID, qID, sID, openSymbol.Code)
			}
		}
	}

	return true, nil
}
