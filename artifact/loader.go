package artifact

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/scantegrity/verify/commitment"
	"github.com/scantegrity/verify/fingerprint"
	"github.com/scantegrity/verify/verifyerr"
)

// Loader reads artifact files from a data directory, fingerprinting every
// one it loads.
type Loader struct {
	dataDir string
	ledger  *fingerprint.Ledger
}

// NewLoader returns a Loader rooted at dataDir, recording fingerprints into
// ledger.
func NewLoader(dataDir string, ledger *fingerprint.Ledger) *Loader {
	return &Loader{dataDir: dataDir, ledger: ledger}
}

// Load reads dataDir/file, applying the Windows newline correction when
// correctWindows is set and the file contains no carriage returns at all
// (the signal that it was exported with bare LF line endings and needs
// normalizing before the byte-exact commitment checks run against it), then
// records its SHA-1 fingerprint under label.
func (l *Loader) Load(file, label string, correctWindows bool) ([]byte, error) {
	path := filepath.Join(l.dataDir, file)
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, verifyerr.Input("could not find file %s: %v", path, err)
	}

	if correctWindows && !bytes.Contains(contents, []byte{'\r'}) {
		contents = bytes.ReplaceAll(contents, []byte{'\n'}, []byte{'\r', '\n'})
	}

	l.ledger.Add(label, commitment.SHA1Hex(contents))
	return contents, nil
}
