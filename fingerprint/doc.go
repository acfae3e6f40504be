// Package fingerprint implements the append-only ledger of artifact hashes
// that backs the verifier's human-readable audit report.
package fingerprint
