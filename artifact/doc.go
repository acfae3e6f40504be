// Package artifact loads the election data files from disk, recording a
// fingerprint of each one as it is read, and applies the Windows newline
// correction the authority's export tooling has historically needed.
package artifact
