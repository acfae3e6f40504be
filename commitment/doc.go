// Package commitment implements the Scantegrity commitment scheme: an
// AES-ECB derived sub-key followed by double SHA-256, plus the byte-exact
// message encodings consumed by the table and ballot packages.
//
// Compatibility with the authority's implementation is bit-exact: the
// concatenation order, the reuse of the derived sub-key as an AES key in the
// second round, and the absence of padding are all load-bearing and must not
// be "cleaned up".
package commitment
