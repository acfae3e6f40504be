// Package ballot models printed ballots: the committed symbol table used to
// verify a ballot's encoding against the print table, and the code-opening
// checks used when a voter reveals a confirmation code.
package ballot
