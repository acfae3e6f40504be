// Package scantegrity ties the commitment, permutation, election, table,
// ballot, artifact, and meeting packages together into the independent
// verifier described by this repository: load a committed election
// database, then check Meeting 2's print audit and Meeting 3's tally
// reveal against it.
package scantegrity
