// Package election models the static election specification: sections,
// questions, answer types, and the partition map that groups questions for
// joint mixing across D-table instances.
package election
