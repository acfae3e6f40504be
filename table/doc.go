// Package table models the print table (P), decrypt tables (D), and result
// tables (R) that make up the election database: parsed rows of commitments,
// salts, and revealed permutations, plus the commitment-reveal checks each
// table type supports.
package table
