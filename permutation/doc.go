// Package permutation implements the permutation algebra used to
// cross-check the Print-table and Decryption-table reveals: a bijection
// type over [0,n) with composition and inversion, plus the partitioned
// tree-splitting of a flat concatenated-permutation stream against an
// election's partition map.
package permutation
