// Package testfixture computes the commitment values that print-table and
// decrypt-table rows carry, shared by this repository's package tests, so each
// test file doesn't have to hand-roll the commitment-message layout itself.
package testfixture

import (
	"fmt"

	"github.com/scantegrity/verify/commitment"
)

// PCommitments computes the c1/c2 commitment pair a print-table row would
// carry for row id, coded permutation p1, and decoded permutation p2.
func PCommitments(rowID int, p1, p2 []int, keyB64 string, constant []byte) (c1, c2 string, err error) {
	c1, err = permutationCommitment(rowID, p1, keyB64, constant)
	if err != nil {
		return "", "", fmt.Errorf("testfixture: c1: %w", err)
	}
	c2, err = permutationCommitment(rowID, p2, keyB64, constant)
	if err != nil {
		return "", "", fmt.Errorf("testfixture: c2: %w", err)
	}
	return c1, c2, nil
}

func permutationCommitment(rowID int, perm []int, keyB64 string, constant []byte) (string, error) {
	packed, err := commitment.PackBytes(perm)
	if err != nil {
		return "", err
	}
	message := append(commitment.DecimalASCII(rowID), packed...)
	return commitment.Commit(message, keyB64, constant)
}

// DCommitments computes the cl/cr commitment pair a decrypt-table row would
// carry for the given partition/instance/row id, its print-table reference
// pid, result-table reference rid, and left/right permutations d2 and d4.
func DCommitments(partitionID, instanceID, rowID, pid, rid int, d2, d4 []int, keyB64 string, constant []byte) (cl, cr string, err error) {
	cl, err = dCommitment(partitionID, instanceID, rowID, pid, d2, keyB64, constant)
	if err != nil {
		return "", "", fmt.Errorf("testfixture: cl: %w", err)
	}
	cr, err = dCommitment(partitionID, instanceID, rowID, rid, d4, keyB64, constant)
	if err != nil {
		return "", "", fmt.Errorf("testfixture: cr: %w", err)
	}
	return cl, cr, nil
}

func dCommitment(partitionID, instanceID, rowID, externalID int, perm []int, keyB64 string, constant []byte) (string, error) {
	packed, err := commitment.PackBytes(perm)
	if err != nil {
		return "", err
	}
	message := []byte{byte(partitionID), byte(instanceID)}
	message = append(message, commitment.DecimalASCII(rowID)...)
	message = append(message, commitment.DecimalASCII(externalID)...)
	message = append(message, packed...)
	return commitment.Commit(message, keyB64, constant)
}
