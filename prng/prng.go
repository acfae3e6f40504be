package prng

import (
	"crypto/sha1"
	"math/big"
	"strconv"
)

// Int returns a pseudo-random integer in [0, modulus) derived from seed and
// index: SHA1(seed || decimal-ASCII(index)) interpreted as a big-endian
// unsigned integer, reduced modulo modulus.
func Int(seed []byte, index int, modulus int) int {
	hashInput := make([]byte, 0, len(seed)+20)
	hashInput = append(hashInput, seed...)
	hashInput = append(hashInput, []byte(strconv.Itoa(index))...)

	sum := sha1.Sum(hashInput)
	h := new(big.Int).SetBytes(sum[:])
	m := big.NewInt(int64(modulus))
	return int(new(big.Int).Mod(h, m).Int64())
}

// IntList generates n distinct pseudo-random integers in [0, modulus),
// starting from counter 0 and incrementing until n distinct values have been
// produced. Values already present are discarded and the counter advances;
// the returned order is the order of first appearance.
func IntList(seed []byte, modulus, n int) []int {
	seen := make(map[int]bool, n)
	out := make([]int, 0, n)
	for counter := 0; len(out) < n; counter++ {
		candidate := Int(seed, counter, modulus)
		if seen[candidate] {
			continue
		}
		seen[candidate] = true
		out = append(out, candidate)
	}
	return out
}
