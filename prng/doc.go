// Package prng implements the seeded, rejection-sampled pseudo-random index
// generation used to derive the Meeting-2 challenge set deterministically
// from publicly published randomness.
package prng
