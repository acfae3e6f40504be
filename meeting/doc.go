// Package meeting orchestrates the three public meetings of a Scantegrity
// verification run: ingesting the committed election database (Meeting 1),
// checking the reproducibility and consistency of Meeting 2's challenge
// response, and checking Meeting 3's complementary reveal and tally
// reconstruction.
package meeting
