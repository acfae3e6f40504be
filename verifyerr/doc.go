// Package verifyerr distinguishes the three kinds of failure a verification
// run can end in: a problem with the inputs themselves, a violation of the
// data model's structural invariants, and a negative verification verdict.
// The first two are fatal — the run could not be completed — while the
// third is a normal, non-fatal outcome that simply means the evidence does
// not check out.
package verifyerr
