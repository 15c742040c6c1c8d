// Package formula implements the term algebra that turns a formula's
// right-hand side into a canonical, ordered terms table.
//
// The pipeline is a fixed sequence of pure rewrites:
//
//  1. Distribute * over interactions (pairwise right-to-left fold)
//  2. Flatten nested calls of the associative operators + * &
//  3. Split the top-level sum into terms, consuming intercept markers
//  4. Stable-sort terms by interaction order
//  5. Extract evaluation terms and assemble the incidence matrix
//
// The * fold is intentionally pairwise: a*b*c expands to
// a + b + c + b&c + a&(b+c+b&c), not the full power-set of interaction
// subsets. Downstream stages treat the composite last term like any other.
package formula
