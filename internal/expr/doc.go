// Package expr provides the expression-tree representation for model formulas.
//
// This package contains node types only. All other internal packages import
// expr; expr imports nothing internal. This keeps the expression tree the
// foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Node is a closed union: Symbol, Call, and Literal are the only shapes
//   - Nodes are treated as immutable; rewrites clone before mutating
//   - Symbol names and rendered forms are NFC normalized so two spellings of
//     the same name never produce distinct vocabulary entries
package expr
