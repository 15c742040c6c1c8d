package formula

import (
	"errors"
	"fmt"

	"github.com/statmodel/formula/internal/expr"
)

// BuildError represents an error detected while turning a formula into a
// terms table, model frame, or model matrix.
//
// The whole pipeline is a one-shot transform: every BuildError is terminal
// for the current build and carries the offending expression or column so
// callers can report precisely. No partial results accompany an error.
type BuildError struct {
	// Code identifies the error category.
	Code BuildErrorCode

	// Message is a human-readable description.
	Message string

	// Expr is the offending term or expression, when one exists.
	Expr expr.Node

	// Column is the offending column or evaluation-term name, when one exists.
	Column string
}

// BuildErrorCode categorizes build errors.
type BuildErrorCode string

const (
	// ErrCodeMalformedExpression indicates a node that cannot participate in
	// the term algebra (nil node, empty call, or an operator with too few
	// operands).
	ErrCodeMalformedExpression BuildErrorCode = "MALFORMED_EXPRESSION"

	// ErrCodeInsufficientLevels indicates a categorical column with fewer
	// than two observed levels while contrasts were requested.
	ErrCodeInsufficientLevels BuildErrorCode = "INSUFFICIENT_LEVELS"

	// ErrCodeInvalidBase indicates a contrast base level outside 1..k.
	ErrCodeInvalidBase BuildErrorCode = "INVALID_BASE"

	// ErrCodeUnsupportedInteractionOrder indicates a term combining three or
	// more evaluation terms, which the matrix builder does not expand.
	ErrCodeUnsupportedInteractionOrder BuildErrorCode = "UNSUPPORTED_INTERACTION_ORDER"

	// ErrCodeMissingResponse indicates a response was requested from a
	// one-sided formula.
	ErrCodeMissingResponse BuildErrorCode = "MISSING_RESPONSE"

	// ErrCodeUnknownColumn indicates an evaluation term that resolves to no
	// column in the source table.
	ErrCodeUnknownColumn BuildErrorCode = "UNKNOWN_COLUMN"

	// ErrCodeCompositeTermName indicates a coefficient-name request for a
	// term spanning several evaluation terms; no composite labeling scheme
	// is defined for those.
	ErrCodeCompositeTermName BuildErrorCode = "COMPOSITE_TERM_NAME"
)

// Error implements the error interface.
func (e *BuildError) Error() string {
	switch {
	case e.Expr != nil:
		return fmt.Sprintf("%s: %s (expr=%s)", e.Code, e.Message, expr.Name(e.Expr))
	case e.Column != "":
		return fmt.Sprintf("%s: %s (column=%s)", e.Code, e.Message, e.Column)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// CodeOf extracts the BuildErrorCode from an error, or "" if the error is
// not a BuildError. Uses errors.As to handle wrapped errors.
func CodeOf(err error) BuildErrorCode {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// NewMalformedError creates a BuildError for an expression the algebra
// cannot process.
func NewMalformedError(message string, n expr.Node) *BuildError {
	return &BuildError{Code: ErrCodeMalformedExpression, Message: message, Expr: n}
}

// NewUnknownColumnError creates a BuildError for an unresolvable column.
func NewUnknownColumnError(name string) *BuildError {
	return &BuildError{
		Code:    ErrCodeUnknownColumn,
		Message: "no column with this name in the source table",
		Column:  name,
	}
}
