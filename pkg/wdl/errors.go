package wdl

import "fmt"

// ErrorKind is one of the five mutually exclusive error kinds of
// spec.md §7. Grounded on the teacher's pkg/model.ErrorCode /
// APIError shape, re-keyed to the WDL front end's own kinds.
type ErrorKind string

const (
	KindSyntaxError   ErrorKind = "SyntaxError"
	KindImportError   ErrorKind = "ImportError"
	KindTypeError     ErrorKind = "TypeError"
	KindEvalError     ErrorKind = "EvalError"
	KindInternalError ErrorKind = "InternalError"
)

// EvalErrorReason enumerates the EvalError sub-reasons named in
// spec.md §7.
type EvalErrorReason string

const (
	ReasonDivisionByZero    EvalErrorReason = "DivisionByZero"
	ReasonIndexOutOfBounds  EvalErrorReason = "IndexOutOfBounds"
	ReasonStdlibFailure     EvalErrorReason = "StdlibFailure"
	ReasonMissingBinding    EvalErrorReason = "MissingBinding"
	ReasonBadCoercion       EvalErrorReason = "UnrepresentableCoercion"
)

// Error is the caller-facing error envelope: { kind, span?, message,
// sourceUri } (spec.md §6).
type Error struct {
	Kind      ErrorKind
	Span      *Span
	Message   string
	SourceURI string
	Reason    EvalErrorReason // set only when Kind == KindEvalError

	// NodeType is set only for InternalError, naming the unexpected
	// node type for debugging (spec.md §7).
	NodeType string
}

func (e *Error) Error() string {
	if e.Span != nil {
		return fmt.Sprintf("%s: %s at %s", e.Kind, e.Message, e.Span)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewSyntaxError builds a fatal SyntaxError at span.
func NewSyntaxError(span Span, format string, args ...any) *Error {
	return &Error{Kind: KindSyntaxError, Span: &span, Message: fmt.Sprintf(format, args...), SourceURI: span.SourceURI}
}

// NewImportError builds a fatal ImportError.
func NewImportError(sourceURI string, format string, args ...any) *Error {
	return &Error{Kind: KindImportError, Message: fmt.Sprintf(format, args...), SourceURI: sourceURI}
}

// NewTypeError builds an accumulated (non-fatal-per-occurrence) TypeError at span.
func NewTypeError(span Span, format string, args ...any) *Error {
	return &Error{Kind: KindTypeError, Span: &span, Message: fmt.Sprintf(format, args...), SourceURI: span.SourceURI}
}

// NewEvalError builds an EvalError with a specific reason.
func NewEvalError(span Span, reason EvalErrorReason, format string, args ...any) *Error {
	return &Error{Kind: KindEvalError, Span: &span, Reason: reason, Message: fmt.Sprintf(format, args...), SourceURI: span.SourceURI}
}

// NewInternalError builds a fatal InternalError naming the offending node type.
func NewInternalError(nodeType string, format string, args ...any) *Error {
	return &Error{Kind: KindInternalError, NodeType: nodeType, Message: fmt.Sprintf(format, args...)}
}

// ErrorList accumulates TypeErrors across an inference pass (spec.md
// §4.4's failure semantics: errors accumulate, inference continues).
type ErrorList []*Error

func (l ErrorList) Error() string {
	if len(l) == 0 {
		return "no errors"
	}
	if len(l) == 1 {
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0].Error(), len(l)-1)
}

// HasErrors reports whether the list is non-empty.
func (l ErrorList) HasErrors() bool { return len(l) > 0 }
