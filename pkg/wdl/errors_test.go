package wdl

import "testing"

func TestNewSyntaxError_CarriesSpanAndSourceURI(t *testing.T) {
	span := Span{SourceURI: "main.wdl", StartLine: 3, StartCol: 1}
	err := NewSyntaxError(span, "unexpected token %q", "}")
	if err.Kind != KindSyntaxError {
		t.Errorf("Kind = %v, want SyntaxError", err.Kind)
	}
	if err.SourceURI != "main.wdl" {
		t.Errorf("SourceURI = %q, want main.wdl", err.SourceURI)
	}
	if err.Message != `unexpected token "}"` {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewImportError_NoSpan(t *testing.T) {
	err := NewImportError("lib.wdl", "import cycle detected")
	if err.Kind != KindImportError {
		t.Errorf("Kind = %v, want ImportError", err.Kind)
	}
	if err.Span != nil {
		t.Errorf("Span = %+v, want nil", err.Span)
	}
}

func TestNewTypeError_Accumulable(t *testing.T) {
	span := Span{SourceURI: "t.wdl"}
	errs := ErrorList{
		NewTypeError(span, "cannot coerce Int to String"),
		NewTypeError(span, "unknown identifier x"),
	}
	if !errs.HasErrors() {
		t.Error("expected HasErrors true for a non-empty list")
	}
	if len(errs) != 2 {
		t.Errorf("len = %d, want 2", len(errs))
	}
}

func TestNewEvalError_CarriesReason(t *testing.T) {
	span := Span{SourceURI: "t.wdl"}
	err := NewEvalError(span, ReasonDivisionByZero, "division by zero")
	if err.Kind != KindEvalError {
		t.Errorf("Kind = %v, want EvalError", err.Kind)
	}
	if err.Reason != ReasonDivisionByZero {
		t.Errorf("Reason = %v, want DivisionByZero", err.Reason)
	}
}

func TestNewInternalError_CarriesNodeType(t *testing.T) {
	err := NewInternalError("*wdl.Call", "unexpected workflow element")
	if err.Kind != KindInternalError {
		t.Errorf("Kind = %v, want InternalError", err.Kind)
	}
	if err.NodeType != "*wdl.Call" {
		t.Errorf("NodeType = %q, want *wdl.Call", err.NodeType)
	}
}

func TestErrorList_HasErrorsEmpty(t *testing.T) {
	var errs ErrorList
	if errs.HasErrors() {
		t.Error("empty ErrorList should report HasErrors false")
	}
	if errs.Error() != "no errors" {
		t.Errorf("Error() = %q, want %q", errs.Error(), "no errors")
	}
}

func TestErrorList_ErrorSummarizesCount(t *testing.T) {
	span := Span{SourceURI: "t.wdl"}
	errs := ErrorList{
		NewTypeError(span, "first problem"),
		NewTypeError(span, "second problem"),
		NewTypeError(span, "third problem"),
	}
	msg := errs.Error()
	if !containsAll(msg, "first problem", "and 2 more errors") {
		t.Errorf("Error() = %q, want it to mention the first error and a count of the rest", msg)
	}
}

func TestError_ErrorStringIncludesSpanWhenPresent(t *testing.T) {
	span := Span{SourceURI: "t.wdl", StartLine: 2, StartCol: 5}
	err := NewTypeError(span, "boom")
	got := err.Error()
	if !containsAll(got, "TypeError", "boom") {
		t.Errorf("Error() = %q", got)
	}
}

func containsAll(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if !contains(s, sub) {
			return false
		}
	}
	return true
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
