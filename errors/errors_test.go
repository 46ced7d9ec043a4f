package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestEditorError(t *testing.T) {
	// Test basic error creation
	err := New(ErrCodeInvalidRange, "bad range")
	if err.Code != ErrCodeInvalidRange {
		t.Errorf("expected code %s, got %s", ErrCodeInvalidRange, err.Code)
	}

	// Test error wrapping
	cause := fmt.Errorf("underlying error")
	wrapped := Wrap(cause, ErrCodeCommandFailed, "command failed")

	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	if !Is(wrapped, ErrCodeCommandFailed) {
		t.Error("Is should return true for matching code")
	}

	if Is(wrapped, ErrCodeMarkdownParse) {
		t.Error("Is should return false for non-matching code")
	}

	detailed := err.WithDetail("from", 3).WithDetail("to", 1)
	if detailed.Details["from"] != 3 {
		t.Error("WithDetail should add details")
	}
}

func TestIsSeesNestedCodes(t *testing.T) {
	inner := InvalidRange(4, 2)
	outer := CommandFailed("deleteRange", inner)
	wrapped := fmt.Errorf("execute: %w", outer)

	if !Is(wrapped, ErrCodeCommandFailed) {
		t.Error("Is should find the outer code through fmt wrapping")
	}
	if !Is(wrapped, ErrCodeInvalidRange) {
		t.Error("Is should find the cause's code")
	}
	if got := GetCode(wrapped); got != ErrCodeCommandFailed {
		t.Errorf("GetCode = %s, want %s", got, ErrCodeCommandFailed)
	}
	if GetCode(nil) != "" {
		t.Error("GetCode(nil) should be empty")
	}
}

func TestErrorConstructors(t *testing.T) {
	err := AnchorUnresolved(12)
	if err.Code != ErrCodeAnchorUnresolved {
		t.Errorf("expected code %s, got %s", ErrCodeAnchorUnresolved, err.Code)
	}
	if err.Details["pos"] != 12 {
		t.Error("AnchorUnresolved should include pos detail")
	}

	err = EditorUnavailable("deleteRange")
	if err.Details["op"] != "deleteRange" {
		t.Error("EditorUnavailable should include op detail")
	}

	parse := MarkdownParse(fmt.Errorf("boom"))
	if parse.Error() != "MARKDOWN_PARSE: error parsing markdown (caused by: boom)" {
		t.Errorf("unexpected message: %s", parse.Error())
	}
}

func TestIsSearchesJoinedErrors(t *testing.T) {
	joined := stderrors.Join(fmt.Errorf("first"), fmt.Errorf("op: %w", MarkdownSerialize(fmt.Errorf("x"))))
	if !Is(joined, ErrCodeMarkdownSerialize) {
		t.Error("Is should look inside joined errors")
	}
	if Is(joined, ErrCodeMarkdownParse) {
		t.Error("Is matched a code that is not present")
	}
	if e, ok := As(joined); !ok || e.Code != ErrCodeMarkdownSerialize {
		t.Errorf("As = %v, %v", e, ok)
	}
	if _, ok := As(fmt.Errorf("plain")); ok {
		t.Error("As should fail for plain errors")
	}
}
