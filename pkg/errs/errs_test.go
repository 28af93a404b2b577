package errs

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNewCapturesCallerLocation(t *testing.T) {
	err := New(InvalidPath, "bad path")
	if err.File == "" || err.Line == 0 {
		t.Errorf("expected New to capture a caller file/line, got File=%q Line=%d", err.File, err.Line)
	}
	if !strings.HasSuffix(err.File, "errs_test.go") {
		t.Errorf("expected caller file to be this test file, got %q", err.File)
	}
}

func TestErrorFormatsCodeAndMessage(t *testing.T) {
	err := New(LogicError, "SCL not loaded")
	if err.Error() != "[logic-error] SCL not loaded" {
		t.Errorf("Error() = %q, expected [logic-error] SCL not loaded", err.Error())
	}
}

func TestErrorFormatsWithCauseWhenWrapped(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(cause, FileNotFound, "failed to load config file")

	got := err.Error()
	if !strings.Contains(got, "file-not-found") || !strings.Contains(got, "disk full") {
		t.Errorf("Error() = %q, expected it to mention both the code and the cause", got)
	}
}

func TestUnwrapReturnsCause(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(cause, XMLParseError, "parse failed")

	if errors.Unwrap(err) != cause {
		t.Error("Unwrap should return the original cause")
	}
}

func TestIsComparesByCode(t *testing.T) {
	a := New(SchemaNotSupported, "first message")
	b := New(SchemaNotSupported, "second, unrelated message")
	c := New(LogicError, "first message")

	if !errors.Is(a, b) {
		t.Error("two EngineErrors with the same code should satisfy errors.Is")
	}
	if errors.Is(a, c) {
		t.Error("EngineErrors with different codes should not satisfy errors.Is")
	}
}

func TestWithContextChainsAndAccumulates(t *testing.T) {
	err := New(MissingMandatoryField, "missing name").
		WithContext("element", "Substation").
		WithContext("path", "SS1/VL1")

	if err.Context["element"] != "Substation" || err.Context["path"] != "SS1/VL1" {
		t.Errorf("expected both context keys to accumulate, got %+v", err.Context)
	}
}

func TestGetCodeUnwrapsThroughFmtErrorf(t *testing.T) {
	base := New(InvalidPath, "bad path")
	wrapped := fmt.Errorf("while walking tree: %w", base)

	if GetCode(wrapped) != InvalidPath {
		t.Errorf("GetCode should unwrap through fmt.Errorf's %%w, got %v", GetCode(wrapped))
	}
}

func TestGetCodeReturnsEmptyForPlainError(t *testing.T) {
	if got := GetCode(errors.New("plain error")); got != "" {
		t.Errorf("GetCode on a plain error should return empty code, got %q", got)
	}
}
