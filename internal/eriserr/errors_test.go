package eriserr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ExtractionFailure, "tree walk failed").WithFile("src/app.js")

	msg := err.Error()
	if !strings.Contains(msg, string(ExtractionFailure)) {
		t.Errorf("message missing code: %q", msg)
	}
	if !strings.Contains(msg, "src/app.js") {
		t.Errorf("message missing file: %q", msg)
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("disk gone")
	err := Wrap(ExtractionFailure, "read failed", cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
}

func TestHasCode(t *testing.T) {
	err := New(UnsupportedLanguage, "no extractor for .rs")

	if !HasCode(err, UnsupportedLanguage) {
		t.Error("HasCode missed matching code")
	}
	if HasCode(err, ExtractionFailure) {
		t.Error("HasCode matched wrong code")
	}
	if HasCode(errors.New("plain"), UnsupportedLanguage) {
		t.Error("HasCode matched a non-analysis error")
	}
	if HasCode(nil, UnsupportedLanguage) {
		t.Error("HasCode matched nil")
	}
}

func TestHasCodeThroughWrapping(t *testing.T) {
	inner := New(MetricComputationFailure, "betweenness inapplicable")
	outer := fmt.Errorf("evaluating: %w", inner)

	if !HasCode(outer, MetricComputationFailure) {
		t.Error("HasCode should see through fmt.Errorf wrapping")
	}
}
