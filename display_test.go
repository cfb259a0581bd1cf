package scheme

import (
	"strings"
	"testing"
)

func TestDisplayStringIsUnquoted(t *testing.T) {
	var buf strings.Builder
	it := &Interpreter{Out: &buf}
	it.display(StringV("hello"))
	if buf.String() != "hello" {
		t.Errorf("got %q, want %q", buf.String(), "hello")
	}
}

func TestDisplayNonStringUsesCanonicalForm(t *testing.T) {
	var buf strings.Builder
	it := &Interpreter{Out: &buf}
	it.display(IntegerV(42))
	if buf.String() != "42" {
		t.Errorf("got %q, want %q", buf.String(), "42")
	}
}
