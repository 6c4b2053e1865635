package faults_test

import (
	"errors"
	"strings"
	"testing"

	"im2rec/internal/faults"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := faults.Wrap(faults.ErrDecode, "pipeline", "decode", "cat.jpg", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, faults.ErrDecode) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"pipeline", "decode", "cat.jpg", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := faults.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, faults.ErrOutput) {
		t.Fatalf("expected nil marker to default to ErrOutput, got %v", err)
	}
	if !strings.Contains(err.Error(), "pipeline failure") {
		t.Fatalf("expected default detail, got %q", err.Error())
	}
}

func TestKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{faults.Wrap(faults.ErrConfiguration, "config", "validate", "bad color", nil), "configuration"},
		{faults.Wrap(faults.ErrInvalidEntry, "list", "parse", "", nil), "invalid_entry"},
		{faults.Wrap(faults.ErrSource, "pipeline", "load", "", nil), "source"},
		{faults.Wrap(faults.ErrEncode, "pipeline", "encode", "", nil), "encode"},
		{errors.New("plain"), "unknown"},
	}
	for _, tc := range cases {
		if got := faults.Kind(tc.err); got != tc.want {
			t.Fatalf("Kind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
