package notify

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsoleNotices(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWithWriter(&buf)

	c.Warnf("balance exceeded by %d", 50)
	c.Errorf("listening error")
	c.Successf("processed %d items", 3)

	out := buf.String()
	for _, want := range []string{
		"! balance exceeded by 50",
		"x listening error",
		"+ processed 3 items",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q, got:\n%s", want, out)
		}
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Warnf("w%d", 1)
	r.Errorf("e%d", 2)
	r.Successf("s%d", 3)

	if len(r.Warnings) != 1 || r.Warnings[0] != "w1" {
		t.Errorf("Warnings = %v", r.Warnings)
	}
	if len(r.Errors) != 1 || r.Errors[0] != "e2" {
		t.Errorf("Errors = %v", r.Errors)
	}
	if len(r.Successes) != 1 || r.Successes[0] != "s3" {
		t.Errorf("Successes = %v", r.Successes)
	}
}
