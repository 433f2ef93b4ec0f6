package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, WARN).WithColor(false)
	l.Debug("should not appear")
	l.Info("should not appear either")
	l.Warn("this appears")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Fatalf("expected DEBUG/INFO to be filtered, got %q", out)
	}
	if !strings.Contains(out, "this appears") {
		t.Fatalf("expected WARN line, got %q", out)
	}
	if !strings.Contains(out, "[WARN]") {
		t.Fatalf("expected level tag in output, got %q", out)
	}
}

func TestLoggerWithFieldsAppendsKeyValuePairs(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, DEBUG).WithColor(false).WithFields("table", "items", "opcode", "Get")
	l.Info("dispatching request")

	out := buf.String()
	if !strings.Contains(out, "table=items") || !strings.Contains(out, "opcode=Get") {
		t.Fatalf("expected field pairs in output, got %q", out)
	}
}

func TestLoggerWithFieldsDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	base := New(&buf, DEBUG).WithColor(false)
	child := base.WithFields("req_id", "abc")

	base.Info("from base")
	child.Info("from child")

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
	if strings.Contains(lines[0], "req_id") {
		t.Fatalf("expected base logger's line to have no fields, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "req_id=abc") {
		t.Fatalf("expected child logger's line to carry its field, got %q", lines[1])
	}
}

func TestNopDiscardsEverything(t *testing.T) {
	l := Nop()
	l.Error("this should vanish")
}

func TestLoggerNoColorWhenDisabled(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, DEBUG).WithColor(false)
	l.Info("plain")
	if strings.Contains(buf.String(), "\033[") {
		t.Fatalf("expected no ANSI escapes with color disabled, got %q", buf.String())
	}
}
