package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewWithOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput("warn", &buf)

	if l.GetLevel() != logrus.WarnLevel {
		t.Fatalf("level = %v, want warn", l.GetLevel())
	}
	l.Info("hidden")
	l.Warn("shown")
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	if l := NewWithOutput("loud", &bytes.Buffer{}); l.GetLevel() != logrus.InfoLevel {
		t.Errorf("level = %v, want info", l.GetLevel())
	}
}
