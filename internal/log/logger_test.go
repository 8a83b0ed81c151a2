package log

import (
	"bytes"
	"testing"
)

func TestPrintf_Enabled(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, true)

	l.Printf("loaded %d documents from %s", 412, "coded_batch_1.csv")

	want := "loaded 412 documents from coded_batch_1.csv\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrintf_Disabled(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)

	l.Printf("loaded %d documents", 412)

	if got := buf.String(); got != "" {
		t.Errorf("expected no output, got %q", got)
	}
}

func TestPrintf_NilReceiver(t *testing.T) {
	var l *Logger
	l.Printf("should not panic")
}

func TestPrintf_MultipleMessages(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, true)

	l.Printf("cohort: %s %d", "Los Angeles County", 2021)
	l.Printf("baseline empty for %s %d", "Alameda County", 2015)

	want := "cohort: Los Angeles County 2021\nbaseline empty for Alameda County 2015\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
