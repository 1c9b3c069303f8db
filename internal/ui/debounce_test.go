package ui

import (
	"testing"
	"time"
)

func TestDebouncerLatestInputWins(t *testing.T) {
	d := debouncer[string]{delay: time.Millisecond}

	first := drain(d.input("first"))
	second := drain(d.input("second"))

	// The first tick is superseded and must not settle.
	if _, ok := d.settle(first[0].(settledMsg[string])); ok {
		t.Error("superseded input settled")
	}

	value, ok := d.settle(second[0].(settledMsg[string]))
	if !ok {
		t.Fatal("latest input did not settle")
	}
	if value != "second" {
		t.Errorf("settled value = %q, want %q", value, "second")
	}
}

func TestDebouncerSettleOnlyOnce(t *testing.T) {
	d := debouncer[int]{delay: time.Millisecond}

	msgs := drain(d.input(42))
	msg := msgs[0].(settledMsg[int])

	if _, ok := d.settle(msg); !ok {
		t.Fatal("first settle rejected")
	}

	// A new input after the settle invalidates the old tick.
	d.input(43)
	if _, ok := d.settle(msg); ok {
		t.Error("stale tick settled after newer input")
	}
}

func TestDebouncerCarriesStampedValue(t *testing.T) {
	d := debouncer[previewInput]{delay: time.Millisecond}

	in := previewInput{pattern: "{show} - {title}"}
	msgs := drain(d.input(in))

	settled, ok := d.settle(msgs[0].(settledMsg[previewInput]))
	if !ok {
		t.Fatal("input did not settle")
	}
	if settled.pattern != in.pattern {
		t.Errorf("settled pattern = %q, want %q", settled.pattern, in.pattern)
	}
}
