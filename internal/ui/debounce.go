package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// debouncer delays propagation of a fast-changing value until it has been
// stable for the configured interval. Every input supersedes the previous
// one: each schedules a settle tick stamped with a sequence number, and
// only the tick matching the latest sequence is honored. Stale ticks,
// including ones that fire after the owning model has been replaced, fall
// through as ignored messages.
type debouncer[T any] struct {
	seq   int
	delay time.Duration
}

// settledMsg carries a debounced value back into the update loop.
type settledMsg[T any] struct {
	seq   int
	value T
}

// input registers a new value and schedules its settle tick.
func (d *debouncer[T]) input(value T) tea.Cmd {
	d.seq++
	seq := d.seq
	delay := d.delay
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return settledMsg[T]{seq: seq, value: value}
	})
}

// settle returns the value if msg belongs to the most recent input.
func (d *debouncer[T]) settle(msg settledMsg[T]) (T, bool) {
	if msg.seq != d.seq {
		var zero T
		return zero, false
	}
	return msg.value, true
}
