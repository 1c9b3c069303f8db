package naming

import (
	"fmt"
	"unicode/utf8"
)

// MaxReplacementLen is the longest space-replacement token the server accepts.
const MaxReplacementLen = 5

// Replacement is the optional substitution applied to spaces in generated
// filenames. "Keep spaces" is represented distinctly from an empty token so
// the wire format can omit the field entirely when no replacement is wanted.
type Replacement struct {
	token string
	set   bool
}

// KeepSpaces returns the absent replacement (spaces are left alone).
func KeepSpaces() Replacement {
	return Replacement{}
}

// Dots replaces spaces with ".".
func Dots() Replacement {
	return Replacement{token: ".", set: true}
}

// Underscores replaces spaces with "_".
func Underscores() Replacement {
	return Replacement{token: "_", set: true}
}

// NewReplacement builds a replacement from an arbitrary short token.
func NewReplacement(token string) (Replacement, error) {
	if token == "" {
		return Replacement{}, fmt.Errorf("replacement token is empty (use KeepSpaces to disable replacement)")
	}
	if n := utf8.RuneCountInString(token); n > MaxReplacementLen {
		return Replacement{}, fmt.Errorf("replacement token %q is %d characters, maximum is %d", token, n, MaxReplacementLen)
	}
	return Replacement{token: token, set: true}, nil
}

// IsSet reports whether a replacement token is active.
func (r Replacement) IsSet() bool {
	return r.set
}

// Param returns the value to transmit: nil when spaces are kept, otherwise
// a pointer to the token.
func (r Replacement) Param() *string {
	if !r.set {
		return nil
	}
	token := r.token
	return &token
}

// Label returns a short human-readable description for display.
func (r Replacement) Label() string {
	if !r.set {
		return "keep spaces"
	}
	return fmt.Sprintf("%q", r.token)
}
