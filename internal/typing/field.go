package typing

import (
	"strings"
)

// MatchAt reports whether typed matches target at index i, ignoring case.
// Positions past the end of target never match.
func MatchAt(target []rune, i int, typed rune) bool {
	if i < 0 || i >= len(target) {
		return false
	}
	return sameFold(target[i], typed)
}

// Complete reports whether input equals target, ignoring case.
func Complete(target, input string) bool {
	return strings.EqualFold(target, input)
}

// sameFold uses the same simple case folding as strings.EqualFold so a
// keystroke and the completion check never disagree.
func sameFold(a, b rune) bool {
	return a == b || strings.EqualFold(string(a), string(b))
}

// Field tracks typed input against one target term.
type Field struct {
	target []rune
	input  []rune
}

// NewField returns an empty field for target.
func NewField(target string) *Field {
	return &Field{target: []rune(target)}
}

// Target returns the string being typed.
func (f *Field) Target() string {
	return string(f.target)
}

// TargetRunes returns the target as runes.
func (f *Field) TargetRunes() []rune {
	return f.target
}

// Value returns the current input.
func (f *Field) Value() string {
	return string(f.input)
}

// InputRunes returns the current input as runes.
func (f *Field) InputRunes() []rune {
	return f.input
}

// Type appends r and reports whether it matched the target at its position.
func (f *Field) Type(r rune) bool {
	ok := MatchAt(f.target, len(f.input), r)
	f.input = append(f.input, r)
	return ok
}

// Backspace removes the last rune. Deletions are never judged.
func (f *Field) Backspace() {
	if len(f.input) == 0 {
		return
	}
	f.input = f.input[:len(f.input)-1]
}

// Set replaces the input with value and judges every rune added beyond the
// previous length. A shorter value records nothing.
func (f *Field) Set(value string) []bool {
	next := []rune(value)
	var judged []bool
	for i := len(f.input); i < len(next); i++ {
		judged = append(judged, MatchAt(f.target, i, next[i]))
	}
	f.input = next
	return judged
}

// Clear empties the input.
func (f *Field) Clear() {
	f.input = nil
}

// Complete reports whether the input equals the target.
func (f *Field) Complete() bool {
	return Complete(string(f.target), string(f.input))
}
