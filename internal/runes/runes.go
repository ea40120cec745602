// Package runes holds codepoint-aware slicing and padding helpers shared by
// the traversal and the concrete codecs.
package runes

import "strings"

// Slice returns the codepoint range [from, from+n) of line, clamped to the
// available input. Fully out-of-range slices yield "".
func Slice(line []rune, from, n int) string {
	if from < 0 {
		from = 0
	}
	if from >= len(line) || n <= 0 {
		return ""
	}
	to := from + n
	if to > len(line) {
		to = len(line)
	}
	return string(line[from:to])
}

// Count reports the number of codepoints in s.
func Count(s string) int {
	return len([]rune(s))
}

// PadLeft left-pads s with pad up to width codepoints.
func PadLeft(s string, width int, pad rune) string {
	n := width - Count(s)
	if n <= 0 {
		return s
	}
	return strings.Repeat(string(pad), n) + s
}

// PadRight right-pads s with pad up to width codepoints.
func PadRight(s string, width int, pad rune) string {
	n := width - Count(s)
	if n <= 0 {
		return s
	}
	return s + strings.Repeat(string(pad), n)
}

// Truncate returns the first n codepoints of s.
func Truncate(s string, n int) string {
	rs := []rune(s)
	if n >= len(rs) {
		return s
	}
	if n < 0 {
		n = 0
	}
	return string(rs[:n])
}
