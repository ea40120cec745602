// Package codec provides the built-in fixed-width cell codecs: text, integer,
// implied-decimal, date, each configured through a fixedwidth option table.
package codec

import (
	"fmt"

	fixedwidth "github.com/reoring/fixedwidth"
)

// Align selects which side of the cell a value hugs; padding fills the rest.
type Align int

const (
	Left Align = iota
	Right
)

// alignValue normalizes an align option: Align values pass through, the
// strings "left"/"right" (layout documents) are translated.
func alignValue(v any) (any, error) {
	switch a := v.(type) {
	case Align:
		if a != Left && a != Right {
			return nil, fmt.Errorf("unknown align %d", a)
		}
		return a, nil
	case string:
		switch a {
		case "left":
			return Left, nil
		case "right":
			return Right, nil
		}
		return nil, fmt.Errorf("unknown align %q", a)
	}
	return nil, fmt.Errorf("expected Align or string, got %T", v)
}

// padValue normalizes a pad option: a rune, or a one-codepoint string.
func padValue(v any) (any, error) {
	switch p := v.(type) {
	case rune:
		return p, nil
	case string:
		rs := []rune(p)
		if len(rs) != 1 {
			return nil, fmt.Errorf("pad must be a single codepoint, got %q", p)
		}
		return rs[0], nil
	}
	return nil, fmt.Errorf("expected rune or string, got %T", v)
}

func boolValue(v any) error {
	if _, ok := v.(bool); !ok {
		return fmt.Errorf("expected bool, got %T", v)
	}
	return nil
}

func intValue(v any) error {
	if _, ok := v.(int); !ok {
		return fmt.Errorf("expected int, got %T", v)
	}
	return nil
}

func configIssue(name, hint string, cause error) error {
	return fixedwidth.Issues{{
		Path:    "/" + name,
		Code:    fixedwidth.CodeConfig,
		Message: hint,
		Hint:    hint,
		Cause:   cause,
		Offset:  -1,
	}}
}

func checkLength(name string, length int) error {
	if length > 0 {
		return nil
	}
	return configIssue(name, "column length must be positive", nil)
}

// cellString converts a record value for formatting; nil becomes the empty
// string so absent keys fall back to pure padding.
func cellString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(v)
	}
}
