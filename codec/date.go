package codec

import (
	"strings"
	"time"

	fixedwidth "github.com/reoring/fixedwidth"
	"github.com/reoring/fixedwidth/internal/runes"
)

// DateOptions declares the options a date column accepts.
var DateOptions = fixedwidth.NewSpec(
	fixedwidth.OptionDef{Name: "pad", Transform: padValue, Default: ' ', HasDefault: true},
	fixedwidth.OptionDef{Name: "nil_blank", Validate: boolValue},
)

type dateCodec struct {
	name   string
	length int
	layout string
	opts   *fixedwidth.Options
}

// Date returns a time.Time codec using a Go time layout (e.g. "20060102").
// Canonical formatting mirrors the layout exactly; a blank cell parses to nil.
func Date(name string, length int, layout string, values map[string]any) (fixedwidth.Codec, error) {
	if err := checkLength(name, length); err != nil {
		return nil, err
	}
	if layout == "" {
		return nil, configIssue(name, "date layout must not be empty", nil)
	}
	opts, err := DateOptions.New(values)
	if err != nil {
		return nil, err
	}
	return &dateCodec{name: name, length: length, layout: layout, opts: opts}, nil
}

// MustDate is like Date but panics on error.
func MustDate(name string, length int, layout string, values map[string]any) fixedwidth.Codec {
	c, err := Date(name, length, layout, values)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *dateCodec) Name() string                 { return c.name }
func (c *dateCodec) Length() int                  { return c.length }
func (c *dateCodec) Options() *fixedwidth.Options { return c.opts }

func (c *dateCodec) Parse(cell string) (any, error) {
	t := strings.TrimSpace(cell)
	if t == "" {
		return nil, nil
	}
	v, err := time.Parse(c.layout, t)
	if err != nil {
		return nil, fixedwidth.Issues{{
			Path:    "/",
			Code:    fixedwidth.CodeParseError,
			Message: "does not match date layout",
			Cause:   err,
			Params:  map[string]any{"cell": cell, "layout": c.layout},
			Offset:  -1,
		}}
	}
	return v, nil
}

func (c *dateCodec) Format(v any) (string, error) {
	var s string
	switch t := v.(type) {
	case nil:
		return strings.Repeat(" ", c.length), nil
	case time.Time:
		s = t.Format(c.layout)
	case string:
		s = t // preformatted
	default:
		return "", fixedwidth.Issues{{
			Path:    "/",
			Code:    fixedwidth.CodeFormatError,
			Message: "not a time value",
			Offset:  -1,
		}}
	}
	if runes.Count(s) > c.length {
		return "", fixedwidth.Issues{{
			Path:    "/",
			Code:    fixedwidth.CodeFormatError,
			Message: "value wider than column",
			Params:  map[string]any{"got": runes.Count(s), "want": c.length},
			Offset:  -1,
		}}
	}
	pad, _ := c.opts.Get("pad").(rune)
	return runes.PadRight(s, c.length, pad), nil
}
