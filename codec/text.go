package codec

import (
	"strings"

	fixedwidth "github.com/reoring/fixedwidth"
	"github.com/reoring/fixedwidth/internal/runes"
)

// TextOptions declares the options a text column accepts.
//
//   - pad: fill codepoint (default ' ')
//   - align: Left or Right (default Left)
//   - truncate: cut oversized values instead of failing (unset = fail)
//   - nil_blank: parse an all-blank cell as nil
//   - strip: trim the pad from the aligned side on parse (unset = raw cell)
var TextOptions = fixedwidth.NewSpec(
	fixedwidth.OptionDef{Name: "pad", Transform: padValue, Default: ' ', HasDefault: true},
	fixedwidth.OptionDef{Name: "align", Transform: alignValue, Default: Left, HasDefault: true},
	fixedwidth.OptionDef{Name: "truncate", Validate: boolValue},
	fixedwidth.OptionDef{Name: "nil_blank", Validate: boolValue},
	fixedwidth.OptionDef{Name: "strip", Validate: boolValue},
)

type textCodec struct {
	name   string
	length int
	opts   *fixedwidth.Options
}

// Text returns a plain string codec of the given width.
func Text(name string, length int, values map[string]any) (fixedwidth.Codec, error) {
	if err := checkLength(name, length); err != nil {
		return nil, err
	}
	opts, err := TextOptions.New(values)
	if err != nil {
		return nil, err
	}
	return &textCodec{name: name, length: length, opts: opts}, nil
}

// MustText is like Text but panics on error.
func MustText(name string, length int, values map[string]any) fixedwidth.Codec {
	c, err := Text(name, length, values)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *textCodec) Name() string                 { return c.name }
func (c *textCodec) Length() int                  { return c.length }
func (c *textCodec) Options() *fixedwidth.Options { return c.opts }

func (c *textCodec) pad() rune {
	p, _ := c.opts.Get("pad").(rune)
	return p
}

func (c *textCodec) align() Align {
	a, _ := c.opts.Get("align").(Align)
	return a
}

// Parse returns the raw cell by default, so exact-width round trips are
// lossless. strip trims the pad from the aligned side; nil_blank maps an
// all-blank cell to nil.
func (c *textCodec) Parse(cell string) (any, error) {
	if c.opts.Bool("nil_blank") && strings.TrimSpace(cell) == "" {
		return nil, nil
	}
	if c.opts.Bool("strip") {
		if c.align() == Right {
			return strings.TrimLeft(cell, string(c.pad())), nil
		}
		return strings.TrimRight(cell, string(c.pad())), nil
	}
	return cell, nil
}

func (c *textCodec) Format(v any) (string, error) {
	s := cellString(v)
	if runes.Count(s) > c.length {
		if !c.opts.Bool("truncate") {
			return "", fixedwidth.Issues{{
				Path:    "/",
				Code:    fixedwidth.CodeFormatError,
				Message: "value wider than column",
				Params:  map[string]any{"got": runes.Count(s), "want": c.length},
				Offset:  -1,
			}}
		}
		s = runes.Truncate(s, c.length)
	}
	if c.align() == Right {
		return runes.PadLeft(s, c.length, c.pad()), nil
	}
	return runes.PadRight(s, c.length, c.pad()), nil
}
