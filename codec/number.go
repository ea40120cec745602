package codec

import (
	"math"
	"strconv"
	"strings"

	fixedwidth "github.com/reoring/fixedwidth"
	"github.com/reoring/fixedwidth/internal/runes"
)

// IntegerOptions declares the options an integer column accepts. Integers are
// right-aligned; pad is typically ' ' or '0'.
var IntegerOptions = fixedwidth.NewSpec(
	fixedwidth.OptionDef{Name: "pad", Transform: padValue, Default: ' ', HasDefault: true},
	fixedwidth.OptionDef{Name: "align", Transform: alignValue, Default: Right, HasDefault: true},
	fixedwidth.OptionDef{Name: "nil_blank", Validate: boolValue},
)

type intCodec struct {
	name   string
	length int
	opts   *fixedwidth.Options
}

// Integer returns an int64 codec of the given width.
func Integer(name string, length int, values map[string]any) (fixedwidth.Codec, error) {
	if err := checkLength(name, length); err != nil {
		return nil, err
	}
	opts, err := IntegerOptions.New(values)
	if err != nil {
		return nil, err
	}
	return &intCodec{name: name, length: length, opts: opts}, nil
}

// MustInteger is like Integer but panics on error.
func MustInteger(name string, length int, values map[string]any) fixedwidth.Codec {
	c, err := Integer(name, length, values)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *intCodec) Name() string                 { return c.name }
func (c *intCodec) Length() int                  { return c.length }
func (c *intCodec) Options() *fixedwidth.Options { return c.opts }

func (c *intCodec) pad() rune {
	p, _ := c.opts.Get("pad").(rune)
	return p
}

func (c *intCodec) Parse(cell string) (any, error) {
	t := strings.TrimSpace(cell)
	if t == "" {
		if c.opts.Bool("nil_blank") {
			return nil, nil
		}
		return int64(0), nil
	}
	v, err := strconv.ParseInt(t, 10, 64)
	if err != nil {
		return nil, fixedwidth.Issues{{
			Path:    "/",
			Code:    fixedwidth.CodeParseError,
			Message: "not an integer",
			Cause:   err,
			Params:  map[string]any{"cell": cell},
			Offset:  -1,
		}}
	}
	return v, nil
}

func (c *intCodec) Format(v any) (string, error) {
	if v == nil {
		return strings.Repeat(" ", c.length), nil
	}
	n, err := toInt64(v)
	if err != nil {
		return "", fixedwidth.Issues{{
			Path:    "/",
			Code:    fixedwidth.CodeFormatError,
			Message: "not an integer value",
			Cause:   err,
			Offset:  -1,
		}}
	}
	return padNumber(strconv.FormatInt(n, 10), c.length, c.pad())
}

// DecimalOptions declares the options a decimal column accepts. The wire form
// carries digits only: places names the count of implied decimal places.
var DecimalOptions = fixedwidth.NewSpec(
	fixedwidth.OptionDef{Name: "pad", Transform: padValue, Default: '0', HasDefault: true},
	fixedwidth.OptionDef{Name: "align", Transform: alignValue, Default: Right, HasDefault: true},
	fixedwidth.OptionDef{Name: "places", Validate: intValue, Default: 2, HasDefault: true},
	fixedwidth.OptionDef{Name: "nil_blank", Validate: boolValue},
)

type decCodec struct {
	name   string
	length int
	opts   *fixedwidth.Options
}

// Decimal returns a float64 codec with implied decimal places.
func Decimal(name string, length int, values map[string]any) (fixedwidth.Codec, error) {
	if err := checkLength(name, length); err != nil {
		return nil, err
	}
	opts, err := DecimalOptions.New(values)
	if err != nil {
		return nil, err
	}
	return &decCodec{name: name, length: length, opts: opts}, nil
}

// MustDecimal is like Decimal but panics on error.
func MustDecimal(name string, length int, values map[string]any) fixedwidth.Codec {
	c, err := Decimal(name, length, values)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *decCodec) Name() string                 { return c.name }
func (c *decCodec) Length() int                  { return c.length }
func (c *decCodec) Options() *fixedwidth.Options { return c.opts }

func (c *decCodec) places() int {
	p, _ := c.opts.Get("places").(int)
	return p
}

func (c *decCodec) pad() rune {
	p, _ := c.opts.Get("pad").(rune)
	return p
}

func (c *decCodec) Parse(cell string) (any, error) {
	t := strings.TrimSpace(cell)
	if t == "" {
		if c.opts.Bool("nil_blank") {
			return nil, nil
		}
		return float64(0), nil
	}
	if c.pad() != ' ' {
		t = strings.TrimLeft(t, string(c.pad()))
		// a cell of pure padding digits is an explicit zero
		if t == "" || t == "-" {
			return float64(0), nil
		}
	}
	// an explicit decimal point overrides the implied scale
	if strings.Contains(t, ".") {
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return nil, decParseIssue(cell, err)
		}
		return f, nil
	}
	v, err := strconv.ParseInt(t, 10, 64)
	if err != nil {
		return nil, decParseIssue(cell, err)
	}
	return float64(v) / math.Pow10(c.places()), nil
}

func (c *decCodec) Format(v any) (string, error) {
	if v == nil {
		return strings.Repeat(" ", c.length), nil
	}
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return "", fixedwidth.Issues{{
			Path:    "/",
			Code:    fixedwidth.CodeFormatError,
			Message: "not a numeric value",
			Offset:  -1,
		}}
	}
	scaled := int64(math.Round(f * math.Pow10(c.places())))
	return padNumber(strconv.FormatInt(scaled, 10), c.length, c.pad())
}

func decParseIssue(cell string, err error) error {
	return fixedwidth.Issues{{
		Path:    "/",
		Code:    fixedwidth.CodeParseError,
		Message: "not a decimal",
		Cause:   err,
		Params:  map[string]any{"cell": cell},
		Offset:  -1,
	}}
}

// padNumber right-aligns digits, keeping a leading sign ahead of zero padding.
func padNumber(s string, width int, pad rune) (string, error) {
	if runes.Count(s) > width {
		return "", fixedwidth.Issues{{
			Path:    "/",
			Code:    fixedwidth.CodeFormatError,
			Message: "value wider than column",
			Params:  map[string]any{"got": runes.Count(s), "want": width},
			Offset:  -1,
		}}
	}
	if pad == '0' && strings.HasPrefix(s, "-") {
		return "-" + runes.PadLeft(s[1:], width-1, pad), nil
	}
	return runes.PadLeft(s, width, pad), nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(n), 10, 64)
	}
	return 0, strconv.ErrSyntax
}
