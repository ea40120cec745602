package fixedwidth

import "strings"

// entryKind tags the three field entry variants of a schema.
type entryKind int

const (
	kindColumn entryKind = iota
	kindSchema
	kindReference
)

// fieldEntry is the tagged variant stored under each field identifier: an
// owned column, an owned nested schema, or a named reference to a schema
// declared elsewhere.
type fieldEntry struct {
	kind   entryKind
	column *Column
	child  *Schema
	ref    *reference
}

// Column owns a Codec instance, an optional grouping label, and the filler
// marker. Filler columns consume width but contribute no key to parsed or
// formatted data.
type Column struct {
	codec  Codec
	opts   *Options
	group  string
	filler bool
}

func (c *Column) Name() string  { return c.codec.Name() }
func (c *Column) Length() int   { return c.codec.Length() }
func (c *Column) Group() string { return c.group }
func (c *Column) Filler() bool  { return c.filler }
func (c *Column) Codec() Codec  { return c.codec }

// Options returns the column's option table, nil when its codec is not
// Configurable.
func (c *Column) Options() *Options { return c.opts }

// refState is the memoized resolution state of a reference.
type refState int

const (
	refUnresolved refState = iota
	refResolved
	refFailed
)

// reference names a schema to bind lazily. storeName is the key parsed data is
// stored under; carried options propagate into the target once resolution
// succeeds. Option sets arriving while unresolved queue up and flush exactly
// once on resolution.
type reference struct {
	schemaName string
	storeName  string
	carried    map[string]any
	state      refState
	target     *Schema
	failure    Issues
	queued     []map[string]any
}

// fillerCodec backs auto-named spacer columns: fixed pad output, no parse
// result.
type fillerCodec struct {
	name   string
	length int
	pad    rune
}

func (f fillerCodec) Name() string { return f.name }
func (f fillerCodec) Length() int  { return f.length }

func (f fillerCodec) Parse(cell string) (any, error) { return nil, nil }

func (f fillerCodec) Format(v any) (string, error) {
	return strings.Repeat(string(f.pad), f.length), nil
}
