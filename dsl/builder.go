// Package dsl provides the fluent builder surface over the fixedwidth schema
// mutation API.
//
// Entry points
//   - New(name, ...): create a schema builder; chain Column/Integer/Decimal/
//     Date/Filler/Schema/Ref/Trap then MustBuild()/Build().
//   - Define(reg, name, fn): build and register a top-level schema in one call.
//
// Builders collect the first construction error and report it from Build, so
// chains stay uncluttered by per-call error handling.
package dsl

import (
	fixedwidth "github.com/reoring/fixedwidth"
	"github.com/reoring/fixedwidth/codec"
	"github.com/reoring/fixedwidth/i18n"
)

// Option configures a builder at creation time.
type Option func(*builderCfg)

type builderCfg struct {
	catalog fixedwidth.Catalog
	values  map[string]any
}

// InCatalog parents the schema to a root catalog for reference resolution.
func InCatalog(cat fixedwidth.Catalog) Option {
	return func(c *builderCfg) { c.catalog = cat }
}

// WithOptions sets schema-level options (inherited by descendants).
func WithOptions(values map[string]any) Option {
	return func(c *builderCfg) { c.values = values }
}

// Builder accumulates field declarations for one schema.
type Builder struct {
	schema *fixedwidth.Schema
	err    error
	busy   bool // a nested setup callback is running
}

// New creates a builder for a top-level schema.
func New(name string, opts ...Option) *Builder {
	var cfg builderCfg
	for _, o := range opts {
		o(&cfg)
	}
	s, err := fixedwidth.New(name, cfg.catalog, cfg.values)
	return &Builder{schema: s, err: err}
}

// Define builds a schema with fn and registers it in reg.
func Define(reg *fixedwidth.Registry, name string, fn func(*Builder)) (*fixedwidth.Schema, error) {
	b := New(name, InCatalog(reg))
	if fn != nil && b.err == nil {
		fn(b)
	}
	s, err := b.Build()
	if err != nil {
		return nil, err
	}
	reg.Add(s)
	return s, nil
}

// ColOpt configures a single column declaration.
type ColOpt func(*colCfg)

type colCfg struct {
	group  string
	values map[string]any
}

func applyCol(opts []ColOpt) colCfg {
	cfg := colCfg{values: map[string]any{}}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// Pad sets the fill codepoint.
func Pad(r rune) ColOpt { return func(c *colCfg) { c.values["pad"] = r } }

// AlignRight right-aligns the value in its cell.
func AlignRight() ColOpt { return func(c *colCfg) { c.values["align"] = codec.Right } }

// AlignLeft left-aligns the value in its cell.
func AlignLeft() ColOpt { return func(c *colCfg) { c.values["align"] = codec.Left } }

// Truncate cuts oversized values on format instead of failing.
func Truncate() ColOpt { return func(c *colCfg) { c.values["truncate"] = true } }

// NilBlank parses an all-blank cell as nil.
func NilBlank() ColOpt { return func(c *colCfg) { c.values["nil_blank"] = true } }

// Strip trims padding from the aligned side on parse.
func Strip() ColOpt { return func(c *colCfg) { c.values["strip"] = true } }

// Group tags the column with a free-form grouping label.
func Group(name string) ColOpt { return func(c *colCfg) { c.group = name } }

// RefOpt configures a reference declaration.
type RefOpt func(*refCfg)

type refCfg struct {
	store  string
	values map[string]any
}

// StoreAs names the record key the resolved sub-record is stored under
// (defaults to the referenced schema's name).
func StoreAs(name string) RefOpt { return func(c *refCfg) { c.store = name } }

// With carries options to propagate into the referenced schema on resolution.
func With(values map[string]any) RefOpt { return func(c *refCfg) { c.values = values } }

// Column declares a text column.
func (b *Builder) Column(name string, length int, opts ...ColOpt) *Builder {
	return b.addColumn(name, opts, func(cfg colCfg) (fixedwidth.Codec, error) {
		return codec.Text(name, length, cfg.values)
	})
}

// Integer declares an int64 column.
func (b *Builder) Integer(name string, length int, opts ...ColOpt) *Builder {
	return b.addColumn(name, opts, func(cfg colCfg) (fixedwidth.Codec, error) {
		return codec.Integer(name, length, cfg.values)
	})
}

// Decimal declares a float64 column with implied decimal places.
func (b *Builder) Decimal(name string, length, places int, opts ...ColOpt) *Builder {
	return b.addColumn(name, opts, func(cfg colCfg) (fixedwidth.Codec, error) {
		cfg.values["places"] = places
		return codec.Decimal(name, length, cfg.values)
	})
}

// Date declares a time.Time column with a Go time layout.
func (b *Builder) Date(name string, length int, layout string, opts ...ColOpt) *Builder {
	return b.addColumn(name, opts, func(cfg colCfg) (fixedwidth.Codec, error) {
		return codec.Date(name, length, layout, cfg.values)
	})
}

func (b *Builder) addColumn(name string, opts []ColOpt, make func(colCfg) (fixedwidth.Codec, error)) *Builder {
	if !b.open() {
		return b
	}
	cfg := applyCol(opts)
	c, err := make(cfg)
	if err != nil {
		b.err = err
		return b
	}
	if _, err := b.schema.AddColumn(c, cfg.group); err != nil {
		b.err = err
	}
	return b
}

// Filler declares a space-padded spacer column.
func (b *Builder) Filler(length int) *Builder {
	return b.FillerWith(length, ' ')
}

// FillerWith declares a spacer column with an explicit pad codepoint.
func (b *Builder) FillerWith(length int, pad rune) *Builder {
	if !b.open() {
		return b
	}
	if _, err := b.schema.AddFiller(length, pad); err != nil {
		b.err = err
	}
	return b
}

// Schema declares an owned nested schema populated by fn. Mutating this
// builder from inside fn is a setup re-entry error.
func (b *Builder) Schema(name string, fn func(*Builder)) *Builder {
	if !b.open() {
		return b
	}
	child, err := b.schema.AddSchema(name, nil)
	if err != nil {
		b.err = err
		return b
	}
	cb := &Builder{schema: child}
	if fn != nil {
		b.busy = true
		fn(cb)
		b.busy = false
	}
	if cb.err != nil {
		b.err = cb.err
	}
	return b
}

// Ref declares a named reference to a schema in sibling or ancestor scope.
func (b *Builder) Ref(schemaName string, opts ...RefOpt) *Builder {
	if !b.open() {
		return b
	}
	var cfg refCfg
	for _, o := range opts {
		o(&cfg)
	}
	if err := b.schema.AddReference(schemaName, cfg.store, cfg.values); err != nil {
		b.err = err
	}
	return b
}

// Trap installs a match predicate beyond the length gate.
func (b *Builder) Trap(fn func(line string) bool) *Builder {
	if !b.open() {
		return b
	}
	if err := b.schema.SetTrap(fn); err != nil {
		b.err = err
	}
	return b
}

// open reports whether the builder accepts mutations, recording a re-entry
// issue when a nested setup callback reaches back into this builder.
func (b *Builder) open() bool {
	if b.err != nil {
		return false
	}
	if b.busy {
		b.err = fixedwidth.Issues{{
			Path:    "/",
			Code:    fixedwidth.CodeSchema,
			Message: i18n.T(fixedwidth.CodeSchema, nil),
			Hint:    "setup re-entered: finish the nested schema before adding fields here",
			Offset:  -1,
		}}
		return false
	}
	return true
}

// Build seals the schema and reports the first construction error, if any.
func (b *Builder) Build() (*fixedwidth.Schema, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.schema.Seal()
	return b.schema, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *fixedwidth.Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
