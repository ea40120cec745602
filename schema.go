package fixedwidth

import (
	"fmt"
	"regexp"

	"github.com/reoring/fixedwidth/i18n"
)

var identRx = regexp.MustCompile(`^[a-zA-Z]\w*$`)

// Prefixes reserved for internal bookkeeping entries.
const (
	spacerPrefix = "spacer_"
	repeatPrefix = "repeat_"
)

// SchemaOptions declares the options a schema accepts. The engine does not
// interpret these itself; they exist to be inherited by descendant columns and
// referenced schemas, so validators stay permissive for the carry-only keys.
var SchemaOptions = NewSpec(
	OptionDef{Name: "optional", Validate: boolValue},
	OptionDef{Name: "pad"},
	OptionDef{Name: "align"},
	OptionDef{Name: "truncate", Validate: boolValue},
	OptionDef{Name: "nil_blank", Validate: boolValue},
	OptionDef{Name: "strip", Validate: boolValue},
)

func boolValue(v any) error {
	if _, ok := v.(bool); !ok {
		return fmt.Errorf("expected bool, got %T", v)
	}
	return nil
}

// Schema is an ordered, named collection of field entries: the unit of
// composition, resolution, and traversal. Fields are appended during a single
// setup phase and never removed or reordered; after Seal only the lazy
// resolution caches mutate.
type Schema struct {
	name    string
	parent  *Schema // non-owning back-reference, resolution and inheritance only
	catalog Catalog // root context when parent is nil
	opts    *Options
	trap    func(line string) bool

	fields  []string
	entries map[string]*fieldEntry
	sealed  bool

	spacerSeq int

	// length cache, keyed to a snapshot of the field count (fields are
	// append-only, so the count identifies the list).
	cachedLen   int
	cachedCount int
}

// New constructs an empty top-level schema. cat may be nil for a schema whose
// references only target its own subtree.
func New(name string, cat Catalog, values map[string]any) (*Schema, error) {
	if iss := checkIdent(name); iss != nil {
		return nil, iss
	}
	opts, err := SchemaOptions.New(values)
	if err != nil {
		return nil, err
	}
	return &Schema{
		name:        name,
		catalog:     cat,
		opts:        opts,
		entries:     make(map[string]*fieldEntry),
		cachedCount: -1,
	}, nil
}

func (s *Schema) Name() string      { return s.name }
func (s *Schema) Parent() *Schema   { return s.parent }
func (s *Schema) Options() *Options { return s.opts }

// Fields returns the field identifiers in declared (layout) order.
func (s *Schema) Fields() []string {
	out := make([]string, len(s.fields))
	copy(out, s.fields)
	return out
}

// Columns returns the directly owned columns in declared order, fillers
// included.
func (s *Schema) Columns() []*Column {
	var out []*Column
	for _, name := range s.fields {
		if e := s.entries[name]; e.kind == kindColumn {
			out = append(out, e.column)
		}
	}
	return out
}

// SetTrap installs a predicate consulted by Match in addition to the length
// gate.
func (s *Schema) SetTrap(fn func(line string) bool) error {
	if iss := s.checkOpen(); iss != nil {
		return iss
	}
	s.trap = fn
	return nil
}

// AddColumn appends a column backed by c, keyed under c.Name(). group is an
// optional free-form label ("" for none).
func (s *Schema) AddColumn(c Codec, group string) (*Column, error) {
	if iss := s.checkOpen(); iss != nil {
		return nil, iss
	}
	name := c.Name()
	if iss := checkIdent(name); iss != nil {
		return nil, iss
	}
	if iss := s.checkFree(name); iss != nil {
		return nil, iss
	}
	if c.Length() <= 0 {
		return nil, Issues{{
			Path:    "/" + name,
			Code:    CodeSchema,
			Message: i18n.T(CodeSchema, nil),
			Hint:    "column length must be positive",
			Offset:  -1,
		}}
	}
	col := &Column{codec: c, group: group}
	if cfg, ok := c.(Configurable); ok {
		col.opts = cfg.Options()
		// the column's own settings stay; schema-level settings fill gaps
		if col.opts != nil {
			_ = col.opts.MergeValues(s.opts.snapshot(), MergePolicy{Prefer: PreferSelf, FillMissing: true})
		}
	}
	s.append(name, &fieldEntry{kind: kindColumn, column: col})
	return col, nil
}

// AddSchema appends an owned nested schema. The child is fully specified at
// declaration time and carries this schema as its parent.
func (s *Schema) AddSchema(name string, values map[string]any) (*Schema, error) {
	if iss := s.checkOpen(); iss != nil {
		return nil, iss
	}
	if iss := checkIdent(name); iss != nil {
		return nil, iss
	}
	if iss := s.checkFree(name); iss != nil {
		return nil, iss
	}
	// a nested schema must not collide with an existing reference target
	for _, fname := range s.fields {
		e := s.entries[fname]
		if e.kind != kindReference {
			continue
		}
		target := e.ref.schemaName
		if e.ref.state == refResolved {
			target = e.ref.target.Name()
		}
		if target == name {
			return nil, Issues{{
				Path:    "/" + name,
				Code:    CodeDuplicateName,
				Message: i18n.T(CodeDuplicateName, nil),
				Hint:    fmt.Sprintf("conflicts with reference %q targeting the same schema", fname),
				Params:  map[string]any{"schema": s.name, "field": name},
				Offset:  -1,
			}}
		}
	}
	child, err := New(name, nil, values)
	if err != nil {
		return nil, err
	}
	child.parent = s
	child.propagateValues(s.opts.snapshot())
	s.append(name, &fieldEntry{kind: kindSchema, child: child})
	return child, nil
}

// AddReference appends a named reference to a schema declared in sibling or
// ancestor scope. storeName defaults to schemaName; values are validated now
// and propagated into the target once it resolves.
func (s *Schema) AddReference(schemaName, storeName string, values map[string]any) error {
	if iss := s.checkOpen(); iss != nil {
		return iss
	}
	if iss := checkIdent(schemaName); iss != nil {
		return iss
	}
	if storeName == "" {
		storeName = schemaName
	}
	if iss := checkIdent(storeName); iss != nil {
		return iss
	}
	if iss := s.checkFree(storeName); iss != nil {
		return iss
	}
	if len(values) > 0 {
		// fail fast on malformed carried options
		if _, err := SchemaOptions.New(values); err != nil {
			return err
		}
	}
	s.append(storeName, &fieldEntry{kind: kindReference, ref: &reference{
		schemaName: schemaName,
		storeName:  storeName,
		carried:    values,
	}})
	return nil
}

// AddFiller appends an auto-numbered spacer column. Fillers consume width and
// participate in offsets but are excluded from parsed and formatted data.
func (s *Schema) AddFiller(length int, pad rune) (*Column, error) {
	if iss := s.checkOpen(); iss != nil {
		return nil, iss
	}
	if length <= 0 {
		return nil, Issues{{
			Path:    "/",
			Code:    CodeSchema,
			Message: i18n.T(CodeSchema, nil),
			Hint:    "filler length must be positive",
			Offset:  -1,
		}}
	}
	if pad == 0 {
		pad = ' '
	}
	name := ""
	for {
		s.spacerSeq++
		name = fmt.Sprintf("%s%d", spacerPrefix, s.spacerSeq)
		if _, taken := s.entries[name]; !taken {
			break
		}
	}
	col := &Column{codec: fillerCodec{name: name, length: length, pad: pad}, filler: true}
	s.append(name, &fieldEntry{kind: kindColumn, column: col})
	return col, nil
}

// Seal ends the setup phase for this schema and its owned subtree. Mutation
// afterwards is a schema_error.
func (s *Schema) Seal() {
	s.sealed = true
	for _, name := range s.fields {
		if e := s.entries[name]; e.kind == kindSchema {
			e.child.Seal()
		}
	}
}

func (s *Schema) append(name string, e *fieldEntry) {
	s.fields = append(s.fields, name)
	s.entries[name] = e
}

func (s *Schema) checkOpen() Issues {
	if !s.sealed {
		return nil
	}
	return Issues{{
		Path:    "/",
		Code:    CodeSchema,
		Message: i18n.T(CodeSchema, nil),
		Hint:    "schema is sealed; fields can only be added during setup",
		Params:  map[string]any{"schema": s.name},
		Offset:  -1,
	}}
}

func (s *Schema) checkFree(name string) Issues {
	if _, dup := s.entries[name]; !dup {
		return nil
	}
	return Issues{{
		Path:    "/" + name,
		Code:    CodeDuplicateName,
		Message: i18n.T(CodeDuplicateName, nil),
		Params:  map[string]any{"schema": s.name, "field": name},
		Offset:  -1,
	}}
}

func checkIdent(name string) Issues {
	if hasReservedPrefix(name) {
		return Issues{{
			Path:    "/" + name,
			Code:    CodeReservedName,
			Message: i18n.T(CodeReservedName, nil),
			Hint:    "names starting with spacer_ or repeat_ are reserved",
			Offset:  -1,
		}}
	}
	if !identRx.MatchString(name) {
		return Issues{{
			Path:    "/" + name,
			Code:    CodeSchema,
			Message: i18n.T(CodeSchema, nil),
			Hint:    "name must be a well-formed identifier",
			Offset:  -1,
		}}
	}
	return nil
}

func hasReservedPrefix(name string) bool {
	return len(name) >= len(spacerPrefix) && name[:len(spacerPrefix)] == spacerPrefix ||
		len(name) >= len(repeatPrefix) && name[:len(repeatPrefix)] == repeatPrefix
}
