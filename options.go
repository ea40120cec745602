package fixedwidth

import (
	"fmt"

	"github.com/reoring/fixedwidth/i18n"
)

// OptionDef declares a single recognized option for an owner type: an optional
// transform applied to incoming values, an optional validator run after the
// transform, a default, and whether the option must be supplied at construction.
type OptionDef struct {
	Name       string
	Transform  func(any) (any, error)
	Validate   func(any) error
	Default    any
	HasDefault bool
	Required   bool
}

// OptionSpec is the compile-time-known set of options an owner type accepts.
// One OptionSpec is constructed per owner type (schema, text column, ...) and
// shared by every instance.
type OptionSpec struct {
	defs  map[string]OptionDef
	names []string // declaration order
}

// NewSpec builds an OptionSpec from defs. It panics on a duplicate option name
// because specs are package-level constants in spirit.
func NewSpec(defs ...OptionDef) *OptionSpec {
	s := &OptionSpec{defs: make(map[string]OptionDef, len(defs))}
	for _, d := range defs {
		if _, dup := s.defs[d.Name]; dup {
			panic(fmt.Sprintf("fixedwidth: option %q declared twice", d.Name))
		}
		s.defs[d.Name] = d
		s.names = append(s.names, d.Name)
	}
	return s
}

// New constructs a validated Options instance. Unknown keys, missing required
// options, and validator failures return config_error issues; on success every
// required option has a value and every stored value has passed its validator.
func (s *OptionSpec) New(values map[string]any) (*Options, error) {
	o := &Options{spec: s, values: make(map[string]any, len(values))}
	var iss Issues
	for k, v := range values {
		if _, ok := s.defs[k]; !ok {
			iss = AppendIssues(iss, Issue{
				Path:    "/" + k,
				Code:    CodeConfig,
				Message: i18n.T(CodeConfig, nil),
				Hint:    "unknown option",
				Offset:  -1,
			})
			continue
		}
		if err := o.Set(k, v, true); err != nil {
			if i2, ok := AsIssues(err); ok {
				iss = AppendIssues(iss, i2...)
			}
		}
	}
	for _, name := range s.names {
		d := s.defs[name]
		if _, ok := o.values[name]; ok {
			continue
		}
		if d.Required {
			iss = AppendIssues(iss, Issue{
				Path:    "/" + name,
				Code:    CodeConfig,
				Message: i18n.T(CodeConfig, nil),
				Hint:    "required option missing",
				Offset:  -1,
			})
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return o, nil
}

// MustNew is like New but panics on error. Intended for package-level specs
// with literal values.
func (s *OptionSpec) MustNew(values map[string]any) *Options {
	o, err := s.New(values)
	if err != nil {
		panic(err)
	}
	return o
}

// Precedence selects which side wins when Merge finds a key set on both sides.
type Precedence int

const (
	PreferSelf Precedence = iota
	PreferOther
)

// MergePolicy configures Merge: conflict precedence, and whether keys absent
// on the receiver are filled from the other side.
type MergePolicy struct {
	Prefer      Precedence
	FillMissing bool
}

// Options is a validated key/value table owned by a schema or column instance.
type Options struct {
	spec   *OptionSpec
	values map[string]any
}

// Get returns the value for name, falling back to the declared default.
// Defaults are applied at read time so that Merge can still fill keys the
// owner never set explicitly.
func (o *Options) Get(name string) any {
	if v, ok := o.values[name]; ok {
		return v
	}
	if d, ok := o.spec.defs[name]; ok && d.HasDefault {
		return d.Default
	}
	return nil
}

// Lookup returns the explicitly stored value and whether it is set; declared
// defaults do not count as set.
func (o *Options) Lookup(name string) (any, bool) {
	v, ok := o.values[name]
	return v, ok
}

// Bool reads a bool-valued option, returning false when unset and undefaulted.
func (o *Options) Bool(name string) bool {
	b, _ := o.Get(name).(bool)
	return b
}

// Set stores a value after applying the option's transform and validator.
// With overwrite=false an already-set value is left untouched.
func (o *Options) Set(name string, v any, overwrite bool) error {
	d, ok := o.spec.defs[name]
	if !ok {
		return Issues{{
			Path:    "/" + name,
			Code:    CodeConfig,
			Message: i18n.T(CodeConfig, nil),
			Hint:    "unknown option",
			Offset:  -1,
		}}
	}
	if _, set := o.values[name]; set && !overwrite {
		return nil
	}
	if d.Transform != nil {
		tv, err := d.Transform(v)
		if err != nil {
			return Issues{{
				Path:    "/" + name,
				Code:    CodeConfig,
				Message: i18n.T(CodeConfig, nil),
				Hint:    "transform failed",
				Cause:   err,
				Offset:  -1,
			}}
		}
		v = tv
	}
	if d.Validate != nil {
		if err := d.Validate(v); err != nil {
			return Issues{{
				Path:    "/" + name,
				Code:    CodeConfig,
				Message: i18n.T(CodeConfig, nil),
				Hint:    "validation failed",
				Cause:   err,
				Offset:  -1,
			}}
		}
	}
	o.values[name] = v
	return nil
}

// Merge adopts values from other according to pol. Keys the receiver's spec
// does not declare are skipped; adopted values pass through the receiver's
// transform and validator. Merging twice with identical arguments is a no-op
// the second time.
func (o *Options) Merge(other *Options, pol MergePolicy) error {
	if other == nil {
		return nil
	}
	return o.MergeValues(other.values, pol)
}

// MergeValues is Merge over a plain key/value set.
func (o *Options) MergeValues(values map[string]any, pol MergePolicy) error {
	var iss Issues
	for k, v := range values {
		if _, ok := o.spec.defs[k]; !ok {
			continue
		}
		_, set := o.values[k]
		switch {
		case !set && !pol.FillMissing:
			continue
		case set && pol.Prefer == PreferSelf:
			continue
		}
		if err := o.Set(k, v, true); err != nil {
			if i2, ok := AsIssues(err); ok {
				iss = AppendIssues(iss, i2...)
			}
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

// snapshot copies the raw values for propagation into descendants. The copy
// matters: propagation may queue the set on an unresolved reference, and the
// flush must see the values as they were when queued, not as they are later.
func (o *Options) snapshot() map[string]any {
	if o == nil || len(o.values) == 0 {
		return nil
	}
	out := make(map[string]any, len(o.values))
	for k, v := range o.values {
		out[k] = v
	}
	return out
}
