// Package layout compiles declarative layout documents (YAML or JSON) into a
// fixedwidth.Registry of schemas via the dsl builder. It is a convenience
// front-end; anything it can express maps onto the three schema mutation
// entry points.
package layout

import (
	"fmt"
	"strings"

	fixedwidth "github.com/reoring/fixedwidth"
	"github.com/reoring/fixedwidth/dsl"
)

// Document is the root of a layout file.
type Document struct {
	Schemas []SchemaDoc `yaml:"schemas" json:"schemas"`
}

// SchemaDoc declares one top-level schema.
type SchemaDoc struct {
	Name string `yaml:"name" json:"name"`
	// TrapPrefix gates Match: the raw line must start with this literal.
	TrapPrefix string         `yaml:"trap_prefix" json:"trap_prefix"`
	Options    map[string]any `yaml:"options" json:"options"`
	Fields     []FieldDoc     `yaml:"fields" json:"fields"`
}

// FieldDoc declares one field. Exactly one of the four shapes applies:
// a column (name+length), a filler (filler>0), a nested schema (name+fields),
// or a reference (ref).
type FieldDoc struct {
	Name     string `yaml:"name" json:"name"`
	Length   int    `yaml:"length" json:"length"`
	Type     string `yaml:"type" json:"type"` // text (default), integer, decimal, date
	Pad      string `yaml:"pad" json:"pad"`
	Align    string `yaml:"align" json:"align"` // left, right
	Strip    bool   `yaml:"strip" json:"strip"`
	NilBlank bool   `yaml:"nil_blank" json:"nil_blank"`
	Truncate bool   `yaml:"truncate" json:"truncate"`
	Group    string `yaml:"group" json:"group"`
	Places   int    `yaml:"places" json:"places"` // decimal
	Layout   string `yaml:"layout" json:"layout"` // date

	Filler int `yaml:"filler" json:"filler"`

	Ref   string         `yaml:"ref" json:"ref"`
	Store string         `yaml:"store" json:"store"`
	With  map[string]any `yaml:"with" json:"with"`

	Fields []FieldDoc `yaml:"fields" json:"fields"`
}

// Compile builds every schema in the document into a fresh Registry. Schemas
// may reference each other regardless of declaration order; the result is
// validated as a whole before it is returned.
func Compile(doc Document) (*fixedwidth.Registry, error) {
	reg := fixedwidth.NewRegistry()
	var iss fixedwidth.Issues
	for i, sd := range doc.Schemas {
		base := fmt.Sprintf("/schemas/%d", i)
		if sd.Name == "" {
			iss = fixedwidth.AppendIssues(iss, fixedwidth.Issue{
				Path:    base,
				Code:    fixedwidth.CodeSchema,
				Message: "schema name missing",
				Offset:  -1,
			})
			continue
		}
		b := dsl.New(sd.Name, dsl.InCatalog(reg), dsl.WithOptions(sd.Options))
		if sd.TrapPrefix != "" {
			prefix := sd.TrapPrefix
			b.Trap(func(line string) bool { return strings.HasPrefix(line, prefix) })
		}
		iss = fixedwidth.AppendIssues(iss, addFields(b, sd.Fields, base+"/fields")...)
		s, err := b.Build()
		if err != nil {
			iss = fixedwidth.AppendIssues(iss, rebase(base, err)...)
			continue
		}
		reg.Add(s)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	for i, sd := range doc.Schemas {
		if s, ok := reg.Get(sd.Name); ok {
			if err := s.Validate(); err != nil {
				iss = fixedwidth.AppendIssues(iss, rebase(fmt.Sprintf("/schemas/%d", i), err)...)
			}
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return reg, nil
}

func addFields(b *dsl.Builder, fields []FieldDoc, base string) fixedwidth.Issues {
	var iss fixedwidth.Issues
	for i, f := range fields {
		pos := fmt.Sprintf("%s/%d", base, i)
		switch {
		case f.Ref != "":
			var opts []dsl.RefOpt
			if f.Store != "" {
				opts = append(opts, dsl.StoreAs(f.Store))
			}
			if len(f.With) > 0 {
				opts = append(opts, dsl.With(f.With))
			}
			b.Ref(f.Ref, opts...)
		case f.Filler > 0:
			pad := ' '
			if f.Pad != "" {
				pad = []rune(f.Pad)[0]
			}
			b.FillerWith(f.Filler, pad)
		case len(f.Fields) > 0:
			sub := f.Fields
			b.Schema(f.Name, func(cb *dsl.Builder) {
				iss = fixedwidth.AppendIssues(iss, addFields(cb, sub, pos+"/fields")...)
			})
		default:
			iss = fixedwidth.AppendIssues(iss, addColumn(b, f, pos)...)
		}
	}
	return iss
}

func addColumn(b *dsl.Builder, f FieldDoc, pos string) fixedwidth.Issues {
	opts := colOpts(f)
	switch f.Type {
	case "", "text":
		b.Column(f.Name, f.Length, opts...)
	case "int", "integer":
		b.Integer(f.Name, f.Length, opts...)
	case "decimal":
		places := f.Places
		if places == 0 {
			places = 2
		}
		b.Decimal(f.Name, f.Length, places, opts...)
	case "date":
		b.Date(f.Name, f.Length, f.Layout, opts...)
	default:
		return fixedwidth.Issues{{
			Path:    pos,
			Code:    fixedwidth.CodeSchema,
			Message: fmt.Sprintf("unknown column type %q", f.Type),
			Offset:  -1,
		}}
	}
	return nil
}

func colOpts(f FieldDoc) []dsl.ColOpt {
	var opts []dsl.ColOpt
	if f.Pad != "" {
		opts = append(opts, dsl.Pad([]rune(f.Pad)[0]))
	}
	switch f.Align {
	case "right":
		opts = append(opts, dsl.AlignRight())
	case "left":
		opts = append(opts, dsl.AlignLeft())
	}
	if f.Strip {
		opts = append(opts, dsl.Strip())
	}
	if f.NilBlank {
		opts = append(opts, dsl.NilBlank())
	}
	if f.Truncate {
		opts = append(opts, dsl.Truncate())
	}
	if f.Group != "" {
		opts = append(opts, dsl.Group(f.Group))
	}
	return opts
}

// rebase re-parents issue paths under a document position.
func rebase(base string, err error) fixedwidth.Issues {
	iss, ok := fixedwidth.AsIssues(err)
	if !ok {
		return fixedwidth.Issues{{Path: base, Code: fixedwidth.CodeSchema, Message: err.Error(), Cause: err, Offset: -1}}
	}
	out := make(fixedwidth.Issues, 0, len(iss))
	for _, it := range iss {
		switch {
		case it.Path == "" || it.Path == "/":
			it.Path = base
		case it.Path[0] == '/':
			it.Path = base + it.Path
		default:
			it.Path = base + "/" + it.Path
		}
		out = append(out, it)
	}
	return out
}
