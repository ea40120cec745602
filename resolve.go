package fixedwidth

import (
	"fmt"

	"github.com/reoring/fixedwidth/i18n"
)

// resolvedEntry is the dispatch result of lookup: exactly one of column or
// schema is set. store is the record key parsed data lands under ("" for
// fillers).
type resolvedEntry struct {
	column *Column
	schema *Schema
	store  string
}

// visits is the chain of schemas on the current recursive walk. Ownership is
// tree-shaped but the reference relation is not, so traversal carries its path
// to catch cycles instead of recursing until the stack blows.
type visits []*Schema

func (v visits) seen(s *Schema) bool {
	for _, p := range v {
		if p == s {
			return true
		}
	}
	return false
}

// cycleIssues reports that a walk re-entered this schema before leaving it,
// which only happens when references form a cycle.
func (s *Schema) cycleIssues() Issues {
	return Issues{{
		Path:    "/",
		Code:    CodeUnresolvedRef,
		Message: i18n.T(CodeUnresolvedRef, nil),
		Hint:    fmt.Sprintf("reference cycle through schema %q", s.name),
		Params:  map[string]any{"schema": s.name},
		Offset:  -1,
	}}
}

// lengthAlong is the fixed character width the entry occupies.
func (r resolvedEntry) lengthAlong(path visits) (int, Issues) {
	if r.column != nil {
		return r.column.Length(), nil
	}
	return r.schema.lengthAlong(path)
}

// lookup resolves the entry stored under name. Columns and owned schemas
// return directly; references bind lazily through the ancestor chain.
func (s *Schema) lookup(name string) (resolvedEntry, Issues) {
	e, ok := s.entries[name]
	if !ok {
		return resolvedEntry{}, Issues{{
			Path:    "/" + name,
			Code:    CodeSchema,
			Message: i18n.T(CodeSchema, nil),
			Hint:    "unknown field",
			Params:  map[string]any{"schema": s.name, "field": name},
			Offset:  -1,
		}}
	}
	return s.resolveEntry(name, e)
}

func (s *Schema) resolveEntry(name string, e *fieldEntry) (resolvedEntry, Issues) {
	switch e.kind {
	case kindColumn:
		store := name
		if e.column.filler {
			store = ""
		}
		return resolvedEntry{column: e.column, store: store}, nil
	case kindSchema:
		return resolvedEntry{schema: e.child, store: name}, nil
	case kindReference:
		target, iss := s.resolveReference(name, e.ref)
		if iss != nil {
			return resolvedEntry{}, iss
		}
		return resolvedEntry{schema: target, store: e.ref.storeName}, nil
	}
	return resolvedEntry{}, Issues{{
		Path:    "/" + name,
		Code:    CodeSchema,
		Message: i18n.T(CodeSchema, nil),
		Hint:    "unrecognized field entry kind",
		Offset:  -1,
	}}
}

// resolveReference binds ref at most once. Resolution delegates to the parent
// chain: a Schema parent searches its own entries and walks further up; a
// Catalog root takes the first schema matching the name. Success flushes the
// queued option sets exactly once; failure is memoized with its reason.
func (s *Schema) resolveReference(field string, ref *reference) (*Schema, Issues) {
	switch ref.state {
	case refResolved:
		return ref.target, nil
	case refFailed:
		return nil, ref.failure
	}

	var target *Schema
	found := ""
	switch {
	case s.parent != nil:
		target, found = s.parent.findSchema(ref.schemaName)
	case s.catalog != nil:
		if cands := s.catalog.LookupSchema(ref.schemaName); len(cands) > 0 {
			target = cands[0]
		}
	}
	if target == nil {
		hint := fmt.Sprintf("no schema named %q in the ancestor chain", ref.schemaName)
		if found != "" {
			hint = fmt.Sprintf("%q resolved to a %s, not a schema", ref.schemaName, found)
		}
		ref.state = refFailed
		ref.failure = Issues{{
			Path:    "/" + field,
			Code:    CodeUnresolvedRef,
			Message: i18n.T(CodeUnresolvedRef, nil),
			Hint:    hint,
			Params: map[string]any{
				"schema": s.name,
				"field":  field,
				"target": ref.schemaName,
				"found":  found,
			},
			Offset: -1,
		}}
		return nil, ref.failure
	}

	ref.state = refResolved
	ref.target = target

	// deepest-first: reference-site options, then this schema's table, then
	// the sets queued while unresolved. Merges only fill gaps, so earlier
	// (deeper) application wins.
	target.propagateValues(ref.carried)
	target.propagateValues(s.opts.snapshot())
	for _, q := range ref.queued {
		target.propagateValues(q)
	}
	ref.queued = nil
	return target, nil
}

// findSchema searches this schema's entries, then the ancestor chain, for a
// schema named name. The second return describes what was found when the name
// bound to something other than a schema ("" when nothing was found at all).
func (s *Schema) findSchema(name string) (*Schema, string) {
	if e, ok := s.entries[name]; ok {
		switch e.kind {
		case kindColumn:
			return nil, "column"
		case kindSchema:
			return e.child, ""
		case kindReference:
			target, iss := s.resolveReference(name, e.ref)
			if iss != nil {
				return nil, "reference that itself fails to resolve"
			}
			return target, ""
		}
	}
	if s.parent != nil {
		return s.parent.findSchema(name)
	}
	if s.catalog != nil {
		if cands := s.catalog.LookupSchema(name); len(cands) > 0 {
			return cands[0], ""
		}
	}
	return nil, ""
}

// propagateValues merges vals into this schema's option table, every directly
// owned column, and transitively into nested schemas and references. Values
// already set stay (deepest explicit setting wins); unresolved references
// queue the set for the flush that runs on resolution. Values a descendant's
// spec rejects are skipped rather than failing the propagation. A schema
// already on the walk is skipped: its table has the values by then, and
// fill-missing merges gain nothing from a second application.
func (s *Schema) propagateValues(vals map[string]any) {
	s.propagateAlong(vals, nil)
}

func (s *Schema) propagateAlong(vals map[string]any, path visits) {
	if len(vals) == 0 || path.seen(s) {
		return
	}
	path = append(path, s)
	fill := MergePolicy{Prefer: PreferSelf, FillMissing: true}
	_ = s.opts.MergeValues(vals, fill)
	for _, name := range s.fields {
		e := s.entries[name]
		switch e.kind {
		case kindColumn:
			if e.column.opts != nil {
				_ = e.column.opts.MergeValues(vals, fill)
			}
		case kindSchema:
			e.child.propagateAlong(vals, path)
		case kindReference:
			switch e.ref.state {
			case refResolved:
				e.ref.target.propagateAlong(vals, path)
			case refUnresolved:
				e.ref.queued = append(e.ref.queued, vals)
			}
		}
	}
}
