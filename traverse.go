package fixedwidth

import (
	"fmt"
	"strings"

	"github.com/reoring/fixedwidth/i18n"
	"github.com/reoring/fixedwidth/internal/runes"
)

// Record is the structured form of one fixed-width line. Nested schemas and
// references store sub-records under their field (or store) key.
type Record = map[string]any

// Length returns the total character width: the sum of every resolved entry's
// length, in declared order. The result is cached against a snapshot of the
// field list and recomputed after any append.
func (s *Schema) Length() (int, error) {
	n, iss := s.resolveLength()
	if len(iss) > 0 {
		return 0, iss
	}
	return n, nil
}

func (s *Schema) resolveLength() (int, Issues) {
	return s.lengthAlong(nil)
}

func (s *Schema) lengthAlong(path visits) (int, Issues) {
	if s.cachedCount == len(s.fields) {
		return s.cachedLen, nil
	}
	if path.seen(s) {
		return 0, s.cycleIssues()
	}
	path = append(path, s)
	total := 0
	var iss Issues
	for _, name := range s.fields {
		r, i2 := s.lookup(name)
		if len(i2) > 0 {
			iss = AppendIssues(iss, i2...)
			continue
		}
		n, i2 := r.lengthAlong(path)
		if len(i2) > 0 {
			iss = AppendIssues(iss, rebaseIssues("/"+name, i2)...)
			continue
		}
		total += n
	}
	if len(iss) > 0 {
		return 0, iss
	}
	s.cachedLen = total
	s.cachedCount = len(s.fields)
	return total, nil
}

// Parse decodes one raw line starting at offset zero.
func (s *Schema) Parse(line string) (Record, error) {
	return s.ParseAt(line, 0)
}

// ParseAt decodes one raw line starting at the given codepoint offset. Slicing
// is codepoint-based; a line that ends early yields empty cells for the
// missing tail rather than an error.
func (s *Schema) ParseAt(line string, offset int) (Record, error) {
	rec, iss := s.parseRunes([]rune(line), offset, nil)
	if len(iss) > 0 {
		return nil, iss
	}
	return rec, nil
}

func (s *Schema) parseRunes(line []rune, offset int, path visits) (Record, Issues) {
	if path.seen(s) {
		return nil, s.cycleIssues()
	}
	path = append(path, s)
	rec := make(Record, len(s.fields))
	var iss Issues
	cursor := offset
	for _, name := range s.fields {
		r, i2 := s.lookup(name)
		if len(i2) == 0 {
			_, i2 = r.lengthAlong(path)
			i2 = rebaseIssues("/"+name, i2)
		}
		if len(i2) > 0 {
			// the entry cannot be sized, so every later offset is undefined
			return nil, AppendIssues(iss, i2...)
		}
		if r.column != nil {
			n := r.column.Length()
			if !r.column.filler {
				cell := runes.Slice(line, cursor, n)
				v, err := r.column.codec.Parse(cell)
				if err != nil {
					iss = AppendIssues(iss, cellIssues(CodeParseError, name, cursor, err)...)
				} else {
					rec[name] = v
				}
			}
			cursor += n
			continue
		}
		n, _ := r.schema.lengthAlong(path)
		sub, childIss := r.schema.parseRunes(line, cursor, path)
		if len(childIss) > 0 {
			iss = AppendIssues(iss, rebaseIssues("/"+r.store, childIss)...)
		} else {
			rec[r.store] = sub
		}
		cursor += n
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return rec, nil
}

// Format encodes a record back into a raw line of exactly Length characters.
// Keys absent from rec pass through as nil; the codec or sub-schema supplies
// its default/padding behavior.
func (s *Schema) Format(rec Record) (string, error) {
	b := &strings.Builder{}
	if iss := s.formatInto(b, rec, 0, nil); len(iss) > 0 {
		return "", iss
	}
	return b.String(), nil
}

func (s *Schema) formatInto(b *strings.Builder, rec Record, offset int, path visits) Issues {
	if path.seen(s) {
		return s.cycleIssues()
	}
	path = append(path, s)
	var iss Issues
	cursor := offset
	for _, name := range s.fields {
		r, i2 := s.lookup(name)
		if len(i2) > 0 {
			return AppendIssues(iss, i2...)
		}
		n, i2 := r.lengthAlong(path)
		if len(i2) > 0 {
			return AppendIssues(iss, rebaseIssues("/"+name, i2)...)
		}
		if r.column != nil {
			var v any
			if !r.column.filler {
				if rec != nil {
					v = rec[name]
				}
			}
			cell, err := r.column.codec.Format(v)
			switch {
			case err != nil:
				iss = AppendIssues(iss, cellIssues(CodeFormatError, name, cursor, err)...)
			case runes.Count(cell) != n:
				iss = AppendIssues(iss, Issue{
					Path:    "/" + name,
					Code:    CodeFormatError,
					Message: i18n.T(CodeFormatError, nil),
					Hint:    fmt.Sprintf("codec produced %d codepoints, want %d", runes.Count(cell), n),
					Offset:  cursor,
				})
			default:
				b.WriteString(cell)
			}
		} else {
			var sub Record
			if rec != nil {
				sub, _ = rec[r.store].(Record)
			}
			childIss := r.schema.formatInto(b, sub, cursor, path)
			iss = AppendIssues(iss, rebaseIssues("/"+r.store, childIss)...)
		}
		cursor += n
	}
	return iss
}

// Match reports whether a raw line belongs to this schema: its
// trailing-trimmed length fits, and the trap predicate (when configured)
// accepts it. A schema whose length is undefined matches nothing.
func (s *Schema) Match(line string) bool {
	n, err := s.Length()
	if err != nil {
		return false
	}
	trimmed := strings.TrimRight(line, " \t\r\n")
	if runes.Count(trimmed) > n {
		return false
	}
	if s.trap != nil {
		return s.trap(line)
	}
	return true
}

// Errors collects every resolution failure across the schema and its full
// reference closure without raising. Reference cycles are reported as issues,
// not followed. An empty result means the schema is well-formed and fully
// resolvable.
func (s *Schema) Errors() Issues {
	return s.errorsAlong(nil)
}

func (s *Schema) errorsAlong(path visits) Issues {
	if path.seen(s) {
		return s.cycleIssues()
	}
	path = append(path, s)
	var iss Issues
	for _, name := range s.fields {
		e := s.entries[name]
		r, i2 := s.resolveEntry(name, e)
		if len(i2) > 0 {
			iss = AppendIssues(iss, i2...)
			continue
		}
		if r.schema != nil {
			iss = AppendIssues(iss, rebaseIssues("/"+r.store, r.schema.errorsAlong(path))...)
		}
	}
	return iss
}

// Validate is the raising form of Errors: nil when clean, the aggregated
// Issues otherwise. Call it once after setup; afterwards Parse, Format and
// Match are read-only and safe for concurrent use.
func (s *Schema) Validate() error {
	if iss := s.Errors(); len(iss) > 0 {
		return iss
	}
	return nil
}

// cellIssues shapes a codec error for the cell at the given field and offset.
func cellIssues(code, field string, offset int, err error) Issues {
	if child, ok := AsIssues(err); ok {
		out := rebaseIssues("/"+field, child)
		for i := range out {
			if out[i].Offset < 0 {
				out[i].Offset = offset
			}
		}
		return out
	}
	return Issues{{
		Path:    "/" + field,
		Code:    code,
		Message: i18n.T(code, nil),
		Cause:   err,
		Offset:  offset,
	}}
}
