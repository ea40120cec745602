package fixedwidth

// Catalog is the root resolution context for schemas with no Schema parent.
// The resolution engine queries it when a reference name is not found anywhere
// in the ancestor chain of schemas.
type Catalog interface {
	// LookupSchema returns candidate schemas for name, best match first.
	LookupSchema(name string) []*Schema
}

// Registry is the built-in Catalog: a named collection of top-level schemas in
// insertion order. Multiple schemas may share a name; resolution takes the
// first.
type Registry struct {
	byName map[string][]*Schema
	names  []string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string][]*Schema)}
}

// Add registers a schema under its own name.
func (r *Registry) Add(s *Schema) {
	if s == nil {
		return
	}
	if _, ok := r.byName[s.Name()]; !ok {
		r.names = append(r.names, s.Name())
	}
	r.byName[s.Name()] = append(r.byName[s.Name()], s)
}

// Get returns the first schema registered under name.
func (r *Registry) Get(name string) (*Schema, bool) {
	ss := r.byName[name]
	if len(ss) == 0 {
		return nil, false
	}
	return ss[0], true
}

// Names lists registered names in first-insertion order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// LookupSchema implements Catalog.
func (r *Registry) LookupSchema(name string) []*Schema {
	return r.byName[name]
}
