package fixedwidth

// Codec parses and formats one fixed-width cell. The traversal calls it as a
// black box per column.
//
// Parse must be total over any input of up to Length codepoints: a record cut
// short hands the codec a shorter (possibly empty) cell, never an error.
// Format must return exactly Length codepoints; padding and truncation are the
// codec's concern.
type Codec interface {
	Name() string
	Length() int
	Parse(cell string) (any, error)
	Format(v any) (string, error)
}

// Configurable is implemented by codecs whose behavior is driven by an Options
// table. Option propagation reaches into such codecs to fill unset keys.
type Configurable interface {
	Options() *Options
}
