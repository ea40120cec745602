package fixedwidth

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeConfig        = "config_error"
	CodeDuplicateName = "duplicate_name"
	CodeReservedName  = "reserved_name"
	CodeUnresolvedRef = "unresolved_reference"
	CodeSchema        = "schema_error"
	CodeParseError    = "parse_error"
	CodeFormatError   = "format_error"
)

// Issue represents a single schema or record problem.
type Issue struct {
	Path    string // Field path (for example: /addr/zip).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, what was found instead, etc.
	Cause   error  // Optional: underlying error.
	// Offset is the character offset of the offending cell within the record
	// (-1 when the issue is not tied to a position).
	Offset int
	// Params carries structured parameters (e.g., {"schema":"row", "field":"id"})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of problems that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. duplicate_name at /code
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// HasCode reports whether err carries at least one Issue with the given code.
func HasCode(err error, code string) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// rebaseIssues re-parents child issue paths under base ("/field"). Root paths
// collapse onto base itself; offsets are preserved.
func rebaseIssues(base string, child Issues) Issues {
	var out Issues
	for _, it := range child {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		it.Path = p
		out = AppendIssues(out, it)
	}
	return out
}
