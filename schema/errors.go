package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType          = "invalid_type"
	CodeRequired             = "required"
	CodeUnknownKey           = "unknown_key"
	CodeTooSmall             = "too_small"
	CodeTooBig               = "too_big"
	CodeTooShort             = "too_short"
	CodeTooLong              = "too_long"
	CodeInvalidEnum          = "invalid_enum"
	CodeInvalidLiteral       = "invalid_literal"
	CodeInvalidFormat        = "invalid_format"
	CodeDiscriminatorMissing = "discriminator_missing"
	CodeDiscriminatorUnknown = "discriminator_unknown"
	CodeUnionNoMatch         = "union_no_match"
	CodeIntersectionConflict = "intersection_conflict"
	CodeParseError           = "parse_error"
)

// ErrMalformedSchema marks schema construction problems: unsupported node
// arrangements detected while building or transforming a tree. It is a
// programming-error domain, deliberately distinct from the Issues returned
// for data validation failures; test with errors.Is.
var ErrMalformedSchema = errors.New("malformed schema")

// MalformedSchemaf wraps ErrMalformedSchema with a formatted detail message.
func MalformedSchemaf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrMalformedSchema)...)
}

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, expected values, etc.
	Cause   error  // Optional: underlying error.
}

// Issues is a collection of validation errors that implements error.
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
		// e.g. invalid_type at /path
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

// PrefixIssues rebases the issue paths of err under base (a JSON Pointer
// segment such as "/name" or "/2"). Non-Issues errors are wrapped as a single
// parse_error at base.
func PrefixIssues(base string, err error) Issues {
	if err == nil {
		return nil
	}
	child, ok := AsIssues(err)
	if !ok {
		return Issues{Issue{Path: base, Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	out := make(Issues, 0, len(child))
	for _, it := range child {
		p := it.Path
		if p == "" || p == "/" {
			p = base
		} else if p[0] == '/' {
			p = base + p
		} else {
			p = base + "/" + p
		}
		out = append(out, Issue{Path: p, Code: it.Code, Message: it.Message, Hint: it.Hint, Cause: it.Cause})
	}
	return out
}
