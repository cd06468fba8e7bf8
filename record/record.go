// Package record defines the data items the view engine operates on and the
// signatures used to detect visual change between render passes.
package record

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Record is an opaque domain item: a file, a log line, a client row. ID must
// be stable across fetches for the same underlying item; Fields is an open
// bag of display-relevant and auxiliary values.
type Record struct {
	ID     string
	Fields map[string]any
}

// Field returns the named field value and whether it is present. The pseudo
// field "id" resolves to the record ID.
func (r Record) Field(name string) (any, bool) {
	if name == "id" {
		return r.ID, true
	}
	v, ok := r.Fields[name]
	return v, ok
}

// Signature is a compact, comparable summary of a record's display-relevant
// fields. Two records are visually equivalent iff their signatures are equal.
// Comparison is plain string equality.
type Signature string

// fieldSep separates encoded field values inside a signature. Formatted
// values never contain it: numeric encodings cannot produce it and string
// values escape it.
const fieldSep = "\x1f"

// missingSentinel stands in for a field absent from the record bag, so a
// malformed record still yields a usable signature.
const missingSentinel = "\x00?"

// FormatValue renders a field value into its signature encoding. The encoding
// is deterministic: structurally equal scalars always format identically.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "\x00nil"
	case string:
		return escapeString(val)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.FormatInt(int64(val), 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case time.Time:
		return strconv.FormatInt(val.UnixNano(), 10)
	case time.Duration:
		return strconv.FormatInt(int64(val), 10)
	case fmt.Stringer:
		return escapeString(val.String())
	default:
		return escapeString(fmt.Sprintf("%v", val))
	}
}

// sigEscaper makes string values safe to embed between field separators.
// Escaping the backslash first keeps the encoding injective, so no value can
// forge another value's framing or the missing-field sentinel.
var sigEscaper = strings.NewReplacer(
	`\`, `\\`,
	"\x1f", "\x1f",
	"\x00", "\x00",
)

func escapeString(s string) string {
	if !strings.ContainsAny(s, "\\\x1f\x00") {
		return s
	}
	return sigEscaper.Replace(s)
}

// signature assembles the encoded parts into a Signature value.
func signature(parts []string) Signature {
	return Signature(strings.Join(parts, fieldSep))
}
