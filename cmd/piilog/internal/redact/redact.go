// Package redact obfuscates the values of sensitive fields in delimited
// key=value log messages.
//
// Matching is best effort. A value runs up to the first following separator,
// so a value that itself contains the separator is cut short, and a pair
// that is not terminated by the separator is left untouched.
package redact

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Redactor replaces the values of a fixed set of fields with a marker.
// It is immutable once built and safe for concurrent use.
type Redactor struct {
	marker    string
	separator string
	patterns  []fieldPattern
}

type fieldPattern struct {
	field string
	re    *regexp.Regexp
}

// New compiles a Redactor for the given fields. An empty separator yields a
// Redactor that returns every message unchanged.
func New(fields []string, marker, separator string) *Redactor {
	r := &Redactor{
		marker:    marker,
		separator: separator,
	}
	if separator == "" {
		return r
	}

	for _, field := range fields {
		if field == "" {
			continue
		}
		r.patterns = append(r.patterns, fieldPattern{
			field: field,
			re:    regexp.MustCompile(regexp.QuoteMeta(field) + "=.*?" + regexp.QuoteMeta(separator)),
		})
	}
	return r
}

// Datum returns message with the value of every occurrence of each field
// replaced by marker. The field name and trailing separator are preserved.
func Datum(fields []string, marker, message, separator string) string {
	return New(fields, marker, separator).Redact(message)
}

// Redact applies the compiled patterns to message and returns the result.
func (r *Redactor) Redact(message string) string {
	for _, p := range r.patterns {
		message = r.replace(p, message)
	}
	return message
}

func (r *Redactor) replace(p fieldPattern, message string) string {
	var b strings.Builder
	replacement := p.field + "=" + r.marker + r.separator

	pos := 0
	changed := false
	for pos < len(message) {
		loc := p.re.FindStringIndex(message[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]

		// "username=" must not be treated as an occurrence of "name="
		if !r.atKeyBoundary(message, start) {
			b.WriteString(message[pos : start+1])
			pos = start + 1
			continue
		}

		b.WriteString(message[pos:start])
		b.WriteString(replacement)
		pos = end
		changed = true
	}

	if !changed {
		return message
	}
	b.WriteString(message[pos:])
	return b.String()
}

// atKeyBoundary reports whether a key starting at i begins a new pair.
func (r *Redactor) atKeyBoundary(message string, i int) bool {
	if i == 0 {
		return true
	}
	if strings.HasSuffix(message[:i], r.separator) {
		return true
	}
	prev, _ := utf8.DecodeLastRuneInString(message[:i])
	return unicode.IsSpace(prev)
}
