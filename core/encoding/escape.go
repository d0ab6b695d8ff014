// Package encoding provides shared text encoding and escaping utilities.
package encoding

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// EscapeXMLText escapes only the basic XML entities for text content.
func EscapeXMLText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// EscapeXMLAttr escapes text for use in XML attributes.
// Includes quote escaping in addition to basic XML entities.
func EscapeXMLAttr(s string) string {
	s = EscapeXMLText(s)
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}

// EscapeNTriplesString escapes s for use between the quotes of an N-Triples
// literal. Control characters without a short escape use \uXXXX.
func EscapeNTriplesString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// EscapeNTriplesIRI escapes the characters that may not appear inside an
// N-Triples IRI reference.
func EscapeNTriplesIRI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r <= 0x20, strings.ContainsRune(`<>"{}|^`+"`"+`\`, r):
			fmt.Fprintf(&b, `\u%04X`, r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// UnescapeNTriples reverses the N-Triples string and IRI escapes: ECHAR
// (\t \b \n \r \f \" \' \\) and UCHAR (\uXXXX, \UXXXXXXXX).
func UnescapeNTriples(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", fmt.Errorf("dangling escape at end of %q", s)
		}
		switch s[i] {
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 'f':
			b.WriteByte('\f')
		case '"', '\'', '\\':
			b.WriteByte(s[i])
		case 'u', 'U':
			width := 4
			if s[i] == 'U' {
				width = 8
			}
			if i+1+width > len(s) {
				return "", fmt.Errorf("truncated \\%c escape in %q", s[i], s)
			}
			code, err := strconv.ParseUint(s[i+1:i+1+width], 16, 32)
			if err != nil {
				return "", fmt.Errorf("invalid \\%c escape in %q: %w", s[i], s, err)
			}
			r := rune(code)
			if !utf8.ValidRune(r) {
				return "", fmt.Errorf("escape \\%c%s is not a valid code point", s[i], s[i+1:i+1+width])
			}
			b.WriteRune(r)
			i += width
		default:
			return "", fmt.Errorf("unknown escape \\%c in %q", s[i], s)
		}
	}
	return b.String(), nil
}
