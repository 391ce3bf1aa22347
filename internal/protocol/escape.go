package protocol

import "strings"

// Escape applies the wire encoding's escape rule: & first, then < and >.
// Order matters — escaping & after < or > would double-escape the
// entities just introduced.
func Escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// Unescape reverses Escape and additionally understands the entities the
// backend emits that our own encoder never produces: &apos; &quot; &nbsp;
// &#40; &#41;.
func Unescape(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '&' {
			b.WriteByte(s[i])
			i++
			continue
		}
		rest := s[i:]
		switch {
		case strings.HasPrefix(rest, "&amp;"):
			b.WriteByte('&')
			i += len("&amp;")
		case strings.HasPrefix(rest, "&lt;"):
			b.WriteByte('<')
			i += len("&lt;")
		case strings.HasPrefix(rest, "&gt;"):
			b.WriteByte('>')
			i += len("&gt;")
		case strings.HasPrefix(rest, "&apos;"):
			b.WriteByte('\'')
			i += len("&apos;")
		case strings.HasPrefix(rest, "&quot;"):
			b.WriteByte('"')
			i += len("&quot;")
		case strings.HasPrefix(rest, "&nbsp;"):
			b.WriteRune(' ')
			i += len("&nbsp;")
		case strings.HasPrefix(rest, "&#40;"):
			b.WriteByte('(')
			i += len("&#40;")
		case strings.HasPrefix(rest, "&#41;"):
			b.WriteByte(')')
			i += len("&#41;")
		default:
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}
