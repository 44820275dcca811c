package crew

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// CleanName turns an upper case roster name such as "O'BRIEN-MCDONALD JO*"
// into "O'Brien-McDonald Jo".
func CleanName(name string) string {
	name = strings.ReplaceAll(name, "*", "")
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = cleanWord(w)
	}
	return strings.Join(words, " ")
}

func cleanWord(w string) string {
	var b strings.Builder
	upper := true
	for _, r := range w {
		if upper {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteRune(unicode.ToLower(r))
		}
		upper = r == '-' || r == '\''
	}
	s := b.String()

	if rest, ok := strings.CutPrefix(s, "Mc"); ok && rest != "" {
		r, size := utf8.DecodeRuneInString(rest)
		s = "Mc" + string(unicode.ToUpper(r)) + rest[size:]
	}
	for _, sep := range []string{"-Mc", "'Mc"} {
		if i := strings.Index(s, sep); i >= 0 && i+len(sep) < len(s) {
			j := i + len(sep)
			r, size := utf8.DecodeRuneInString(s[j:])
			s = s[:j] + string(unicode.ToUpper(r)) + s[j+size:]
		}
	}
	return s
}
