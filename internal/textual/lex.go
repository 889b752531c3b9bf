package textual

import "strings"

func isBlank(ch byte) bool {
	return ch == ' ' || ch == '\t'
}

// skipWS returns s from its first character that is not a space or tab.
func skipWS(s string) string {
	return strings.TrimLeft(s, " \t")
}

// splitToken splits s at its first field boundary. A tab always splits. A
// single space splits unless variable is set, in which case only a run of
// two spaces does, so that free text keeps its embedded spaces. rest starts
// at the next non-blank character; ok is false when s has no boundary.
func splitToken(s string, variable bool) (head, rest string, ok bool) {
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\t', s[i] == ' ' && !variable:
			return s[:i], skipWS(s[i+1:]), true
		case s[i] == ' ' && i+1 < len(s) && s[i+1] == ' ':
			return s[:i], skipWS(s[i+2:]), true
		}
	}
	return s, "", false
}

// parseSymbol reads a commodity symbol, either quoted or up to the next space.
func parseSymbol(s string) (symbol, rest string, err error) {
	if strings.HasPrefix(s, `"`) {
		end := strings.IndexByte(s[1:], '"')
		if end < 0 {
			return "", s, ErrMalformedSymbol
		}
		symbol, rest = s[1:end+1], s[end+2:]
		if strings.HasPrefix(rest, " ") {
			rest = rest[1:]
		}
	} else if i := strings.IndexByte(s, ' '); i >= 0 {
		symbol, rest = s[:i], s[i+1:]
	} else {
		symbol = s
	}
	if symbol == "" {
		return "", rest, ErrEmptySymbol
	}
	return symbol, rest, nil
}
