package ltx

import "strings"

// StripComment removes a trailing comment from line and trims the result.
// A comment starts at the first ';' or "//" outside double quotes. A
// backslash escapes a ';'.
func StripComment(line string) string {
	inQuotes := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inQuotes = !inQuotes
		case '\\':
			if !inQuotes && i+1 < len(line) && line[i+1] == ';' {
				i++
			}
		case ';':
			if !inQuotes {
				return strings.TrimSpace(line[:i])
			}
		case '/':
			if !inQuotes && i+1 < len(line) && line[i+1] == '/' {
				return strings.TrimSpace(line[:i])
			}
		}
	}
	return strings.TrimSpace(line)
}
