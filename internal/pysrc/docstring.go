package pysrc

import "strings"

// stringLiteral strips the prefix letters and quotes from a Python string
// literal's source text. Escape sequences are left as written; docstrings
// rarely rely on them and keeping the source text verbatim preserves
// Markdown content exactly.
func stringLiteral(text string) string {
	i := 0
	for i < len(text) && text[i] != '"' && text[i] != '\'' {
		i++
	}
	text = text[i:]
	for _, delim := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(text, delim) {
			body := text[len(delim):]
			body = strings.TrimSuffix(body, delim)
			return body
		}
	}
	return text
}

// Cleandoc normalizes docstring indentation the way Python's inspect.cleandoc
// does: any leading whitespace is removed from the first line, the longest
// common leading whitespace of the remaining lines is removed from them, and
// leading and trailing blank lines are dropped.
func Cleandoc(doc string) string {
	lines := strings.Split(doc, "\n")

	margin := -1
	for _, line := range lines[1:] {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		indent := len(line) - len(trimmed)
		if margin < 0 || indent < margin {
			margin = indent
		}
	}

	lines[0] = strings.TrimLeft(lines[0], " \t")
	if margin > 0 {
		for i, line := range lines[1:] {
			if len(line) >= margin {
				lines[i+1] = line[margin:]
			} else {
				lines[i+1] = strings.TrimLeft(line, " \t")
			}
		}
	}

	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
