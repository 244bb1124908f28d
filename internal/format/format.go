// Package format canonicalizes program output so verdicts do not hinge on
// whitespace or line-ending differences. Anything beyond whitespace is
// compared byte for byte: no numeric tolerance, no case folding.
package format

import "strings"

// Normalize returns the canonical form of text: line endings unified to \n,
// trailing whitespace stripped per line, leading/trailing blank space
// trimmed. Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Compare reports whether actual and expected are equal after normalization.
func Compare(actual, expected string) bool {
	return Normalize(actual) == Normalize(expected)
}
