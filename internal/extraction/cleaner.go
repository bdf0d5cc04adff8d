package extraction

import "strings"

const edgeChars = ": -"

// Clean collapses whitespace runs to single spaces and strips leading and
// trailing runs of colons, hyphens and spaces. Clean(Clean(s)) == Clean(s).
func Clean(raw string) string {
	s := strings.Join(strings.Fields(raw), " ")
	s = strings.TrimLeft(s, edgeChars)
	s = strings.TrimRight(s, edgeChars)
	return strings.TrimSpace(s)
}
