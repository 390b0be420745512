// Package placeholder checks bracketed template variables such as [NAME]
// or [DATE_2] between a source text and its translation.
package placeholder

import "regexp"

var variableRe = regexp.MustCompile(`\[([A-Z0-9_]+)\]`)

// Variables returns every variable token in s, in order of appearance.
// Duplicates are kept.
func Variables(s string) []string {
	matches := variableRe.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return nil
	}
	vars := make([]string, 0, len(matches))
	for _, m := range matches {
		vars = append(vars, m[1])
	}
	return vars
}

// Match reports whether a and b use the same variables: both must contain
// the same number of tokens and every distinct token of a must occur in b.
func Match(a, b string) bool {
	av, bv := Variables(a), Variables(b)
	if len(av) != len(bv) {
		return false
	}
	bs := set(bv)
	for _, v := range av {
		if !bs[v] {
			return false
		}
	}
	return true
}

// Missing returns the distinct tokens of a that b lacks, in order of first
// appearance in a.
func Missing(a, b string) []string {
	return difference(Variables(a), set(Variables(b)))
}

// Extra returns the distinct tokens of b that a lacks.
func Extra(a, b string) []string {
	return Missing(b, a)
}

func difference(vars []string, other map[string]bool) []string {
	var out []string
	seen := make(map[string]bool, len(vars))
	for _, v := range vars {
		if other[v] || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func set(vars []string) map[string]bool {
	s := make(map[string]bool, len(vars))
	for _, v := range vars {
		s[v] = true
	}
	return s
}
