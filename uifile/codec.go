package uifile

import (
	"regexp"
	"strings"
)

const (
	lineSeparator     = "\n"
	keyValueSeparator = ": "
	// emptyValue stands in for "" while normalising quoted lines.
	emptyValue = "<empty>"
)

var (
	quotedKeyRe   = regexp.MustCompile(`^"([^"]+)"`)
	quotedValueRe = regexp.MustCompile(`: "([^"]+)"`)
)

// ---------------------------------------------------------------------------
// Detection
// ---------------------------------------------------------------------------

// IsQuoted reports whether raw translation text is in quoted (NWP) syntax.
func IsQuoted(text string) bool {
	return strings.Contains(text, `"`+ReservedKey+`"`)
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// Parse parses translation text in either syntax. It never fails: lines
// without a recognisable key/value split are skipped. A key seen twice keeps
// its first position and takes the last value.
func Parse(text string) *File {
	f := New()
	for _, raw := range trimBlankLines(strings.Split(text, lineSeparator)) {
		key, value, ok := parseLine(raw)
		if !ok {
			continue
		}
		f.Set(key, value)
	}
	return f
}

// trimBlankLines drops whitespace-only lines at both ends of the file.
func trimBlankLines(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}

func parseLine(raw string) (key, value string, ok bool) {
	if strings.HasPrefix(raw, `"`) {
		key, value, ok = parseQuotedLine(raw)
	} else {
		key, value, ok = parseSimpleLine(strings.TrimSuffix(raw, "\r"))
	}
	if !ok || key == "" {
		return "", "", false
	}
	if value == emptyValue {
		value = ""
	}
	return key, value, true
}

// parseQuotedLine handles `"key": "value",`. An empty quoted value does not
// match the value pattern and becomes the empty placeholder.
func parseQuotedLine(line string) (string, string, bool) {
	km := quotedKeyRe.FindStringSubmatch(line)
	if km == nil {
		return "", "", false
	}
	value := emptyValue
	if vm := quotedValueRe.FindStringSubmatch(line); vm != nil {
		value = vm[1]
	}
	return km[1], value, true
}

// parseSimpleLine handles `key: value`. The line is trimmed before the split,
// so a value ending in ": " gets its trailing space back afterwards, and
// `key: ` yields an empty value.
func parseSimpleLine(line string) (string, string, bool) {
	trimmed := strings.TrimSpace(line)
	key, value, found := strings.Cut(trimmed, keyValueSeparator)
	if strings.HasSuffix(line, keyValueSeparator) {
		if found {
			value += " "
		} else if k, ok := strings.CutSuffix(trimmed, ":"); ok {
			key, value, found = k, "", true
		}
	}
	if !found {
		return "", "", false
	}
	return strings.TrimSpace(key), value, true
}

// ---------------------------------------------------------------------------
// Serialization
// ---------------------------------------------------------------------------

// Serialize renders the mapping as translation text. Quoted syntax is used
// when the mapping carries ReservedKey; every quoted line except the last
// ends with a comma.
func (f *File) Serialize() string {
	entries := f.entriesOrNil()
	quoted := f.IsQuoted()

	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString(lineSeparator)
		}
		if quoted {
			b.WriteString(`"` + e.key + `"` + keyValueSeparator + `"` + e.value + `"`)
			if i < len(entries)-1 {
				b.WriteByte(',')
			}
			continue
		}
		b.WriteString(e.key + keyValueSeparator + e.value)
	}
	return b.String()
}

// String implements fmt.Stringer.
func (f *File) String() string {
	return f.Serialize()
}
