package parser

import "regexp"

// Fields is the flat attribute-to-value mapping extracted from one audit
// log line. Quoting is resolved before storage; a repeated attribute keeps
// its last value.
type Fields map[string]string

var (
	// attrPattern matches attribute=value tokens. The value is either a
	// double-quoted string (inner content captured) or a bare run of
	// non-whitespace.
	attrPattern = regexp.MustCompile(`(\S+)=(?:"([^"]+)"|(\S+))`)

	// ctrlPattern matches runs of ASCII control characters. auditd joins
	// multi-part messages with them.
	ctrlPattern = regexp.MustCompile(`[\x00-\x1F]+`)
)

// ParseFields scans a raw line left to right for attribute=value tokens.
// Spans that match nothing are skipped; malformed input never fails.
func ParseFields(line string) Fields {
	clean := ctrlPattern.ReplaceAllString(line, " ")

	fields := make(Fields)
	for _, m := range attrPattern.FindAllStringSubmatch(clean, -1) {
		val := m[2] // quoted content
		if val == "" {
			val = m[3] // bare token
		}
		fields[m[1]] = val
	}
	return fields
}
