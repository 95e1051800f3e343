package carpet

import "strings"

// camelCaseToSnakeCase implements the column-name mapping of spec §4.1.3.
//
// Rules, in order:
//   - a leading underscore is an escape: it is stripped and the remainder is
//     returned verbatim, with no further case conversion ("_alreadyLower" ->
//     "alreadyLower");
//   - otherwise, a run of consecutive uppercase letters is kept glued
//     (lowercased) while the next rune is still uppercase, or end-of-string;
//     the moment the next rune turns lowercase, an underscore is inserted
//     before the last uppercase letter of the run (so the last uppercase
//     letter starts the new word): "parseXMLValue" -> "parse_xml_value",
//     "URLPath" -> "url_path";
//   - a single uppercase letter following a lowercase letter starts a new
//     word normally;
//   - an empty result (e.g. the input was only underscores) falls back to
//     the original input.
func camelCaseToSnakeCase(s string) string {
	if strings.HasPrefix(s, "_") {
		trimmed := strings.TrimLeft(s, "_")
		if trimmed == "" {
			return s
		}
		return trimmed
	}

	runes := []rune(s)
	var out strings.Builder
	out.Grow(len(runes) + 4)

	i := 0
	for i < len(runes) {
		r := runes[i]
		if !isUpper(r) {
			out.WriteRune(r)
			i++
			continue
		}

		// Start (or continue) a run of uppercase letters.
		runStart := i
		j := i
		for j < len(runes) && isUpper(runes[j]) {
			j++
		}
		runEnd := j // exclusive; runes[runStart:runEnd] all uppercase

		nextIsLower := j < len(runes) && !isUpper(runes[j])

		if out.Len() > 0 && lastByteIsNotUnderscore(&out) {
			out.WriteByte('_')
		}

		if nextIsLower && runEnd-runStart > 1 {
			// Glue all but the last uppercase letter of the run, then
			// break before the last one so it starts the next word.
			for k := runStart; k < runEnd-1; k++ {
				out.WriteRune(toLower(runes[k]))
			}
			out.WriteByte('_')
			out.WriteRune(toLower(runes[runEnd-1]))
		} else {
			for k := runStart; k < runEnd; k++ {
				out.WriteRune(toLower(runes[k]))
			}
		}

		i = runEnd
	}

	result := out.String()
	if result == "" {
		return s
	}
	return result
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

func toLower(r rune) rune {
	if isUpper(r) {
		return r + ('a' - 'A')
	}
	return r
}

func lastByteIsNotUnderscore(b *strings.Builder) bool {
	s := b.String()
	return len(s) > 0 && s[len(s)-1] != '_'
}

// applyColumnNaming maps a Go field name to a Parquet column name per the
// configured ColumnNamingStrategy (spec §4.1.1).
func applyColumnNaming(strategy ColumnNamingStrategy, name string) string {
	switch strategy {
	case SnakeCase:
		return camelCaseToSnakeCase(name)
	default:
		return name
	}
}
