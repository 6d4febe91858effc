package table

import "strings"

// Part is the sub-table of one language.
type Part struct {
	Language string
	Table    *Table
}

// Partition splits t by language, one part per distinct language sorted
// by name. When allow is non-empty only languages named in it
// (case-insensitive) are returned; an allow-list that matches nothing
// yields no parts.
func Partition(t *Table, allow []string) []Part {
	rowsByLang := make(map[string][]int)
	for i, lang := range t.languages {
		rowsByLang[lang] = append(rowsByLang[lang], i)
	}

	allowed := allowSet(allow)

	var parts []Part
	for _, lang := range t.Languages() {
		if allowed != nil && !allowed[strings.ToLower(lang)] {
			continue
		}
		parts = append(parts, Part{
			Language: lang,
			Table:    t.Select(rowsByLang[lang]),
		})
	}
	return parts
}

func allowSet(allow []string) map[string]bool {
	var set map[string]bool
	for _, name := range allow {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if set == nil {
			set = make(map[string]bool)
		}
		set[strings.ToLower(name)] = true
	}
	return set
}
