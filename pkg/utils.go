package pkg

import "strings"

func Filter[T any](items []T, predicate func(T) bool) []T {
	filtered := []T{}
	for _, item := range items {
		if predicate(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// IsIdentifier reports whether s matches [A-Za-z_][A-Za-z0-9_]*.
func IsIdentifier(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// SplitQualified splits "table.column" at the first dot.
func SplitQualified(name string) (table, column string, ok bool) {
	table, column, ok = strings.Cut(name, ".")
	if !ok || table == "" || column == "" {
		return "", "", false
	}
	return table, column, true
}

func Qualify(table, column string) string { return table + "." + column }
