package importers

import "strings"

// splitCSV splits an upstream comma-joined multi-value field (genres, aka
// types/attributes) into its parts.
func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}
