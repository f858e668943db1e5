package nonconformity

import "strings"

// closingKeywords are the label fragments the legacy data used to mark
// closing states ("closed", Spanish "cerrada"/"cerrado").
var closingKeywords = []string{"closed", "cerrad"}

// ClassifyStatusLabel reports whether a status label denotes a
// closed-type state by the legacy keyword convention. Runtime logic
// relies on the explicit closed flag carried by the catalog entry;
// this heuristic only defaults the flag when seeding catalogs that
// predate it.
func ClassifyStatusLabel(label string) bool {
	normalized := strings.ToLower(strings.TrimSpace(label))
	for _, keyword := range closingKeywords {
		if strings.Contains(normalized, keyword) {
			return true
		}
	}
	return false
}
