package services

import (
	"strings"

	"github.com/bitwharf/bucketeer/internal/models"
)

// FilterEntries returns the entries whose key contains query as a
// case-insensitive substring. An empty query returns listing unchanged.
// Pure function; recomputed on every query or listing change.
func FilterEntries(listing []models.ObjectEntry, query string) []models.ObjectEntry {
	if query == "" {
		return listing
	}
	needle := strings.ToLower(query)
	filtered := make([]models.ObjectEntry, 0, len(listing))
	for _, e := range listing {
		if strings.Contains(strings.ToLower(e.Key), needle) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
