// Package areas regroups rendered profiles into one directory per area of
// interest and writes the area and global index pages.
package areas

import (
	"strings"

	"github.com/c360studio/dossier/source"
)

// Group is the set of candidates sharing a primary area.
type Group struct {
	// Key is the sanitized directory name.
	Key string
	// Label is the first-seen original area text.
	Label   string
	Members []source.CandidateRecord
}

// GroupRecords partitions records by SanitizeStem(area) in first-seen order.
// Records without an area are left out unless includeUnspecified is set, in
// which case they form a "Sin especificar" group. An area whose text has no
// usable characters (see Unnamed) always lands in that group, so every
// candidate with an area is placed. Members are deduplicated by file stem.
func GroupRecords(records []source.CandidateRecord, includeUnspecified bool) []Group {
	var groups []Group
	byKey := make(map[string]int)
	seen := make(map[string]map[string]bool)

	for _, rec := range records {
		label := strings.TrimSpace(rec.AreaPrimary)
		key := source.SanitizeStem(label)
		if key == "" || !rec.HasArea() {
			if !rec.HasArea() && !includeUnspecified {
				continue
			}
			label = source.UnspecifiedArea
			key = source.SanitizeStem(label)
		}

		idx, ok := byKey[key]
		if !ok {
			idx = len(groups)
			byKey[key] = idx
			groups = append(groups, Group{Key: key, Label: label})
			seen[key] = make(map[string]bool)
		}
		if seen[key][rec.FileStem] {
			continue
		}
		seen[key][rec.FileStem] = true
		groups[idx].Members = append(groups[idx].Members, rec)
	}

	return groups
}

// Candidates returns the number of distinct members across groups.
func Candidates(groups []Group) int {
	n := 0
	for _, g := range groups {
		n += len(g.Members)
	}
	return n
}

// Unnamed returns the records that name an area made only of characters
// dropped from directory names, such as "?" or "/".
func Unnamed(records []source.CandidateRecord) []source.CandidateRecord {
	var out []source.CandidateRecord
	for _, rec := range records {
		if rec.HasArea() && source.SanitizeStem(rec.AreaPrimary) == "" {
			out = append(out, rec)
		}
	}
	return out
}
