package inventory

import (
	"sort"

	"github.com/dunterov/aws-csv-to-confluence/internal"
)

// PageGroup is one page worth of records: every record sharing a group key.
// Display holds the first-seen casing of the group value; Records keep
// source order.
type PageGroup struct {
	Key     string
	Display string
	Records []internal.Record
}

// Group partitions records by case-insensitive group key. The result is
// sorted by key so a run always visits pages in the same order. Empty
// groups are never produced.
func Group(records []internal.Record) []PageGroup {
	byKey := make(map[string]*PageGroup)
	for _, r := range records {
		key := r.GroupKey()
		g, ok := byKey[key]
		if !ok {
			g = &PageGroup{
				Key:     key,
				Display: r.Group,
			}
			byKey[key] = g
		}
		g.Records = append(g.Records, r)
	}

	groups := make([]PageGroup, 0, len(byKey))
	for _, g := range byKey {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Key < groups[j].Key
	})
	return groups
}
