package aggregator

import (
	"sort"

	"github.com/jlkcz/auditparser/internal/model"
)

// ProfileGroup is one profile's slice of a report.
type ProfileGroup struct {
	Profile string
	Records []model.Record
}

// GroupByProfile partitions deduplicated records by profile name. Profiles
// come back in lexicographic order; within a profile, records are sorted by
// count descending with ties keeping their input order.
func GroupByProfile(records []model.Record) []ProfileGroup {
	byProfile := make(map[string][]model.Record)
	for _, r := range records {
		byProfile[r.Profile()] = append(byProfile[r.Profile()], r)
	}

	names := make([]string, 0, len(byProfile))
	for name := range byProfile {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]ProfileGroup, 0, len(names))
	for _, name := range names {
		recs := byProfile[name]
		sort.SliceStable(recs, func(i, j int) bool {
			return recs[i].Count() > recs[j].Count()
		})
		groups = append(groups, ProfileGroup{Profile: name, Records: recs})
	}
	return groups
}
