package aggregator

import "github.com/jlkcz/auditparser/internal/model"

// Deduplicate collapses structurally equal records into one representative
// per identity key with Count set to the number of occurrences. Which
// instance survives is arbitrary (the first); output keeps first-occurrence
// order. Equality is the identity key itself, never a derived hash.
func Deduplicate(records []model.Record) []model.Record {
	var order []string
	reps := make(map[string]model.Record)
	counts := make(map[string]int)

	for _, r := range records {
		key := r.IdentityKey()
		if _, seen := reps[key]; !seen {
			reps[key] = r
			order = append(order, key)
		}
		counts[key]++
	}

	out := make([]model.Record, 0, len(order))
	for _, key := range order {
		rep := reps[key]
		rep.SetCount(counts[key])
		out = append(out, rep)
	}
	return out
}

// DeduplicateUnknown keeps one copy of each distinct unknown line. Unknown
// records carry no counts; uniqueness is by line text alone.
func DeduplicateUnknown(unknown []model.UnknownRecord) []model.UnknownRecord {
	seen := make(map[string]bool)
	var out []model.UnknownRecord

	for _, u := range unknown {
		if seen[u.Line] {
			continue
		}
		seen[u.Line] = true
		out = append(out, u)
	}
	return out
}
