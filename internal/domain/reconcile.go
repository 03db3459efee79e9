package domain

// MergeResult describes the outcome of reconciling an incoming batch
// into the current collection.
type MergeResult struct {
	// Quotes is the merged collection. Exactly one record per
	// distinct effective key.
	Quotes []Quote

	// Added counts effective keys that did not exist before the merge.
	Added int

	// Replaced counts overwrites of keys that already held a record.
	Replaced int
}

// Merge reconciles incoming records into the current collection.
// Incoming wins on any effective-key collision, and a later incoming
// record wins over an earlier one sharing the same key. Records in
// current whose keys are untouched survive unchanged. Neither input
// slice is mutated.
func Merge(current, incoming []Quote) MergeResult {
	merged := make([]Quote, len(current), len(current)+len(incoming))
	copy(merged, current)

	index := make(map[string]int, len(merged))
	for i, q := range merged {
		index[q.Key()] = i
	}

	existing := len(index)

	result := MergeResult{}
	for _, q := range incoming {
		key := q.Key()
		if i, ok := index[key]; ok {
			merged[i] = q
			result.Replaced++

			continue
		}

		index[key] = len(merged)
		merged = append(merged, q)
	}

	result.Added = len(index) - existing
	result.Quotes = merged

	return result
}
