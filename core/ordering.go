package core

import "sort"

// OrderBids produces the total order the clearing pass consumes: higher price
// first, and among equal prices the earlier submission first. The sort is
// stable, so bids sharing both price and submission time keep their relative
// input order within a run.
//
// The input slice is not modified.
func OrderBids(bids []Bid) []Bid {
	ordered := make([]Bid, len(bids))
	copy(ordered, bids)

	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Price.Equal(ordered[j].Price) {
			return ordered[i].Price.GreaterThan(ordered[j].Price)
		}
		return ordered[i].SubmittedAt.Before(ordered[j].SubmittedAt)
	})

	return ordered
}
