package core

import "github.com/shopspring/decimal"

// BidMeetsFloor returns true if the bid price meets or exceeds the floor
// price. The floor is inclusive: a bid at exactly the floor is eligible.
func BidMeetsFloor(bidPrice, floorPrice decimal.Decimal) bool {
	return bidPrice.GreaterThanOrEqual(floorPrice)
}

// Clear runs the uniform-price clearing pass over bids already ordered by
// OrderBids. It makes a single pass, left to right:
//
//  1. A bid below the floor, or arriving after the auction size is exhausted,
//     is rejected with below_floor or size_exhausted respectively.
//  2. Otherwise the bid is awarded min(remaining size, bid quantity) and the
//     accumulator advances.
//
// The clearing price is the price of the last bid with a non-zero award (the
// lowest-priced winner, which is also the only bid that can be partially
// filled). Once classified, a bid is never reconsidered: after exhaustion
// every later bid is rejected size_exhausted without reordering, even though
// the price-sorted input makes a later higher-priced bid impossible.
//
// Clear is a pure function: identical (params, bids) always yields a
// bit-identical outcome, including the order of rejected entries. Malformed
// input (non-positive quantities, duplicate IDs) is a caller contract
// violation screened by ValidateBids at the ingestion boundary.
func Clear(params AuctionParameters, orderedBids []Bid) ClearingOutcome {
	outcome := ClearingOutcome{
		ClearingPrice: decimal.Zero,
		Awarded:       make([]AwardedBid, 0, len(orderedBids)),
		Rejected:      make([]RejectedBid, 0),
	}

	var allocated int64
	for _, bid := range orderedBids {
		// Exhaustion wins over the floor check so that a zero-size auction
		// rejects everything as size_exhausted.
		if allocated == params.TotalSize {
			outcome.Rejected = append(outcome.Rejected, RejectedBid{Bid: bid, Reason: RejectSizeExhausted})
			continue
		}
		if !BidMeetsFloor(bid.Price, params.FloorPrice) {
			outcome.Rejected = append(outcome.Rejected, RejectedBid{Bid: bid, Reason: RejectBelowFloor})
			continue
		}

		award := params.TotalSize - allocated
		if bid.Quantity < award {
			award = bid.Quantity
		}

		outcome.Awarded = append(outcome.Awarded, AwardedBid{Bid: bid, Quantity: award})
		outcome.ClearingPrice = bid.Price
		allocated += award
	}

	outcome.Allocated = allocated
	return outcome
}
