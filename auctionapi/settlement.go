package auctionapi

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cloudx-io/bondclear/core"
)

// SettlementEntry is one winner's delivery-versus-payment input: the awarded
// sub-balance on the delivery leg and the payment obligation computed at the
// uniform clearing price on the cash leg.
type SettlementEntry struct {
	BidID         string          `json:"bid_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	BalanceHandle string          `json:"balance_handle"`
	ClearingPrice decimal.Decimal `json:"clearing_price"`
	Payment       decimal.Decimal `json:"payment"`
}

// RejectionNotice tells a losing bidder why their bid won nothing.
type RejectionNotice struct {
	BidID  string `json:"bid_id"`
	Reason string `json:"reason"`
}

// BuildSettlement pairs the awarded bids 1:1 with the allocator's
// sub-balances and computes each winner's payment obligation:
//
//	payment = clearingPrice * allocation.quantity
//
// The pairing is positional and cross-checked by bid ID; a mismatch means the
// outcome and allocations came from different runs and is an error, not
// something to repair.
func BuildSettlement(outcome core.ClearingOutcome, allocations []core.Allocation) ([]SettlementEntry, error) {
	if len(outcome.Awarded) != len(allocations) {
		return nil, fmt.Errorf("awarded/allocation length mismatch: %d vs %d",
			len(outcome.Awarded), len(allocations))
	}

	entries := make([]SettlementEntry, 0, len(allocations))
	for i, alloc := range allocations {
		aw := outcome.Awarded[i]
		if aw.Bid.ID != alloc.BidID {
			return nil, fmt.Errorf("allocation %d is for bid %s, expected %s", i, alloc.BidID, aw.Bid.ID)
		}
		if !alloc.Quantity.Equal(decimal.NewFromInt(aw.Quantity)) {
			return nil, fmt.Errorf("allocation for bid %s carries %s, awarded %d",
				alloc.BidID, alloc.Quantity, aw.Quantity)
		}

		entries = append(entries, SettlementEntry{
			BidID:         alloc.BidID,
			Quantity:      alloc.Quantity,
			BalanceHandle: alloc.BalanceHandle,
			ClearingPrice: outcome.ClearingPrice,
			Payment:       outcome.ClearingPrice.Mul(alloc.Quantity),
		})
	}

	return entries, nil
}

// BuildRejections derives the per-bidder rejection notices from an outcome.
func BuildRejections(outcome core.ClearingOutcome) []RejectionNotice {
	notices := make([]RejectionNotice, 0, len(outcome.Rejected))
	for _, rj := range outcome.Rejected {
		notices = append(notices, RejectionNotice{BidID: rj.Bid.ID, Reason: rj.Reason})
	}
	return notices
}
