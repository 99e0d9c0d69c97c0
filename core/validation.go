package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidateParameters screens auction parameters at the ingestion boundary.
// A zero-size auction is only legal when no bids were collected.
func ValidateParameters(params AuctionParameters, bidCount int) error {
	if params.TotalSize < 0 {
		return fmt.Errorf("negative auction size %d", params.TotalSize)
	}
	if params.TotalSize == 0 && bidCount > 0 {
		return fmt.Errorf("auction size is zero but %d bids were submitted", bidCount)
	}
	if params.FloorPrice.IsNegative() {
		return fmt.Errorf("negative floor price %s", params.FloorPrice)
	}
	return nil
}

// ValidateBids screens a bid set before it reaches the clearing pass:
// every quantity must be positive and every bid ID unique. Violations are
// caller contract errors, never coerced.
func ValidateBids(bids []Bid) error {
	seen := make(map[string]bool, len(bids))
	for _, bid := range bids {
		if bid.ID == "" {
			return fmt.Errorf("bid with empty id")
		}
		if seen[bid.ID] {
			return fmt.Errorf("duplicate bid id %s", bid.ID)
		}
		seen[bid.ID] = true

		if bid.Quantity <= 0 {
			return fmt.Errorf("bid %s: non-positive quantity %d", bid.ID, bid.Quantity)
		}
	}
	return nil
}

// ValidateSupply checks that the offered balance matches the advertised
// auction size, the precondition Allocate's conservation law rests on.
func ValidateSupply(supply *FungibleSupply, params AuctionParameters) error {
	if supply == nil {
		return fmt.Errorf("missing supply balance")
	}
	if !supply.Quantity.Equal(decimal.NewFromInt(params.TotalSize)) {
		return fmt.Errorf("supply quantity %s does not match auction size %d",
			supply.Quantity, params.TotalSize)
	}
	return nil
}
