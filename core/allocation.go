package core

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FungibleSupply is one divisible balance of the offered asset. It is a
// linear resource: a split invalidates its input handle and produces fresh
// handles, so at most one live "current" handle exists during an allocation
// run. Reusing an invalidated handle is a bug and panics.
type FungibleSupply struct {
	ID       string          `json:"id"`
	Quantity decimal.Decimal `json:"quantity"`

	consumed bool
}

// NewFungibleSupply mints the initial offered balance.
func NewFungibleSupply(quantity decimal.Decimal) *FungibleSupply {
	if quantity.LessThanOrEqual(decimal.Zero) {
		panic(fmt.Sprintf("core: non-positive supply quantity %s", quantity))
	}
	return &FungibleSupply{ID: uuid.NewString(), Quantity: quantity}
}

// Split divides the balance into a fragment of the requested quantity and a
// remainder carrying the rest. The receiving handle is invalidated; both
// returned handles are new. Panics if the handle was already consumed or if
// the requested quantity does not leave a positive remainder (an exact match
// must hand over the whole handle instead, see Allocate).
func (s *FungibleSupply) Split(qty decimal.Decimal) (fragment, remainder *FungibleSupply) {
	if s.consumed {
		panic(fmt.Sprintf("core: supply handle %s already consumed", s.ID))
	}
	if qty.LessThanOrEqual(decimal.Zero) || qty.GreaterThanOrEqual(s.Quantity) {
		panic(fmt.Sprintf("core: cannot split %s from supply handle %s of %s", qty, s.ID, s.Quantity))
	}

	s.consumed = true
	fragment = &FungibleSupply{ID: uuid.NewString(), Quantity: qty}
	remainder = &FungibleSupply{ID: uuid.NewString(), Quantity: s.Quantity.Sub(qty)}
	return fragment, remainder
}

// Allocation is one winner's exact share of the offered supply, consumed by
// the external settlement builder.
type Allocation struct {
	BidID         string          `json:"bid_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	BalanceHandle string          `json:"balance_handle"`
}

// Allocate partitions the supply into one exact sub-balance per awarded bid,
// in award order, and returns whatever supply remains (nil when the last
// split consumed it exactly). An empty awarded list returns the full supply
// intact.
//
// Conservation invariant: the allocated quantities plus the remainder always
// sum to the original supply quantity, exactly. Comparisons use decimal
// equality, so an exact match never leaves a spurious zero-quantity fragment.
//
// Awarded demand exceeding the supply is a fatal precondition violation
// (Clear guarantees allocated <= total size, and the supply must equal the
// advertised size); Allocate panics rather than silently truncating.
func Allocate(supply *FungibleSupply, awarded []AwardedBid) ([]Allocation, *FungibleSupply) {
	if supply == nil {
		panic("core: Allocate called with nil supply")
	}
	if len(awarded) == 0 {
		return []Allocation{}, supply
	}

	demand := decimal.Zero
	for _, aw := range awarded {
		demand = demand.Add(decimal.NewFromInt(aw.Quantity))
	}
	if demand.GreaterThan(supply.Quantity) {
		panic(fmt.Sprintf("core: awarded demand %s exceeds supply %s (handle %s)",
			demand, supply.Quantity, supply.ID))
	}

	allocations := make([]Allocation, 0, len(awarded))
	current := supply
	for _, aw := range awarded {
		qty := decimal.NewFromInt(aw.Quantity)

		if current.Quantity.Equal(qty) {
			// The whole current handle becomes this bid's allocation.
			current.consumed = true
			allocations = append(allocations, Allocation{
				BidID:         aw.Bid.ID,
				Quantity:      qty,
				BalanceHandle: current.ID,
			})
			current = nil
			break
		}

		fragment, remainder := current.Split(qty)
		allocations = append(allocations, Allocation{
			BidID:         aw.Bid.ID,
			Quantity:      fragment.Quantity,
			BalanceHandle: fragment.ID,
		})
		current = remainder
	}

	if len(allocations) != len(awarded) {
		// Only reachable if an exact match occurred before the last awarded
		// entry, which the demand check above rules out.
		panic(fmt.Sprintf("core: supply exhausted after %d of %d allocations",
			len(allocations), len(awarded)))
	}

	return allocations, current
}
