package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bid represents a single sealed bid for the offered bond tranche.
// Bids are immutable once submitted; the clearing run only reclassifies them.
type Bid struct {
	// ID is an opaque reference to the bid's origin (submission record,
	// contract id, or similar). Ownership and authorization stay external.
	ID          string          `json:"id"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

// AuctionParameters are fixed at auction start and immutable for the
// duration of a single clearing run.
type AuctionParameters struct {
	TotalSize  int64           `json:"total_size"`
	FloorPrice decimal.Decimal `json:"floor_price"`
}

// Reject reasons carried in ClearingOutcome.Rejected. Both terminate a bid's
// eligibility; they are distinguished for observability.
const (
	RejectBelowFloor    = "below_floor"
	RejectSizeExhausted = "size_exhausted"
)

// AwardedBid is a bid that won, fully or partially. Quantity is the awarded
// quantity, never more than the bid's original quantity. The bid's original
// price is preserved for clearing-price determination.
type AwardedBid struct {
	Bid      Bid   `json:"bid"`
	Quantity int64 `json:"awarded_quantity"`
}

// RejectedBid is a bid that won nothing, with the reason it was turned away.
type RejectedBid struct {
	Bid    Bid    `json:"bid"`
	Reason string `json:"reason"`
}

// ClearingOutcome contains the complete result of one clearing run.
//
// Invariants: Allocated == sum of awarded quantities <= TotalSize; Awarded
// preserves the input ordering; Rejected preserves encounter order. The same
// parameters and bid set always produce a bit-identical outcome.
type ClearingOutcome struct {
	// ClearingPrice is the single price applied to every winner: the price
	// of the last bid that received a non-zero award. Zero if nothing won.
	ClearingPrice decimal.Decimal `json:"clearing_price"`

	Allocated int64         `json:"allocated_quantity"`
	Awarded   []AwardedBid  `json:"awarded"`
	Rejected  []RejectedBid `json:"rejected"`
}
