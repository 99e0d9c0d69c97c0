package core

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// ComputeOutcomeHash computes a canonical hash of a clearing outcome.
// Auditors compare hashes to confirm that replaying a clearing run over the
// same inputs reproduced the same result, bit for bit.
//
// Formula: SHA256(clearing_price(6dp) + "|" + allocated +
// "|a:" + len(bid_id) + ":" + bid_id + ":" + awarded_qty + ":" + price(6dp)
// per awarded entry +
// "|r:" + len(bid_id) + ":" + bid_id + ":" + reason per rejected entry)
//
// Prices are formatted to exactly 6 decimal places so the hash is stable
// regardless of in-memory decimal representation. Bid IDs are opaque and may
// contain the delimiter characters, so they are length-prefixed to keep the
// encoding unambiguous.
func ComputeOutcomeHash(outcome ClearingOutcome) string {
	data := fmt.Sprintf("%s|%d", outcome.ClearingPrice.StringFixed(6), outcome.Allocated)
	for _, aw := range outcome.Awarded {
		data += fmt.Sprintf("|a:%d:%s:%d:%s", len(aw.Bid.ID), aw.Bid.ID, aw.Quantity, aw.Bid.Price.StringFixed(6))
	}
	for _, rj := range outcome.Rejected {
		data += fmt.Sprintf("|r:%d:%s:%s", len(rj.Bid.ID), rj.Bid.ID, rj.Reason)
	}
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// ComputeRequestHash computes a canonical hash binding an outcome proof to
// the parameters and bid set it was cleared from.
//
// Formula: SHA256(total_size + "|" + floor_price(6dp) +
// "|" + len(bid_id) + ":" + bid_id + ":" + price(6dp) + ":" + qty + ":" +
// submitted_at(RFC3339Nano) per bid, in the order given — callers hash the
// ordered sequence so the binding is independent of submission arrival order)
//
// Bid IDs are length-prefixed for the same reason as in ComputeOutcomeHash.
func ComputeRequestHash(params AuctionParameters, bids []Bid) string {
	data := fmt.Sprintf("%d|%s", params.TotalSize, params.FloorPrice.StringFixed(6))
	for _, bid := range bids {
		data += fmt.Sprintf("|%d:%s:%s:%d:%s",
			len(bid.ID), bid.ID, bid.Price.StringFixed(6), bid.Quantity, bid.SubmittedAt.UTC().Format(time.RFC3339Nano))
	}
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
