// Package auctionapi defines the wire types the clearing engine speaks and
// the input contract handed to the external settlement builder. The core
// stays independent of any wire format; everything here is plain data around
// it.
package auctionapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cloudx-io/bondclear/core"
)

// ClearingRequest asks the engine to run one clearing over a collected bid
// set. The supply quantity must equal the advertised auction size; bid
// collection and the decision that the submission window is closed are the
// caller's concern.
type ClearingRequest struct {
	Type           string                 `json:"type"`
	AuctionID      string                 `json:"auction_id"`
	Parameters     core.AuctionParameters `json:"parameters"`
	Bids           []core.Bid             `json:"bids"`
	SupplyQuantity decimal.Decimal        `json:"supply_quantity"`
	Timestamp      time.Time              `json:"timestamp"`
}

// ClearingResponse is the engine's reply: the full outcome plus the
// settlement-builder inputs derived from it, and a COSE_Sign1 proof over the
// outcome for offline audit.
type ClearingResponse struct {
	Type      string `json:"type"`
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	AuctionID string `json:"auction_id,omitempty"`

	// RunID identifies this clearing run in the proof payload.
	RunID string `json:"run_id,omitempty"`

	Outcome    *core.ClearingOutcome `json:"outcome,omitempty"`
	Settlement []SettlementEntry     `json:"settlement,omitempty"`
	Rejections []RejectionNotice     `json:"rejections,omitempty"`

	RemainderHandle   string           `json:"remainder_handle,omitempty"`
	RemainderQuantity *decimal.Decimal `json:"remainder_quantity,omitempty"`

	RequestHash string `json:"request_hash,omitempty"`
	OutcomeHash string `json:"outcome_hash,omitempty"`

	// Proof is the base64-encoded COSE_Sign1 envelope over the canonical
	// CBOR outcome payload; PublicKey is the PEM-encoded verification key.
	// Anchoring trust in that key is the caller's concern.
	Proof     string `json:"proof,omitempty"`
	PublicKey string `json:"public_key,omitempty"`

	ProcessingTime int64 `json:"processing_time_ms"`
}
