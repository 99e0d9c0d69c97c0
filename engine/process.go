package main

import (
	"encoding/base64"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cloudx-io/bondclear/auctionapi"
	"github.com/cloudx-io/bondclear/core"
	"github.com/cloudx-io/bondclear/proof"
)

// ProcessClearing runs one complete clearing: boundary validation, ordering,
// the clearing pass, supply allocation, settlement construction, and proof
// signing. The core stays pure; everything stateful lives here.
func ProcessClearing(req auctionapi.ClearingRequest, signer *proof.Signer) auctionapi.ClearingResponse {
	startTime := time.Now()
	log.Printf("INFO: Processing clearing for auction %s with %d bids", req.AuctionID, len(req.Bids))

	fail := func(format string, args ...any) auctionapi.ClearingResponse {
		message := fmt.Sprintf(format, args...)
		log.Printf("ERROR: Clearing for auction %s rejected: %s", req.AuctionID, message)
		return auctionapi.ClearingResponse{
			Type:           "clearing_response",
			Success:        false,
			Message:        message,
			AuctionID:      req.AuctionID,
			ProcessingTime: time.Since(startTime).Milliseconds(),
		}
	}

	if err := core.ValidateParameters(req.Parameters, len(req.Bids)); err != nil {
		return fail("invalid parameters: %v", err)
	}
	if err := core.ValidateBids(req.Bids); err != nil {
		return fail("invalid bids: %v", err)
	}

	if req.SupplyQuantity.IsNegative() {
		return fail("invalid supply: negative quantity %s", req.SupplyQuantity)
	}

	var supply *core.FungibleSupply
	if req.SupplyQuantity.IsPositive() {
		supply = core.NewFungibleSupply(req.SupplyQuantity)
		if err := core.ValidateSupply(supply, req.Parameters); err != nil {
			return fail("invalid supply: %v", err)
		}
	} else if req.Parameters.TotalSize != 0 {
		return fail("invalid supply: quantity %s for auction size %d",
			req.SupplyQuantity, req.Parameters.TotalSize)
	}

	ordered := core.OrderBids(req.Bids)
	outcome := core.Clear(req.Parameters, ordered)

	allocations := []core.Allocation{}
	var remainder *core.FungibleSupply
	if supply != nil {
		allocations, remainder = core.Allocate(supply, outcome.Awarded)
	}

	settlement, err := auctionapi.BuildSettlement(outcome, allocations)
	if err != nil {
		return fail("build settlement: %v", err)
	}

	runID := uuid.NewString()
	requestHash := core.ComputeRequestHash(req.Parameters, ordered)
	outcomeHash := core.ComputeOutcomeHash(outcome)

	envelope, err := signer.SignOutcome(proof.OutcomePayload{
		RunID:       runID,
		AuctionID:   req.AuctionID,
		RequestHash: requestHash,
		OutcomeHash: outcomeHash,
		Timestamp:   time.Now().UTC(),
		Outcome:     outcome,
	})
	if err != nil {
		return fail("sign outcome: %v", err)
	}
	publicKey, err := signer.PublicKeyPEM()
	if err != nil {
		return fail("encode public key: %v", err)
	}

	resp := auctionapi.ClearingResponse{
		Type:           "clearing_response",
		Success:        true,
		AuctionID:      req.AuctionID,
		RunID:          runID,
		Outcome:        &outcome,
		Settlement:     settlement,
		Rejections:     auctionapi.BuildRejections(outcome),
		RequestHash:    requestHash,
		OutcomeHash:    outcomeHash,
		Proof:          base64.StdEncoding.EncodeToString(envelope),
		PublicKey:      publicKey,
		ProcessingTime: time.Since(startTime).Milliseconds(),
	}
	resp.Message = fmt.Sprintf("Cleared %d of %d bids, allocated %d of %d at %s",
		len(outcome.Awarded), len(req.Bids), outcome.Allocated,
		req.Parameters.TotalSize, outcome.ClearingPrice)

	if remainder != nil {
		resp.RemainderHandle = remainder.ID
		qty := remainder.Quantity
		resp.RemainderQuantity = &qty
	} else if supply == nil {
		// Zero-size auction: the (empty) supply is trivially returned intact.
		zero := decimal.Zero
		resp.RemainderQuantity = &zero
	}

	log.Printf("INFO: Clearing complete for auction %s: run=%s, allocated=%d, clearing_price=%s, processing=%dms",
		req.AuctionID, runID, outcome.Allocated, outcome.ClearingPrice, resp.ProcessingTime)

	return resp
}
