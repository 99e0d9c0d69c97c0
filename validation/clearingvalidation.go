package validation

import (
	"encoding/base64"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cloudx-io/bondclear/auctionapi"
	"github.com/cloudx-io/bondclear/core"
	"github.com/cloudx-io/bondclear/proof"
)

// ValidateClearingResponse audits a recorded clearing response against the
// request it answered:
//   - COSE signature over the outcome payload verifies with the response's key
//   - the signed request hash matches the recorded request
//   - the signed outcome hash matches the embedded outcome
//   - replaying the clearing over the recorded bids reproduces the outcome
//   - conservation: settlement quantities plus remainder equal the supply
//   - every settlement payment equals clearingPrice * quantity
//
// Returns an error only when validation cannot be performed at all (missing
// proof, malformed key); individual check failures are reported in the
// result.
func ValidateClearingResponse(req auctionapi.ClearingRequest, resp auctionapi.ClearingResponse) (*ClearingValidationResult, error) {
	if resp.Proof == "" {
		return nil, fmt.Errorf("response carries no proof")
	}
	if resp.Outcome == nil {
		return nil, fmt.Errorf("response carries no outcome")
	}

	pub, err := proof.ParsePublicKeyPEM(resp.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("parse response public key: %w", err)
	}

	envelope, err := base64.StdEncoding.DecodeString(resp.Proof)
	if err != nil {
		return nil, fmt.Errorf("decode proof: %w", err)
	}

	result := &ClearingValidationResult{}

	payload, err := proof.VerifyOutcome(envelope, pub)
	if err != nil {
		result.detail("Signature verification failed: %v", err)
		return result, nil
	}
	result.SignatureValid = true
	result.detail("COSE signature valid for run %s", payload.RunID)

	validateRequestHash(req, payload, result)
	validateOutcomeHash(payload, result)
	validateReplay(req, payload, result)
	validateConservation(req, resp, result)
	validateSettlement(resp, result)

	return result, nil
}

func validateRequestHash(req auctionapi.ClearingRequest, payload *proof.OutcomePayload, result *ClearingValidationResult) {
	computed := core.ComputeRequestHash(req.Parameters, core.OrderBids(req.Bids))
	if computed == payload.RequestHash {
		result.RequestHashValid = true
		result.detail("Request hash matches: %s", computed)
		return
	}
	result.detail("Request hash mismatch: computed %s, signed %s", computed, payload.RequestHash)
}

func validateOutcomeHash(payload *proof.OutcomePayload, result *ClearingValidationResult) {
	computed := core.ComputeOutcomeHash(payload.Outcome)
	if computed == payload.OutcomeHash {
		result.OutcomeHashValid = true
		result.detail("Outcome hash matches: %s", computed)
		return
	}
	result.detail("Outcome hash mismatch: computed %s, signed %s", computed, payload.OutcomeHash)
}

func validateReplay(req auctionapi.ClearingRequest, payload *proof.OutcomePayload, result *ClearingValidationResult) {
	replayed := core.Clear(req.Parameters, core.OrderBids(req.Bids))
	replayedHash := core.ComputeOutcomeHash(replayed)
	if replayedHash == payload.OutcomeHash {
		result.ReplayValid = true
		result.detail("Replay reproduced the signed outcome (allocated %d at %s)",
			replayed.Allocated, replayed.ClearingPrice)
		return
	}
	result.detail("Replay diverged: replayed hash %s, signed %s", replayedHash, payload.OutcomeHash)
}

func validateConservation(req auctionapi.ClearingRequest, resp auctionapi.ClearingResponse, result *ClearingValidationResult) {
	total := decimal.Zero
	for _, entry := range resp.Settlement {
		total = total.Add(entry.Quantity)
	}
	if resp.RemainderQuantity != nil {
		total = total.Add(*resp.RemainderQuantity)
	}

	if total.Equal(req.SupplyQuantity) {
		result.ConservationValid = true
		result.detail("Conservation holds: allocations + remainder == %s", req.SupplyQuantity)
		return
	}
	result.detail("Conservation broken: allocations + remainder == %s, supply was %s",
		total, req.SupplyQuantity)
}

func validateSettlement(resp auctionapi.ClearingResponse, result *ClearingValidationResult) {
	price := resp.Outcome.ClearingPrice
	for _, entry := range resp.Settlement {
		if !entry.ClearingPrice.Equal(price) {
			result.detail("Settlement entry %s carries price %s, outcome cleared at %s",
				entry.BidID, entry.ClearingPrice, price)
			return
		}
		expected := price.Mul(entry.Quantity)
		if !entry.Payment.Equal(expected) {
			result.detail("Settlement entry %s payment %s, expected %s",
				entry.BidID, entry.Payment, expected)
			return
		}
	}
	if len(resp.Settlement) != len(resp.Outcome.Awarded) {
		result.detail("Settlement has %d entries, outcome awarded %d bids",
			len(resp.Settlement), len(resp.Outcome.Awarded))
		return
	}

	result.SettlementValid = true
	result.detail("All %d settlement payments priced uniformly at %s", len(resp.Settlement), price)
}
