package validation

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"

	"github.com/cloudx-io/bondclear/auctionapi"
	"github.com/cloudx-io/bondclear/core"
	"github.com/cloudx-io/bondclear/proof"
)

var auditEpoch = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// recordedRun assembles a request/response pair the way the engine does,
// so the auditor can be tested without the engine binary.
func recordedRun(t *testing.T) (auctionapi.ClearingRequest, auctionapi.ClearingResponse) {
	t.Helper()

	req := auctionapi.ClearingRequest{
		Type:      "clearing_request",
		AuctionID: "bond-2026-03",
		Parameters: core.AuctionParameters{
			TotalSize:  100,
			FloorPrice: decimal.RequireFromString("10"),
		},
		Bids: []core.Bid{
			{ID: "bid1", Price: decimal.RequireFromString("12"), Quantity: 60, SubmittedAt: auditEpoch},
			{ID: "bid2", Price: decimal.RequireFromString("11"), Quantity: 50, SubmittedAt: auditEpoch.Add(time.Second)},
		},
		SupplyQuantity: decimal.NewFromInt(100),
		Timestamp:      auditEpoch.Add(time.Minute),
	}

	ordered := core.OrderBids(req.Bids)
	outcome := core.Clear(req.Parameters, ordered)
	allocations, remainder := core.Allocate(core.NewFungibleSupply(req.SupplyQuantity), outcome.Awarded)
	settlement, err := auctionapi.BuildSettlement(outcome, allocations)
	check.Nil(t, err)

	signer, err := proof.NewSigner()
	check.Nil(t, err)

	envelope, err := signer.SignOutcome(proof.OutcomePayload{
		RunID:       "run-1",
		AuctionID:   req.AuctionID,
		RequestHash: core.ComputeRequestHash(req.Parameters, ordered),
		OutcomeHash: core.ComputeOutcomeHash(outcome),
		Timestamp:   auditEpoch.Add(time.Minute),
		Outcome:     outcome,
	})
	check.Nil(t, err)

	publicKey, err := signer.PublicKeyPEM()
	check.Nil(t, err)

	resp := auctionapi.ClearingResponse{
		Type:        "clearing_response",
		Success:     true,
		AuctionID:   req.AuctionID,
		RunID:       "run-1",
		Outcome:     &outcome,
		Settlement:  settlement,
		Rejections:  auctionapi.BuildRejections(outcome),
		RequestHash: core.ComputeRequestHash(req.Parameters, ordered),
		OutcomeHash: core.ComputeOutcomeHash(outcome),
		Proof:       base64.StdEncoding.EncodeToString(envelope),
		PublicKey:   publicKey,
	}
	if remainder != nil {
		resp.RemainderHandle = remainder.ID
		qty := remainder.Quantity
		resp.RemainderQuantity = &qty
	}
	return req, resp
}

func TestValidateClearingResponse_Valid(t *testing.T) {
	req, resp := recordedRun(t)

	result, err := ValidateClearingResponse(req, resp)
	check.Nil(t, err)
	check.True(t, result.IsValid())
	check.True(t, result.SignatureValid)
	check.True(t, result.RequestHashValid)
	check.True(t, result.OutcomeHashValid)
	check.True(t, result.ReplayValid)
	check.True(t, result.ConservationValid)
	check.True(t, result.SettlementValid)
}

func TestValidateClearingResponse_WrongKey(t *testing.T) {
	req, resp := recordedRun(t)

	other, err := proof.NewSigner()
	check.Nil(t, err)
	otherPEM, err := other.PublicKeyPEM()
	check.Nil(t, err)
	resp.PublicKey = otherPEM

	result, err := ValidateClearingResponse(req, resp)
	check.Nil(t, err)
	check.False(t, result.SignatureValid)
	check.False(t, result.IsValid())
}

func TestValidateClearingResponse_ConservationBreak(t *testing.T) {
	req, resp := recordedRun(t)
	skimmed := resp.Settlement[1].Quantity.Sub(decimal.NewFromInt(1))
	resp.Settlement[1].Quantity = skimmed

	result, err := ValidateClearingResponse(req, resp)
	check.Nil(t, err)
	check.False(t, result.ConservationValid)
	check.False(t, result.IsValid())
}

func TestValidateClearingResponse_NonUniformPayment(t *testing.T) {
	req, resp := recordedRun(t)
	resp.Settlement[0].Payment = resp.Settlement[0].Payment.Add(decimal.NewFromInt(1))

	result, err := ValidateClearingResponse(req, resp)
	check.Nil(t, err)
	check.False(t, result.SettlementValid)
	check.False(t, result.IsValid())
}

func TestValidateClearingResponse_TamperedBidSet(t *testing.T) {
	req, resp := recordedRun(t)
	req.Bids[0].Quantity = 61

	result, err := ValidateClearingResponse(req, resp)
	check.Nil(t, err)
	check.True(t, result.SignatureValid)
	check.False(t, result.RequestHashValid)
	check.False(t, result.ReplayValid)
	check.False(t, result.IsValid())
}

func TestValidateClearingResponse_MissingProof(t *testing.T) {
	req, resp := recordedRun(t)
	resp.Proof = ""

	_, err := ValidateClearingResponse(req, resp)
	check.NotNil(t, err)
}
