// Package validation is the auditor side of the clearing engine: it checks a
// recorded clearing response against the request it claims to answer, without
// trusting the engine. The clearing algorithm is deterministic, so the
// strongest check is a full replay.
package validation

import "fmt"

// ClearingValidationResult contains the outcome of every audit check. Call
// IsValid to get the overall verdict; ValidationDetails carries a human
// readable trail for each check.
type ClearingValidationResult struct {
	SignatureValid    bool `json:"signature_valid"`
	RequestHashValid  bool `json:"request_hash_valid"`
	OutcomeHashValid  bool `json:"outcome_hash_valid"`
	ReplayValid       bool `json:"replay_valid"`
	ConservationValid bool `json:"conservation_valid"`
	SettlementValid   bool `json:"settlement_valid"`

	ValidationDetails []string `json:"validation_details"`
}

// IsValid returns true only when every individual check passed.
func (r *ClearingValidationResult) IsValid() bool {
	return r.SignatureValid &&
		r.RequestHashValid &&
		r.OutcomeHashValid &&
		r.ReplayValid &&
		r.ConservationValid &&
		r.SettlementValid
}

func (r *ClearingValidationResult) detail(format string, args ...any) {
	r.ValidationDetails = append(r.ValidationDetails, fmt.Sprintf(format, args...))
}
