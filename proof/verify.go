package proof

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/veraison/go-cose"
)

// VerifyOutcome checks the COSE_Sign1 envelope against the given public key
// and returns the embedded payload. The signature is checked before the
// payload is decoded.
func VerifyOutcome(envelope []byte, pub *ecdsa.PublicKey) (*OutcomePayload, error) {
	var msg cose.Sign1Message
	if err := msg.UnmarshalCBOR(envelope); err != nil {
		return nil, fmt.Errorf("parse COSE envelope: %w", err)
	}

	verifier, err := cose.NewVerifier(cose.AlgorithmES384, pub)
	if err != nil {
		return nil, fmt.Errorf("create verifier: %w", err)
	}
	if err := msg.Verify(nil, verifier); err != nil {
		return nil, fmt.Errorf("COSE signature verification failed: %w", err)
	}

	var payload OutcomePayload
	if err := cbor.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return &payload, nil
}

// ExtractPayload decodes the payload of an envelope without verifying the
// signature. Useful for inspecting a proof before the verification key is
// known; never trust the result on its own.
func ExtractPayload(envelope []byte) (*OutcomePayload, error) {
	var msg cose.Sign1Message
	if err := msg.UnmarshalCBOR(envelope); err != nil {
		return nil, fmt.Errorf("parse COSE envelope: %w", err)
	}

	var payload OutcomePayload
	if err := cbor.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return &payload, nil
}
