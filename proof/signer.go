// Package proof produces and verifies signed clearing-outcome envelopes.
// The payload is canonical CBOR wrapped in a COSE_Sign1 (ES384) signature,
// so any holder of the engine's public key can audit an outcome offline.
package proof

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/veraison/go-cose"

	"github.com/cloudx-io/bondclear/core"
)

// OutcomePayload is the signed audit record for one clearing run. The hashes
// bind the proof to the exact inputs and result; the outcome itself is
// embedded so an auditor can replay without a separate record.
type OutcomePayload struct {
	RunID       string               `cbor:"run_id" json:"run_id"`
	AuctionID   string               `cbor:"auction_id" json:"auction_id"`
	RequestHash string               `cbor:"request_hash" json:"request_hash"`
	OutcomeHash string               `cbor:"outcome_hash" json:"outcome_hash"`
	Timestamp   time.Time            `cbor:"timestamp" json:"timestamp"`
	Outcome     core.ClearingOutcome `cbor:"outcome" json:"outcome"`
}

// Signer holds the engine's signing key for the lifetime of the process.
// The key is ephemeral: it is generated at startup and never persisted, so
// the public key must be distributed alongside each response.
type Signer struct {
	key *ecdsa.PrivateKey
}

// NewSigner generates a fresh ECDSA P-384 signing key.
func NewSigner() (*Signer, error) {
	key, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	return &Signer{key: key}, nil
}

// Public returns the verification key.
func (s *Signer) Public() *ecdsa.PublicKey {
	return &s.key.PublicKey
}

// PublicKeyPEM returns the verification key as a PEM-encoded PKIX block.
func (s *Signer) PublicKeyPEM() (string, error) {
	der, err := x509.MarshalPKIXPublicKey(&s.key.PublicKey)
	if err != nil {
		return "", fmt.Errorf("marshal public key: %w", err)
	}
	block := &pem.Block{Type: "PUBLIC KEY", Bytes: der}
	return string(pem.EncodeToMemory(block)), nil
}

// SignOutcome encodes the payload as canonical CBOR and wraps it in a
// COSE_Sign1 envelope signed with ES384.
func (s *Signer) SignOutcome(payload OutcomePayload) ([]byte, error) {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("create canonical encoder: %w", err)
	}
	payloadBytes, err := em.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	coseSigner, err := cose.NewSigner(cose.AlgorithmES384, s.key)
	if err != nil {
		return nil, fmt.Errorf("create COSE signer: %w", err)
	}

	msg := cose.NewSign1Message()
	msg.Headers.Protected.SetAlgorithm(cose.AlgorithmES384)
	msg.Payload = payloadBytes

	if err := msg.Sign(rand.Reader, nil, coseSigner); err != nil {
		return nil, fmt.Errorf("sign payload: %w", err)
	}

	envelope, err := msg.MarshalCBOR()
	if err != nil {
		return nil, fmt.Errorf("marshal COSE envelope: %w", err)
	}
	return envelope, nil
}

// ParsePublicKeyPEM parses a PEM-encoded PKIX ECDSA public key as produced
// by PublicKeyPEM.
func ParsePublicKeyPEM(pemStr string) (*ecdsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemStr))
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	ecdsaKey, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key is not ECDSA")
	}
	return ecdsaKey, nil
}
