// Package txn defines the transaction data model: canonical encoding,
// fingerprinting, and the signature verification contract described in
// spec section 4.4.
package txn

import (
	"crypto/ed25519"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/timechain-project/timechain-core/pkg/primitives"
)

// Transaction moves value from one address to another. ZKProof
// authorizes the transfer through the opaque admission oracle;
// Signature authenticates every other field.
type Transaction struct {
	From      primitives.Address
	To        primitives.Address
	Amount    uint64
	Fee       uint64
	Nonce     uint64
	ZKProof   []byte
	Signature []byte
}

// signingPayload mirrors Transaction but always carries an empty
// Signature, so RLP-encoding it produces the canonical bytes a sender
// signs and a verifier recomputes.
type signingPayload struct {
	From    primitives.Address
	To      primitives.Address
	Amount  uint64
	Fee     uint64
	Nonce   uint64
	ZKProof []byte
}

// SigningPayload returns the canonical encoding over every field
// except the signature itself.
func (t Transaction) SigningPayload() ([]byte, error) {
	return rlp.EncodeToBytes(&signingPayload{
		From:    t.From,
		To:      t.To,
		Amount:  t.Amount,
		Fee:     t.Fee,
		Nonce:   t.Nonce,
		ZKProof: t.ZKProof,
	})
}

// CanonicalEncode returns the fixed byte layout over every field,
// signature included. This is what persistence and fingerprinting use.
func (t Transaction) CanonicalEncode() ([]byte, error) {
	return rlp.EncodeToBytes(&t)
}

// Fingerprint is SHA-256 over the full canonical encoding, the unique
// identity used for the chain-wide replay guard (I5).
func (t Transaction) Fingerprint() (primitives.Hash32, error) {
	enc, err := t.CanonicalEncode()
	if err != nil {
		return primitives.Hash32{}, err
	}
	return primitives.SumSHA256(enc), nil
}

// VerifySignature checks the transaction's signature against its
// signing payload. From is treated directly as an Ed25519 public key,
// which is the reason addresses in this system are exactly 32 bytes.
func (t Transaction) VerifySignature() bool {
	if len(t.Signature) != ed25519.SignatureSize {
		return false
	}
	payload, err := t.SigningPayload()
	if err != nil {
		return false
	}
	pub := ed25519.PublicKey(append([]byte(nil), t.From[:]...))
	return ed25519.Verify(pub, payload, t.Signature)
}

// Sign fills in t.Signature over the current field values, returning
// the signed transaction. Used by wallets and tests; not part of the
// core's validation path.
func Sign(t Transaction, priv ed25519.PrivateKey) (Transaction, error) {
	payload, err := t.SigningPayload()
	if err != nil {
		return Transaction{}, err
	}
	t.Signature = ed25519.Sign(priv, payload)
	return t, nil
}

// IsSelfTransfer reports whether the transaction moves funds to its
// own sender, a permitted no-op that still debits the fee (spec 3).
func (t Transaction) IsSelfTransfer() bool {
	return t.From == t.To
}
