// Package htlc implements the plain hash-time-locked commitment record
// spec.md's Non-goals permit: a record type and the hash/timeout checks
// around it, with no cross-chain settlement logic whatsoever.
package htlc

import (
	"crypto/rand"
	"fmt"

	"github.com/timechain-project/timechain-core/pkg/primitives"
)

// Secret is the preimage a counterparty reveals to redeem a Lock.
type Secret [32]byte

// GenerateSecret produces a fresh random secret.
func GenerateSecret() (Secret, error) {
	var s Secret
	if _, err := rand.Read(s[:]); err != nil {
		return Secret{}, fmt.Errorf("htlc: generating secret: %w", err)
	}
	return s, nil
}

// HashLock is the commitment a Lock publishes: SHA-256 of the secret.
func (s Secret) HashLock() primitives.Hash32 {
	return primitives.SumSHA256(s[:])
}

// Lock is a plain hash-time-locked commitment: funds are payable to
// whoever reveals the secret behind HashLock before TimeoutSlot.
// RecipientExternal names the counterparty chain's destination in
// whatever format that chain uses; this package does not interpret it.
type Lock struct {
	HashLock          primitives.Hash32
	TimeoutSlot       uint64
	Amount            uint64
	RecipientExternal string
}

// NewLock commits to secret without revealing it.
func NewLock(secret Secret, timeoutSlot, amount uint64, recipientExternal string) Lock {
	return Lock{
		HashLock:          secret.HashLock(),
		TimeoutSlot:       timeoutSlot,
		Amount:            amount,
		RecipientExternal: recipientExternal,
	}
}

// Redeem reports whether secret unlocks l.
func (l Lock) Redeem(secret Secret) bool {
	return secret.HashLock() == l.HashLock
}

// Expired reports whether l's timeout has passed as of currentSlot,
// after which only the original funder may reclaim the locked amount.
func (l Lock) Expired(currentSlot uint64) bool {
	return currentSlot >= l.TimeoutSlot
}
