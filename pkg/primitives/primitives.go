// Package primitives defines the fixed-width identifiers and saturating
// arithmetic shared by every layer of the consensus core: addresses,
// 32-byte hashes, and the hex formatting used in logs and CLI output.
package primitives

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// HashSize is the width of every content hash in the system: block
// hashes, transaction fingerprints, and VDF seeds.
const HashSize = 32

// AddressSize is the width of a participant address, sized to hold an
// Ed25519 public key directly with no hashing or truncation step.
const AddressSize = 32

// Hash32 is a SHA-256 digest.
type Hash32 [HashSize]byte

// Address identifies a signing key. Equality and ordering are byte-wise.
type Address [AddressSize]byte

// ZeroAddress is the sentinel miner/participant identity that the ZK
// admission oracle always rejects.
var ZeroAddress Address

// IsZero reports whether a is the all-zero address.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// Hex renders the address as a 0x-prefixed hex string.
func (a Address) Hex() string {
	return hexutil.Encode(a[:])
}

// Hex renders the hash as a 0x-prefixed hex string.
func (h Hash32) Hex() string {
	return hexutil.Encode(h[:])
}

// IsZero reports whether h is the all-zero hash.
func (h Hash32) IsZero() bool {
	return h == Hash32{}
}

// SumSHA256 hashes the concatenation of parts into a Hash32.
func SumSHA256(parts ...[]byte) Hash32 {
	hasher := sha256.New()
	for _, p := range parts {
		hasher.Write(p)
	}
	var out Hash32
	copy(out[:], hasher.Sum(nil))
	return out
}

// LE64 encodes v as 8 little-endian bytes, the integer layout used by the
// canonical encoding throughout the data model.
func LE64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, v)
	return buf
}

// SatAdd64 adds a and b, clamping at the uint64 maximum instead of
// wrapping. Used for balance credits and reward accumulation (I4, I6).
func SatAdd64(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return ^uint64(0)
	}
	return sum
}

// SatSub64 subtracts b from a, clamping at zero instead of wrapping.
func SatSub64(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
