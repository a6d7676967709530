// Package zkadmission is the opaque zero-knowledge admission boundary.
// The consensus core never inspects proof internals; it only calls the
// two verification contracts below and acts on their boolean result.
// The commitment this package computes internally stands in for the
// real (out-of-scope) admission circuit.
package zkadmission

import (
	"bytes"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/mimc"
	"github.com/ethereum/go-ethereum/log"
	"github.com/timechain-project/timechain-core/pkg/primitives"
)

// ProofLen is the fixed byte length of every admission or transaction
// authorization proof produced and accepted by this oracle.
const ProofLen = 32

// Oracle wraps the pure verification contracts with a cache of recent
// results, avoiding repeated MiMC commitments for proofs the core has
// already seen (e.g. a transaction re-validated across several mempool
// passes). It carries no key material; nothing here is process-global.
type Oracle struct {
	cache *fastcache.Cache
}

// NewOracle builds an admission oracle with an in-memory result cache
// sized in bytes. Pass 0 to disable caching entirely.
func NewOracle(cacheSizeBytes int) *Oracle {
	var cache *fastcache.Cache
	if cacheSizeBytes > 0 {
		cache = fastcache.New(cacheSizeBytes)
	}
	return &Oracle{cache: cache}
}

// commit runs MiMC over parts, reducing each part into the BLS12-381
// scalar field first so that every part reaches the hash as one
// canonical 32-byte element.
func commit(parts ...[]byte) []byte {
	h := mimc.NewMiMC()
	for _, p := range parts {
		var e fr.Element
		b := e.SetBytes(p).Bytes()
		h.Write(b[:])
	}
	return h.Sum(nil)
}

// DeriveMinerAddress computes the public address a miner secret
// commits to. It is the toy analogue of a public-key derivation, kept
// here rather than in pkg/primitives because only the admission oracle
// needs a secret-to-address mapping.
func DeriveMinerAddress(minerSecret []byte) primitives.Address {
	digest := commit(minerSecret)
	var addr primitives.Address
	copy(addr[:], digest)
	return addr
}

// GenerateAdmissionProof produces the evidence a miner attaches to a
// candidate block. It is used outside the core's acceptance path (by
// the mining loop); documented here for completeness per the external
// contract.
func GenerateAdmissionProof(minerSecret []byte, parentHash primitives.Hash32) []byte {
	addr := DeriveMinerAddress(minerSecret)
	return commit(addr[:], parentHash[:])
}

// VerifyAdmissionProof is the pure boolean contract the consensus core
// calls during block acceptance. False for the zero address, false for
// any length mismatch, deterministic otherwise.
func (o *Oracle) VerifyAdmissionProof(miner primitives.Address, parentHash primitives.Hash32, proof []byte) bool {
	if miner.IsZero() || len(proof) != ProofLen {
		return false
	}
	key := cacheKey("adm", miner[:], parentHash[:], proof)
	if result, hit := o.lookup(key); hit {
		return result
	}
	expected := commit(miner[:], parentHash[:])
	result := bytes.Equal(expected, proof)
	o.store(key, result)
	log.Debug("zk admission check", "miner", miner.Hex(), "result", result)
	return result
}

// VerifyTransactionProof is the transaction-authorization analogue,
// called from the State engine's apply_tx precondition chain.
func (o *Oracle) VerifyTransactionProof(proof []byte, from primitives.Address, amount, fee uint64) bool {
	if from.IsZero() || len(proof) != ProofLen {
		return false
	}
	key := cacheKey("tx", from[:], primitives.LE64(amount), primitives.LE64(fee), proof)
	if result, hit := o.lookup(key); hit {
		return result
	}
	expected := commit(from[:], primitives.LE64(amount), primitives.LE64(fee))
	result := bytes.Equal(expected, proof)
	o.store(key, result)
	return result
}

func cacheKey(kind string, parts ...[]byte) []byte {
	h := commit(append([][]byte{[]byte(kind)}, parts...)...)
	return h
}

func (o *Oracle) lookup(key []byte) (bool, bool) {
	if o.cache == nil {
		return false, false
	}
	val, ok := o.cache.HasGet(nil, key)
	if !ok {
		return false, false
	}
	return len(val) == 1 && val[0] == 1, true
}

func (o *Oracle) store(key []byte, result bool) {
	if o.cache == nil {
		return
	}
	v := byte(0)
	if result {
		v = 1
	}
	o.cache.Set(key, []byte{v})
}
