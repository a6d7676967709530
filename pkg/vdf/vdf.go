// Package vdf implements the Wesolowski verifiable delay function: a
// sequential modular-exponentiation puzzle in an RSA group together with
// a Fiat-Shamir proof that lets any node verify the delay was actually
// paid without redoing the work.
//
// This is the normative replacement for the placeholder
// wesolowski_prove/wesolowski_verify pair found in the source material,
// which returned the evaluation result as its own "proof" — not
// reproduced here; see DESIGN.md.
package vdf

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/log"
	"github.com/timechain-project/timechain-core/pkg/primitives"
)

// MinProductionBits is the smallest RSA modulus size accepted outside
// test builds; Setup enforces this when production is true.
const MinProductionBits = 2048

// MillerRabinRounds is the number of Miller-Rabin rounds used to accept
// a candidate prime during modulus generation.
const MillerRabinRounds = 40

// ErrModulusTooSmall is fatal: a production VDF setup was asked to use a
// modulus narrower than MinProductionBits.
var ErrModulusTooSmall = errors.New("vdf: modulus too small for production")

// defaultGenerator is the small public base used for every VDF
// evaluation in this chain; any fixed public element works.
var defaultGenerator = big.NewInt(2)

// smallPrimeFallback is substituted for the Fiat-Shamir challenge when
// the hash-derived value collapses below 2 (vanishingly unlikely, but
// the contract requires a defined behavior).
var smallPrimeFallback = big.NewInt(5)

// Params is the public RSA-group parameterization of a VDF instance. N
// is safe to publish; the factorization (p, q) is discarded after
// Setup returns.
type Params struct {
	N    *big.Int
	G    *big.Int
	Bits int
}

// Setup generates a fresh RSA modulus N = p*q from two independently
// sampled probable primes of bits/2 bits each. production gates the
// 2048-bit floor; test code may pass production=false with a small
// bits value for fast unit tests.
func Setup(bits int, production bool) (*Params, error) {
	if production && bits < MinProductionBits {
		return nil, fmt.Errorf("%w: %d bits, need at least %d", ErrModulusTooSmall, bits, MinProductionBits)
	}
	p, err := randProbablePrime(bits / 2)
	if err != nil {
		return nil, fmt.Errorf("vdf: sampling p: %w", err)
	}
	var q *big.Int
	for {
		q, err = randProbablePrime(bits / 2)
		if err != nil {
			return nil, fmt.Errorf("vdf: sampling q: %w", err)
		}
		if q.Cmp(p) != 0 {
			break
		}
	}
	n := new(big.Int).Mul(p, q)
	log.Debug("vdf setup complete", "bits", bits, "production", production)
	return &Params{N: n, G: new(big.Int).Set(defaultGenerator), Bits: bits}, nil
}

// randProbablePrime samples random odd numbers of exactly bits length
// until one passes MillerRabinRounds rounds of Miller-Rabin.
func randProbablePrime(bits int) (*big.Int, error) {
	if bits <= 0 {
		return nil, fmt.Errorf("vdf: invalid prime width %d", bits)
	}
	byteLen := (bits + 7) / 8
	buf := make([]byte, byteLen)
	for {
		if _, err := rand.Read(buf); err != nil {
			return nil, err
		}
		candidate := new(big.Int).SetBytes(buf)
		candidate.SetBit(candidate, bits-1, 1)
		candidate.SetBit(candidate, 0, 1)
		if candidate.ProbablyPrime(MillerRabinRounds) {
			return candidate, nil
		}
	}
}

// pow2 returns 2^t as a big.Int.
func pow2(t uint32) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(t))
}

// Evaluate computes y = g^(2^t) mod N. The square-and-multiply ladder
// over an exponent with a single set bit performs exactly t sequential
// squarings, which is the source of the VDF's enforced delay.
func Evaluate(g *big.Int, t uint32, n *big.Int) *big.Int {
	return new(big.Int).Exp(g, pow2(t), n)
}

// Proof is the short Wesolowski certificate for one VDF evaluation.
type Proof struct {
	Y  *big.Int
	Pi *big.Int
}

// Prove evaluates the VDF and produces the accompanying Fiat-Shamir
// proof pi, letting a verifier skip the t sequential squarings.
func Prove(g *big.Int, t uint32, n *big.Int) (Proof, error) {
	if g == nil || n == nil {
		return Proof{}, errors.New("vdf: nil generator or modulus")
	}
	y := Evaluate(g, t, n)
	l := deriveChallenge(g, y, n)
	q := new(big.Int).Div(pow2(t), l)
	pi := new(big.Int).Exp(g, q, n)
	return Proof{Y: y, Pi: pi}, nil
}

// deriveChallenge computes l = H(g || y || N) | 1 reduced mod 2^128,
// falling back to a small odd prime if the result collapses below 2.
func deriveChallenge(g, y, n *big.Int) *big.Int {
	h := sha256.New()
	h.Write(g.Bytes())
	h.Write(y.Bytes())
	h.Write(n.Bytes())
	digest := h.Sum(nil)
	l := new(big.Int).SetBytes(digest)
	mod := new(big.Int).Lsh(big.NewInt(1), 128)
	l.Mod(l, mod)
	l.SetBit(l, 0, 1)
	if l.Cmp(big.NewInt(2)) < 0 {
		return new(big.Int).Set(smallPrimeFallback)
	}
	return l
}

// VerifyFast checks a Wesolowski proof without recomputing y: it
// recomputes the same challenge l, reduces the exponent mod l, and
// checks y == pi^l * g^r (mod N). O(log l) modular exponentiations.
func VerifyFast(g *big.Int, t uint32, n *big.Int, y, pi *big.Int) bool {
	if g == nil || n == nil || y == nil || pi == nil {
		return false
	}
	if pi.Sign() < 0 || pi.Cmp(n) >= 0 {
		return false
	}
	if y.Sign() < 0 || y.Cmp(n) >= 0 {
		return false
	}
	l := deriveChallenge(g, y, n)
	r := new(big.Int).Exp(big.NewInt(2), big.NewInt(int64(t)), l)
	lhs := new(big.Int).Exp(pi, l, n)
	rhs := new(big.Int).Exp(g, r, n)
	lhs.Mul(lhs, rhs)
	lhs.Mod(lhs, n)
	return lhs.Cmp(y) == 0
}

// VerifySlow recomputes y = g^(2^t) mod N directly and compares; used
// only when a proof pi is unavailable.
func VerifySlow(g *big.Int, t uint32, n *big.Int, y *big.Int) bool {
	if g == nil || n == nil || y == nil {
		return false
	}
	expected := Evaluate(g, t, n)
	return expected.Cmp(y) == 0
}

// DeriveSeed computes the cheap per-slot anchor that binds a block's
// VDF evaluation to its chain position: SHA-256(parent || slot_le).
// Independent of the RSA-group VDF above; prevents pre-computation
// across forks or chains sharing the same generator.
func DeriveSeed(parent primitives.Hash32, slot uint64) primitives.Hash32 {
	return primitives.SumSHA256(parent[:], primitives.LE64(slot))
}
