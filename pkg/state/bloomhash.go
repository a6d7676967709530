package state

import "encoding/binary"

// fixedHash64 adapts a precomputed 64-bit value to the hash.Hash64
// interface holiman/bloomfilter requires, letting the filter consume
// the leading 8 bytes of a Hash32 without rehashing it.
type fixedHash64 uint64

func newFixedHash64(h [32]byte) fixedHash64 {
	return fixedHash64(binary.LittleEndian.Uint64(h[:8]))
}

func (f fixedHash64) Sum64() uint64 { return uint64(f) }

func (f fixedHash64) Write(p []byte) (int, error) { return len(p), nil }
func (f fixedHash64) Sum(b []byte) []byte          { return b }
func (f fixedHash64) Reset()                       {}
func (f fixedHash64) Size() int                    { return 8 }
func (f fixedHash64) BlockSize() int               { return 8 }
