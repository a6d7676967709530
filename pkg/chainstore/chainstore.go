// Package chainstore implements crash-safe persistence of the block
// log: temp-file-and-rename writes and self-healing reads, per spec
// section 4.7.
package chainstore

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/gofrs/flock"
	"github.com/timechain-project/timechain-core/pkg/block"
)

// FormatVersion is the single byte at offset 0 of every persisted
// chain file. A file whose version does not match triggers the same
// fresh-sync path as a corrupted file.
const FormatVersion byte = 1

// ErrLocked is returned when another process already holds the chain
// file's advisory lock.
var ErrLocked = errors.New("chainstore: chain file is locked by another process")

// Store persists a block log to a single file using the
// temp-file-plus-rename contract. It is safe for one writer at a time,
// enforced with an advisory file lock rather than in-process
// coordination, since the lock must also exclude other processes.
type Store struct {
	path string
	lock *flock.Flock
}

// New builds a Store writing to path, with an adjacent ".lock" file
// used to serialize access across processes.
func New(path string) *Store {
	return &Store{path: path, lock: flock.New(path + ".lock")}
}

// Save serializes blocks as a length-prefixed sequence of
// canonically-encoded records behind a version byte, writes them to a
// temp file, fsyncs it, and renames it over the target path — atomic
// on POSIX filesystems. A reader never observes a partially-written
// file.
func (s *Store) Save(blocks []block.Block) error {
	locked, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("chainstore: acquiring lock: %w", err)
	}
	if !locked {
		return ErrLocked
	}
	defer s.lock.Unlock()

	var buf bytes.Buffer
	buf.WriteByte(FormatVersion)
	for i, b := range blocks {
		enc, err := b.CanonicalEncode()
		if err != nil {
			return fmt.Errorf("chainstore: encoding block %d: %w", i, err)
		}
		var lenPrefix [4]byte
		binary.LittleEndian.PutUint32(lenPrefix[:], uint32(len(enc)))
		buf.Write(lenPrefix[:])
		buf.Write(enc)
	}

	dir := filepath.Dir(s.path)
	tmpPath := s.path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("chainstore: opening temp file: %w", err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("chainstore: writing temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("chainstore: fsyncing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("chainstore: closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("chainstore: renaming into place: %w", err)
	}
	if dirHandle, err := os.Open(dir); err == nil {
		_ = dirHandle.Sync()
		_ = dirHandle.Close()
	}

	log.Info("chainstore: saved chain", "path", s.path, "blocks", len(blocks))
	return nil
}

// Load reads the chain file and decodes it into blocks. A missing file
// yields an empty, non-error result. A corrupted or unrecognized-
// version file is deleted and also yields an empty, non-error result —
// the self-healing behavior that lets upstream code resync from peers
// instead of crashing on a torn or stale file.
func (s *Store) Load() ([]block.Block, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("chainstore: reading chain file: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	blocks, err := decode(data)
	if err != nil {
		log.Warn("chainstore: chain file corrupted, deleting and resyncing", "path", s.path, "err", err)
		if rmErr := os.Remove(s.path); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Warn("chainstore: failed to remove corrupted chain file", "err", rmErr)
		}
		return nil, nil
	}
	return blocks, nil
}

func decode(data []byte) ([]block.Block, error) {
	if data[0] != FormatVersion {
		return nil, fmt.Errorf("chainstore: unknown format version %d", data[0])
	}
	rest := data[1:]
	var blocks []block.Block
	for len(rest) > 0 {
		if len(rest) < 4 {
			return nil, fmt.Errorf("chainstore: truncated length prefix")
		}
		n := binary.LittleEndian.Uint32(rest[:4])
		rest = rest[4:]
		if uint64(len(rest)) < uint64(n) {
			return nil, fmt.Errorf("chainstore: truncated block record")
		}
		var b block.Block
		if err := rlp.DecodeBytes(rest[:n], &b); err != nil {
			return nil, fmt.Errorf("chainstore: decoding block record: %w", err)
		}
		blocks = append(blocks, b)
		rest = rest[n:]
	}
	return blocks, nil
}
