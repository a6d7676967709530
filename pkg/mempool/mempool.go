// Package mempool holds not-yet-mined transactions outside the
// consensus core, ordered by fee so a miner can greedily fill a block.
// It is deliberately thin: every admission decision is delegated to
// Timechain.ValidateTransaction, the core's read-only pre-admission
// filter (spec 4.6).
package mempool

import (
	"container/heap"
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	"github.com/timechain-project/timechain-core/pkg/primitives"
	"github.com/timechain-project/timechain-core/pkg/timechain"
	"github.com/timechain-project/timechain-core/pkg/txn"
)

// ErrAlreadyPending is returned when a transaction with the same
// fingerprint is already queued.
var ErrAlreadyPending = errors.New("mempool: transaction already pending")

// ErrFull is returned when the pool is at capacity and the incoming
// transaction's fee does not outbid the cheapest pending entry.
var ErrFull = errors.New("mempool: pool at capacity")

type entry struct {
	tx       txn.Transaction
	fp       primitives.Hash32
	sequence uint64
	index    int
}

// feeHeap is a max-heap on fee, with insertion order as a tiebreaker so
// equal-fee transactions are served FIFO — the same shape as the
// teacher's PriceList sort.Interface/heap pairing in its mempool.
type feeHeap []*entry

func (h feeHeap) Len() int { return len(h) }
func (h feeHeap) Less(i, j int) bool {
	if h[i].tx.Fee != h[j].tx.Fee {
		return h[i].tx.Fee > h[j].tx.Fee
	}
	return h[i].sequence < h[j].sequence
}
func (h feeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *feeHeap) Push(x interface{}) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *feeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Pool is a fee-priority transaction queue bounded to maxSize entries.
type Pool struct {
	mu       sync.Mutex
	chain    *timechain.Timechain
	maxSize  int
	nextSeq  uint64
	byFP     map[primitives.Hash32]*entry
	priority feeHeap
}

// New builds a Pool that validates incoming transactions against
// chain's current tip.
func New(chain *timechain.Timechain, maxSize int) *Pool {
	return &Pool{
		chain:   chain,
		maxSize: maxSize,
		byFP:    make(map[primitives.Hash32]*entry),
	}
}

// Add validates tx against the chain tip and, if accepted, queues it.
// If the pool is full, tx is admitted only if its fee beats the
// cheapest currently-queued transaction, which is evicted to make room.
func (p *Pool) Add(tx txn.Transaction) error {
	if err := p.chain.ValidateTransaction(tx); err != nil {
		return err
	}
	fp, err := tx.Fingerprint()
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.byFP[fp]; exists {
		return ErrAlreadyPending
	}

	if len(p.priority) >= p.maxSize && p.maxSize > 0 {
		cheapest := p.priority[0]
		for _, e := range p.priority {
			if e.tx.Fee < cheapest.tx.Fee {
				cheapest = e
			}
		}
		if tx.Fee <= cheapest.tx.Fee {
			return ErrFull
		}
		heap.Remove(&p.priority, cheapest.index)
		delete(p.byFP, cheapest.fp)
		log.Debug("mempool: evicted lower-fee transaction", "fingerprint", cheapest.fp.Hex())
	}

	e := &entry{tx: tx, fp: fp, sequence: p.nextSeq}
	p.nextSeq++
	heap.Push(&p.priority, e)
	p.byFP[fp] = e
	return nil
}

// Remove drops a transaction from the pool, typically because it was
// just mined into an accepted block.
func (p *Pool) Remove(fp primitives.Hash32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.byFP[fp]
	if !ok {
		return
	}
	heap.Remove(&p.priority, e.index)
	delete(p.byFP, fp)
}

// Take returns up to limit pending transactions in fee-priority order,
// removing them from the pool. A miner calls this to fill a candidate
// block.
func (p *Pool) Take(limit int) []txn.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []txn.Transaction
	for len(out) < limit && p.priority.Len() > 0 {
		e := heap.Pop(&p.priority).(*entry)
		delete(p.byFP, e.fp)
		out = append(out, e.tx)
	}
	return out
}

// Len reports the number of pending transactions.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.priority)
}

// GetStatus summarizes the pool for operator tooling.
func (p *Pool) GetStatus() map[string]interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return map[string]interface{}{
		"pending": len(p.priority),
		"maxSize": p.maxSize,
	}
}
