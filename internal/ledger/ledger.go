package ledger

import (
	"context"
	"sync"
	"time"

	"passkey-smart-wallet/internal/walletmodel"
)

// Ledger binds the three storage tiers together for one contract
// (wallet or factory) family. Separate Store implementations back each
// tier so the persistent tier can live in Postgres, the temporary tier
// in Redis, and the instance tier in process memory, matching each
// tier's actual sharing requirements (SPEC_FULL.md §10).
type Ledger struct {
	Instance   Store
	Persistent Store
	Temporary  Store

	// locks serializes all operations against one contract instance,
	// modeling the host's atomic single-threaded transaction per call
	// (§5) without blocking concurrent calls to unrelated instances.
	locks   map[string]*sync.Mutex
	locksMu sync.Mutex
}

// New constructs a Ledger from three tier backends.
func New(instance, persistent, temporary Store) *Ledger {
	return &Ledger{
		Instance:   instance,
		Persistent: persistent,
		Temporary:  temporary,
		locks:      make(map[string]*sync.Mutex),
	}
}

// NewInMemory builds a Ledger entirely backed by MemStore, useful for
// unit tests and the non-HTTP core's own test suite.
func NewInMemory() *Ledger {
	return New(NewMemStore(), NewMemStore(), NewMemStore())
}

func (l *Ledger) lockFor(instanceID string) *sync.Mutex {
	l.locksMu.Lock()
	defer l.locksMu.Unlock()

	mu, ok := l.locks[instanceID]
	if !ok {
		mu = &sync.Mutex{}
		l.locks[instanceID] = mu
	}
	return mu
}

// Txn is a staged write-set for one contract invocation. Operations
// queued on a Txn are only applied to the underlying stores when
// Commit succeeds; an aborted or panicking invocation discards them
// entirely, matching the host's all-or-nothing transaction semantics
// (§5 Cancellation).
type Txn struct {
	ctx    context.Context
	ledger *Ledger
	ops    []func(context.Context) error
}

// WithTransaction serializes access to instanceID and runs fn against a
// fresh Txn. A panic inside fn is recovered and converted into a
// HostTrapError rather than crashing the caller — matching the
// specification's host-trap failure tier (§7) — and the staged writes
// are discarded exactly as they would be for a returned error.
func (l *Ledger) WithTransaction(ctx context.Context, instanceID string, fn func(*Txn) error) (err error) {
	mu := l.lockFor(instanceID)
	mu.Lock()
	defer mu.Unlock()

	txn := &Txn{ctx: ctx, ledger: l}

	defer func() {
		if r := recover(); r != nil {
			err = walletmodel.NewHostTrap(panicReason(r))
		}
	}()

	if err = fn(txn); err != nil {
		return err
	}
	return txn.commit()
}

func panicReason(r interface{}) string {
	if e, ok := r.(error); ok {
		return e.Error()
	}
	return "unrecoverable invariant violation"
}

func (t *Txn) commit() error {
	for _, op := range t.ops {
		if err := op(t.ctx); err != nil {
			return err
		}
	}
	return nil
}

// Stage queues a write to be applied only if the whole transaction
// succeeds.
func (t *Txn) Stage(op func(context.Context) error) {
	t.ops = append(t.ops, op)
}

// Get reads a tier immediately — reads are never staged, since they
// have no rollback cost and later steps may depend on their result.
func (t *Txn) Get(tier Tier, namespace, key string) ([]byte, bool, error) {
	store := t.storeFor(tier)
	value, _, found, err := store.Get(t.ctx, namespace, key)
	return value, found, err
}

func (t *Txn) storeFor(tier Tier) Store {
	switch tier {
	case TierInstance:
		return t.ledger.Instance
	case TierPersistent:
		return t.ledger.Persistent
	case TierTemporary:
		return t.ledger.Temporary
	default:
		panic("ledger: unknown tier")
	}
}

// StageSet queues a write for the given tier. ttl == NoExpiry writes an
// entry that never expires (appropriate for the instance tier).
func (t *Txn) StageSet(tier Tier, namespace, key string, value []byte, ttl time.Duration) {
	store := t.storeFor(tier)
	t.Stage(func(ctx context.Context) error {
		return store.Set(ctx, namespace, key, value, ttl)
	})
}

// StageDelete queues a delete for the given tier.
func (t *Txn) StageDelete(tier Tier, namespace, key string) {
	store := t.storeFor(tier)
	t.Stage(func(ctx context.Context) error {
		return store.Delete(ctx, namespace, key)
	})
}

// StageExtendTTL queues a floor/extension TTL bump for the given tier.
func (t *Txn) StageExtendTTL(tier Tier, namespace, key string, policy TTLPolicy) {
	store := t.storeFor(tier)
	t.Stage(func(ctx context.Context) error {
		return store.ExtendTTL(ctx, namespace, key, policy.Floor, policy.Extend)
	})
}
