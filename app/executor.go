package app

import (
	"sync"
	"time"

	"github.com/iov-one/lockbank"
	"github.com/iov-one/lockbank/errors"
	"github.com/iov-one/lockbank/metrics"
	"github.com/tendermint/tendermint/libs/log"
)

// Operation is a single state changing call, for example creating a lock.
// All writes done to db are committed only if the operation succeeds.
type Operation func(ctx lockbank.Context, db lockbank.KVStore) error

// Query is a read only call.
type Query func(ctx lockbank.Context, db lockbank.ReadOnlyKVStore) error

// Result describes a committed operation.
type Result struct {
	// Events emitted by the operation, in emission order.
	Events []lockbank.Event
	// Version is the store version created by the operation.
	Version lockbank.CommitID
}

// Executor runs operations one at a time against a commit store. Each
// operation is executed in its own cache wrap, that is written and committed
// only if the operation succeeds.
type Executor struct {
	mu      sync.Mutex
	store   lockbank.CommitKVStore
	logger  log.Logger
	metrics *metrics.Collector
	now     func() time.Time
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the base logger of all operations.
func WithLogger(logger log.Logger) Option {
	return func(e *Executor) { e.logger = logger }
}

// WithMetrics enables metrics collection.
func WithMetrics(c *metrics.Collector) Option {
	return func(e *Executor) { e.metrics = c }
}

// WithClock sets the source of the block time used for operations that are
// not given one explicitly.
func WithClock(now func() time.Time) Option {
	return func(e *Executor) { e.now = now }
}

// NewExecutor loads the latest version of the store and returns an executor
// operating on it.
func NewExecutor(store lockbank.CommitKVStore, opts ...Option) (*Executor, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	e := &Executor{
		store:  store,
		logger: log.NewNopLogger(),
		now:    time.Now,
	}
	for _, fn := range opts {
		fn(e)
	}
	return e, nil
}

// InitChain loads the genesis state. It can be called only once for a given
// store.
func (e *Executor) InitChain(gen Genesis, init lockbank.Initializer) (lockbank.CommitID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cache := e.store.CacheWrap()
	if err := saveChainID(cache, gen.ChainID); err != nil {
		cache.Discard()
		return lockbank.CommitID{}, err
	}
	if err := init.FromGenesis(gen.AppState, cache); err != nil {
		cache.Discard()
		return lockbank.CommitID{}, errors.Wrap(err, "genesis")
	}
	id, err := e.commit(cache)
	if err != nil {
		return id, err
	}
	e.logger.Info("chain initialized", "chain_id", gen.ChainID, "version", id.Version)
	return id, nil
}

// ChainID returns the ID the store was initialized with. An empty string is
// returned for a store that was never initialized.
func (e *Executor) ChainID() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return loadChainID(e.store)
}

// Execute runs the operation and commits its result. A failed or panicking
// operation leaves the store untouched and its events are discarded.
func (e *Executor) Execute(ctx lockbank.Context, name string, op Operation) (res *Result, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	em := lockbank.NewEventManager()
	ctx = lockbank.WithEventManager(e.prepare(ctx, name), em)

	start := time.Now()
	defer func() {
		logDuration(ctx, start, err, false)
		if e.metrics != nil {
			e.metrics.ObserveOperation(name, err)
		}
	}()

	if chainID, err := loadChainID(e.store); err != nil {
		return nil, err
	} else if chainID == "" {
		return nil, errors.Wrap(errors.ErrState, "chain not initialized")
	}

	cache := e.store.CacheWrap()
	if err := run(ctx, cache, op); err != nil {
		cache.Discard()
		return nil, err
	}
	id, err := e.commit(cache)
	if err != nil {
		return nil, err
	}

	events := em.Events()
	if e.metrics != nil {
		e.metrics.ObserveEvents(events)
	}
	return &Result{Events: events, Version: id}, nil
}

// Query runs a read only call against the latest committed state.
func (e *Executor) Query(ctx lockbank.Context, name string, q Query) (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx = e.prepare(ctx, name)
	start := time.Now()
	defer func() { logDuration(ctx, start, err, true) }()

	cache := e.store.CacheWrap()
	defer cache.Discard()
	defer errors.Recover(&err)
	return q(ctx, cache)
}

// prepare sets the logger and, unless already present, the block time.
func (e *Executor) prepare(ctx lockbank.Context, name string) lockbank.Context {
	ctx = lockbank.WithLogInfo(lockbank.WithLogger(ctx, e.logger), "op", name)
	if _, ok := lockbank.BlockTime(ctx); !ok {
		ctx = lockbank.WithBlockTime(ctx, e.now())
	}
	return ctx
}

func (e *Executor) commit(cache lockbank.KVCacheWrap) (lockbank.CommitID, error) {
	if err := cache.Write(); err != nil {
		return lockbank.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	id, err := e.store.Commit()
	if err != nil {
		return id, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return id, nil
}

// run calls op, turning a panic into an error.
func run(ctx lockbank.Context, db lockbank.KVStore, op Operation) (err error) {
	defer errors.Recover(&err)
	return op(ctx, db)
}
