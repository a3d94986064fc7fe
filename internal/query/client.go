// Package query is the read-side cache in front of the remote store.
//
// Every read goes through Fetch with a Key and a stale time. Fresh entries are
// served from memory, concurrent misses on one key share a single remote call,
// and mutations drop affected entries through Invalidate, InvalidateResource or
// Apply. A fetch that started before an invalidation never writes its result
// back, so a read issued after a mutation returns always sees post-mutation data.
package query

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"showcase-backend/internal/domain"
	"showcase-backend/pkg/cache"
	"showcase-backend/pkg/logger"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Entry is what the cache stores per key.
type Entry struct {
	Data      any
	FetchedAt time.Time
}

// State is the live view of one key.
type State struct {
	Data      any
	Loading   bool
	Err       error
	UpdatedAt time.Time
}

// FailureHook is called once per failed remote call, not once per waiting reader.
type FailureHook func(ctx context.Context, key Key, err error)

type observer struct {
	key     string
	refetch func(ctx context.Context)
}

type Client struct {
	store   cache.CacheService
	group   singleflight.Group
	metrics *Metrics
	log     zerolog.Logger

	onFailure      FailureHook
	refetchTimeout time.Duration

	mu        sync.Mutex
	keyGen    map[string]uint64
	resGen    map[Resource]uint64
	inflight  map[string]int
	lastErr   map[string]failure
	observers map[uint64]observer
	nextObs   uint64
	listeners []func(key string)

	bg sync.WaitGroup
}

type Option func(*Client)

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithFailureHook(h FailureHook) Option {
	return func(c *Client) { c.onFailure = h }
}

// WithRefetchTimeout bounds background refetches of observed keys.
func WithRefetchTimeout(d time.Duration) Option {
	return func(c *Client) { c.refetchTimeout = d }
}

func NewClient(store cache.CacheService, opts ...Option) *Client {
	c := &Client{
		store:          store,
		log:            logger.Component("query"),
		refetchTimeout: 30 * time.Second,
		keyGen:         make(map[string]uint64),
		resGen:         make(map[Resource]uint64),
		inflight:       make(map[string]int),
		lastErr:        make(map[string]failure),
		observers:      make(map[uint64]observer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the cached value for key when fresh, otherwise calls fn once for
// all concurrent callers of the same key. The shared call is detached from the
// caller's cancellation: a cancelled caller stops waiting, the call completes
// and its result is still cached.
func Fetch[T any](ctx context.Context, c *Client, key Key, staleTime time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	k := key.String()

	if v, ok := c.store.Get(k); ok {
		if e, ok := v.(Entry); ok {
			if data, ok := e.Data.(T); ok {
				c.metrics.hit(key.Resource)
				return data, nil
			}
		}
	}
	c.metrics.miss(key.Resource)

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(k, func() (any, error) {
		return c.run(detached, key, k, staleTime, func(ctx context.Context) (any, error) {
			return fn(ctx)
		})
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		data, ok := res.Val.(T)
		if !ok {
			return zero, fmt.Errorf("query %s: unexpected value type %T", k, res.Val)
		}
		return data, nil
	}
}

func (c *Client) run(ctx context.Context, key Key, k string, staleTime time.Duration, fn func(context.Context) (any, error)) (any, error) {
	gen := c.begin(k, key.Resource)
	defer c.end(k)

	c.metrics.fetch(key.Resource)
	start := time.Now()
	v, err := fn(ctx)
	logger.RemoteCall(k, time.Since(start), err)

	if err != nil {
		var remote *domain.RemoteCallError
		if !errors.As(err, &remote) {
			err = &domain.RemoteCallError{Op: k, Err: err}
		}
		c.fail(k, gen, err)
		c.metrics.failure(key.Resource)
		if c.onFailure != nil {
			c.onFailure(ctx, key, err)
		}
		return nil, err
	}

	c.commit(k, gen, v, staleTime)
	return v, nil
}

// failureRetention bounds how long State reports a failed fetch for a key
// nobody reads again.
const failureRetention = 5 * time.Minute

type failure struct {
	err error
	at  time.Time
}

// generation snapshots the counters a fetch started under. Per-key counters
// only exist while the key has a fetch in flight.
type generation struct {
	key uint64
	res uint64
	r   Resource
}

func (c *Client) begin(k string, res Resource) generation {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight[k]++
	return generation{key: c.keyGen[k], res: c.resGen[res], r: res}
}

func (c *Client) end(k string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight[k] <= 1 {
		delete(c.inflight, k)
		delete(c.keyGen, k)
		return
	}
	c.inflight[k]--
}

// current reports whether no invalidation touched k since g was taken. Callers hold mu.
func (c *Client) current(k string, g generation) bool {
	return c.keyGen[k] == g.key && c.resGen[g.r] == g.res
}

func (c *Client) commit(k string, g generation, v any, staleTime time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(k, g) {
		c.log.Debug().Str("key", k).Msg("Discarding result fetched before invalidation")
		return
	}
	delete(c.lastErr, k)
	// go-cache treats 0 as its default expiration, so a zero stale time means no caching at all
	if staleTime > 0 {
		c.store.Set(k, Entry{Data: v, FetchedAt: time.Now()}, staleTime)
	}
}

func (c *Client) fail(k string, g generation, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(k, g) {
		return
	}
	now := time.Now()
	for key, f := range c.lastErr {
		if now.Sub(f.at) > failureRetention {
			delete(c.lastErr, key)
		}
	}
	c.lastErr[k] = failure{err: err, at: now}
}

// Invalidate drops the given keys. Reads starting after Invalidate returns
// go to the remote store.
func (c *Client) Invalidate(keys ...Key) {
	for _, key := range keys {
		k := key.String()

		c.mu.Lock()
		if c.inflight[k] > 0 {
			c.keyGen[k]++
		}
		delete(c.lastErr, k)
		c.mu.Unlock()

		c.group.Forget(k)
		c.store.Delete(k)
		c.metrics.invalidation(key.Resource)
		c.afterInvalidate(k, func(obsKey string) bool { return obsKey == k })
	}
}

// InvalidateResource drops every key of the given resources, whatever their params.
func (c *Client) InvalidateResource(resources ...Resource) {
	for _, res := range resources {
		c.mu.Lock()
		c.resGen[res]++
		var flying []string
		for k := range c.inflight {
			if belongsTo(k, res) {
				flying = append(flying, k)
			}
		}
		for k := range c.lastErr {
			if belongsTo(k, res) {
				delete(c.lastErr, k)
			}
		}
		c.mu.Unlock()

		for _, k := range flying {
			c.group.Forget(k)
		}
		c.store.Delete(string(res))
		c.store.DeletePrefix(resourcePrefix(res))
		c.metrics.invalidation(res)

		r := res
		c.afterInvalidate(string(res), func(obsKey string) bool { return belongsTo(obsKey, r) })
	}
}

func (c *Client) afterInvalidate(k string, match func(obsKey string) bool) {
	c.mu.Lock()
	listeners := append([]func(string){}, c.listeners...)
	var refetch []func(context.Context)
	for _, o := range c.observers {
		if match(o.key) {
			refetch = append(refetch, o.refetch)
		}
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(k)
	}
	for _, fn := range refetch {
		c.bg.Add(1)
		go func(fn func(context.Context)) {
			defer c.bg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), c.refetchTimeout)
			defer cancel()
			fn(ctx)
		}(fn)
	}
}

// OnInvalidate registers fn to be called with every invalidated key, or with the
// bare resource name for resource-wide invalidations.
func (c *Client) OnInvalidate(fn func(key string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Observe marks key as actively displayed. After an invalidation touching key,
// refetch runs in the background so the next reader finds a warm entry.
// The returned func stops observing.
func (c *Client) Observe(key Key, refetch func(ctx context.Context)) (release func()) {
	c.mu.Lock()
	c.nextObs++
	id := c.nextObs
	c.observers[id] = observer{key: key.String(), refetch: refetch}
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.observers, id)
	}
}

// State reports the cached data, loading flag and last error for key.
func (c *Client) State(key Key) State {
	k := key.String()

	c.mu.Lock()
	st := State{Loading: c.inflight[k] > 0}
	if f, ok := c.lastErr[k]; ok && time.Since(f.at) <= failureRetention {
		st.Err = f.err
	}
	c.mu.Unlock()

	if v, ok := c.store.Get(k); ok {
		if e, ok := v.(Entry); ok {
			st.Data = e.Data
			st.UpdatedAt = e.FetchedAt
		}
	}
	return st
}

// Wait blocks until background refetches have finished.
func (c *Client) Wait() {
	c.bg.Wait()
}
