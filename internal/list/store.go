package list

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Operation names reported to an Observer.
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpClearAll = "clear_all"
	OpReload   = "reload"
)

const maxIDAttempts = 3

// Observer is notified after every store operation.
type Observer interface {
	ObserveOp(op string, err error)
	ObserveItems(n int)
}

// Store is the single source of truth for the collection while the process
// runs. Every mutation is reconcile-then-mutate: the durable collection is
// read first, the change is applied to it, the result is written back and
// only then published. If the write fails the durable collection that was
// read is published instead, so memory never runs ahead of storage.
//
// Mutations are serialized. Reads (List, Find) see the last published
// collection and do not wait for a running mutation.
type Store struct {
	gw       *Gateway
	log      *zap.Logger
	now      func() time.Time
	newID    func() string
	observer Observer

	mu        sync.Mutex
	published atomic.Pointer[[]Item]

	subMu   sync.Mutex
	subs    map[uint64]func([]Item)
	nextSub uint64
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithObserver registers an Observer.
func WithObserver(o Observer) Option {
	return func(s *Store) { s.observer = o }
}

// NewStore creates a Store and loads the collection from gw. A failed load
// starts the store with an empty collection.
func NewStore(ctx context.Context, gw *Gateway, opts ...Option) *Store {
	s := &Store{
		gw:    gw,
		log:   zap.NewNop(),
		now:   time.Now,
		newID: uuid.NewString,
		subs:  make(map[uint64]func([]Item)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("component", "store"))
	s.published.Store(&[]Item{})
	s.Reload(ctx)
	return s
}

// List returns a copy of the published collection in insertion order.
func (s *Store) List() []Item {
	return cloneItems(*s.published.Load())
}

// Find returns the published item with id.
func (s *Store) Find(id string) (Item, bool) {
	for _, it := range *s.published.Load() {
		if it.ID == id {
			return it.clone(), true
		}
	}
	return Item{}, false
}

// Subscribe registers fn to receive every published collection. fn runs
// synchronously on the goroutine of the operation that published, in
// operation order, and must not call the store's mutating methods.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func([]Item)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// Reload re-reads the durable collection and publishes it. Read failures
// publish an empty collection.
func (s *Store) Reload(ctx context.Context) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.gw.ReadAll(ctx)
	s.publish(items)
	s.observe(OpReload, nil)
	return cloneItems(items)
}

// Create appends a new item with a fresh id and creation time. Input is not
// validated here; callers reject empty titles.
func (s *Store) Create(ctx context.Context, in CreateInput) (item Item, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.observe(OpCreate, err) }()

	current, err := s.reconcile(ctx)
	if err != nil {
		return Item{}, err
	}
	id, err := s.uniqueID(current)
	if err != nil {
		return Item{}, err
	}
	item = Item{
		ID:        id,
		Title:     validText(in.Title),
		Subtitle:  validText(in.Subtitle),
		CreatedAt: s.stamp(),
	}
	if err := s.commit(ctx, current, appendItem(current, item)); err != nil {
		return Item{}, err
	}
	s.log.Debug("item created", zap.String("id", item.ID))
	return item.clone(), nil
}

// Update replaces the title and subtitle of the item with in.ID and stamps
// its update time. An id that is not in the collection is a silent no-op:
// nothing changes and no error is returned. Callers that need to tell the
// cases apart check Find first.
func (s *Store) Update(ctx context.Context, in UpdateInput) (items []Item, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.observe(OpUpdate, err) }()

	current, err := s.reconcile(ctx)
	if err != nil {
		return nil, err
	}
	next, found := replaceItem(current, in, s.stamp())
	if !found {
		s.log.Debug("update of unknown item ignored", zap.String("id", in.ID))
	}
	if err := s.commit(ctx, current, next); err != nil {
		return nil, err
	}
	return cloneItems(next), nil
}

// Delete removes the item with id. Deleting an absent id is a no-op.
func (s *Store) Delete(ctx context.Context, id string) (items []Item, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.observe(OpDelete, err) }()

	current, err := s.reconcile(ctx)
	if err != nil {
		return nil, err
	}
	next := removeItem(current, id)
	if err := s.commit(ctx, current, next); err != nil {
		return nil, err
	}
	return cloneItems(next), nil
}

// ClearAll empties the collection and removes the durable key.
func (s *Store) ClearAll(ctx context.Context) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.observe(OpClearAll, err) }()

	confirmed, rerr := s.reconcile(ctx)
	if rerr != nil {
		confirmed = *s.published.Load()
	}
	if err := s.gw.Clear(ctx); err != nil {
		s.log.Error("clear failed", zap.Error(err))
		s.publish(confirmed)
		return fmt.Errorf("clear all: %w", err)
	}
	s.publish([]Item{})
	return nil
}

// reconcile reads the durable collection a mutation is applied to. Unlike
// Reload it refuses to continue on a backend failure: writing a collection
// derived from nothing would erase what is stored.
func (s *Store) reconcile(ctx context.Context) ([]Item, error) {
	snap, err := s.gw.Load(ctx)
	if err != nil {
		s.log.Error("reconcile failed", zap.Error(err))
		return nil, err
	}
	return snap.Items, nil
}

// commit persists next and publishes it, or publishes confirmed if the
// write fails.
func (s *Store) commit(ctx context.Context, confirmed, next []Item) error {
	if err := s.gw.WriteAll(ctx, next); err != nil {
		s.log.Error("persist failed, keeping last stored collection", zap.Error(err))
		s.publish(confirmed)
		return err
	}
	s.publish(next)
	return nil
}

func (s *Store) publish(items []Item) {
	s.published.Store(&items)

	s.subMu.Lock()
	subs := make([]func([]Item), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(cloneItems(items))
	}
}

func (s *Store) observe(op string, err error) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveOp(op, err)
	s.observer.ObserveItems(len(*s.published.Load()))
}

func (s *Store) uniqueID(current []Item) (string, error) {
	for range maxIDAttempts {
		if id := s.newID(); !containsID(current, id) {
			return id, nil
		}
	}
	return "", ErrIDCollision
}

// stamp returns the current time at the precision the gateway stores.
func (s *Store) stamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}
