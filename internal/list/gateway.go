package list

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"golist/internal/kv"
)

const (
	// DefaultKey is the key the collection is stored under.
	DefaultKey = "list-Items"

	// DefaultQuota caps the serialized collection (key included) in bytes.
	DefaultQuota = 5 << 20

	// timeLayout is ISO-8601 in UTC with millisecond precision.
	timeLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Status describes how a Snapshot was obtained from the durable store.
type Status int

const (
	// StatusEmpty means the key was absent.
	StatusEmpty Status = iota
	// StatusLoaded means the stored value decoded cleanly.
	StatusLoaded
	// StatusRecovered means the stored value was corrupt, wholly or in part,
	// and the unusable parts were discarded.
	StatusRecovered
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusLoaded:
		return "loaded"
	case StatusRecovered:
		return "recovered"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Snapshot is the typed result of reading the durable collection.
type Snapshot struct {
	Items   []Item
	Status  Status
	Dropped int // entries discarded during a recovered load
}

// record is the serialized form of an Item.
type record struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Subtitle  string  `json:"subtitle"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt *string `json:"updatedAt,omitempty"`
}

// Gateway stores the whole collection as one JSON array under one key.
// No other component writes to that key.
type Gateway struct {
	kv    kv.Store
	key   string
	quota int
	log   *zap.Logger
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithKey overrides DefaultKey.
func WithKey(key string) GatewayOption {
	return func(g *Gateway) { g.key = key }
}

// WithQuota overrides DefaultQuota. Zero or less disables the check.
func WithQuota(bytes int) GatewayOption {
	return func(g *Gateway) { g.quota = bytes }
}

// WithGatewayLogger sets the logger used to report absorbed read failures.
func WithGatewayLogger(log *zap.Logger) GatewayOption {
	return func(g *Gateway) { g.log = log }
}

// NewGateway creates a Gateway over store.
func NewGateway(store kv.Store, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		kv:    store,
		key:   DefaultKey,
		quota: DefaultQuota,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.log = g.log.With(zap.String("component", "gateway"), zap.String("key", g.key))
	return g
}

// Key returns the storage key owned by the gateway.
func (g *Gateway) Key() string { return g.key }

// ReadAll returns the durable collection and never fails: an absent key, a
// corrupt value and an unreachable backend all yield an empty collection.
func (g *Gateway) ReadAll(ctx context.Context) []Item {
	snap, err := g.Load(ctx)
	if err != nil {
		g.log.Warn("read failed, using empty collection", zap.Error(err))
		return []Item{}
	}
	return snap.Items
}

// Load reads and decodes the durable collection. Corruption is recovered
// locally and reported through Snapshot.Status; the only error is a backend
// failure, which matches ErrStorageUnavailable.
func (g *Gateway) Load(ctx context.Context) (Snapshot, error) {
	raw, ok, err := g.kv.Get(ctx, g.key)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read %s: %w: %w", g.key, ErrStorageUnavailable, err)
	}
	if !ok {
		return Snapshot{Items: []Item{}, Status: StatusEmpty}, nil
	}
	snap := decode(raw)
	if snap.Status == StatusRecovered {
		g.log.Warn("recovered corrupt collection", zap.Int("dropped", snap.Dropped), zap.Int("kept", len(snap.Items)))
	}
	return snap, nil
}

// WriteAll replaces the stored collection with items.
func (g *Gateway) WriteAll(ctx context.Context, items []Item) error {
	data, err := encode(items)
	if err != nil {
		return fmt.Errorf("encode collection: %w: %w", ErrStorageWrite, err)
	}
	if g.quota > 0 && len(g.key)+len(data) > g.quota && !g.shrinks(ctx, len(data)) {
		return fmt.Errorf("write %s (%d bytes, quota %d): %w", g.key, len(g.key)+len(data), g.quota, ErrQuotaExceeded)
	}
	if err := g.kv.Set(ctx, g.key, string(data)); err != nil {
		return fmt.Errorf("write %s: %w: %w", g.key, ErrStorageWrite, err)
	}
	return nil
}

// shrinks reports whether a value of n bytes is no larger than the stored
// one. A collection already over the quota can still lose items.
func (g *Gateway) shrinks(ctx context.Context, n int) bool {
	raw, ok, err := g.kv.Get(ctx, g.key)
	return err == nil && ok && n <= len(raw)
}

// Clear removes the key entirely.
func (g *Gateway) Clear(ctx context.Context) error {
	if err := g.kv.Delete(ctx, g.key); err != nil {
		return fmt.Errorf("clear %s: %w: %w", g.key, ErrStorageWrite, err)
	}
	return nil
}

func encode(items []Item) ([]byte, error) {
	recs := make([]record, 0, len(items))
	for _, it := range items {
		rec := record{
			ID:        it.ID,
			Title:     it.Title,
			Subtitle:  it.Subtitle,
			CreatedAt: formatTime(it.CreatedAt),
		}
		if it.UpdatedAt != nil {
			s := formatTime(*it.UpdatedAt)
			rec.UpdatedAt = &s
		}
		recs = append(recs, rec)
	}
	return json.Marshal(recs)
}

// decode parses a stored value. A value that is not a JSON array recovers to
// an empty collection. Entries that are not objects, lack an id, repeat an
// earlier id or carry an unparsable createdAt are dropped. An unparsable
// updatedAt is treated as absent; one before createdAt is raised to it.
func decode(raw string) Snapshot {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil || elems == nil {
		return Snapshot{Items: []Item{}, Status: StatusRecovered}
	}

	snap := Snapshot{Items: make([]Item, 0, len(elems)), Status: StatusLoaded}
	seen := make(map[string]struct{}, len(elems))
	for _, elem := range elems {
		it, ok := hydrate(elem)
		if ok {
			_, dup := seen[it.ID]
			ok = !dup
		}
		if !ok {
			snap.Dropped++
			continue
		}
		seen[it.ID] = struct{}{}
		snap.Items = append(snap.Items, it)
	}
	if snap.Dropped > 0 {
		snap.Status = StatusRecovered
	}
	return snap
}

func hydrate(elem json.RawMessage) (Item, bool) {
	var rec record
	if err := json.Unmarshal(elem, &rec); err != nil || rec.ID == "" {
		return Item{}, false
	}
	created, err := parseTime(rec.CreatedAt)
	if err != nil {
		return Item{}, false
	}
	it := Item{
		ID:        rec.ID,
		Title:     rec.Title,
		Subtitle:  rec.Subtitle,
		CreatedAt: created,
	}
	if rec.UpdatedAt != nil {
		if updated, err := parseTime(*rec.UpdatedAt); err == nil {
			if updated.Before(created) {
				updated = created
			}
			it.UpdatedAt = &updated
		}
	}
	return it, true
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
