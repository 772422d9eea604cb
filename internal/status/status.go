package status

import (
	"sync"
	"time"
)

// APIState is whether the primary service answered its health probe.
type APIState string

const (
	Online  APIState = "online"
	Offline APIState = "offline"
)

// TempStore describes the temporary, single-document store.
type TempStore struct {
	Active       bool    `json:"active" yaml:"active"`
	ChunkCount   int     `json:"chunk_count" yaml:"chunk_count"`
	DocumentName *string `json:"document_name" yaml:"document_name"`
}

// Snapshot is the combined status shown to the user. Every field is always
// populated; counts are never negative.
type Snapshot struct {
	API               APIState  `json:"api_state" yaml:"api_state"`
	PermanentDocCount int       `json:"permanent_doc_count" yaml:"permanent_doc_count"`
	TempStore         TempStore `json:"temp_store" yaml:"temp_store"`
}

// Default is the snapshot used whenever the primary probe did not succeed.
func Default() Snapshot {
	return Snapshot{API: Offline}
}

// PrimaryStatus is the decoded health/status response.
type PrimaryStatus struct {
	Status          string
	DocumentsLoaded int
}

// TempStoreStatus is the decoded temp-store status response.
type TempStoreStatus struct {
	IsActive     bool
	ChunkCount   int
	DocumentName *string
}

// Probe is the result of one status call: a value, a failure, or a call
// that was never made.
type Probe[T any] struct {
	Value     T
	Err       error
	Attempted bool
}

// Succeeded wraps a successful probe value.
func Succeeded[T any](v T) Probe[T] {
	return Probe[T]{Value: v, Attempted: true}
}

// Failed wraps a probe failure.
func Failed[T any](err error) Probe[T] {
	return Probe[T]{Err: err, Attempted: true}
}

// NotAttempted is a probe that was skipped.
func NotAttempted[T any]() Probe[T] {
	return Probe[T]{}
}

// OK reports whether the probe ran and succeeded.
func (p Probe[T]) OK() bool {
	return p.Attempted && p.Err == nil
}

// Aggregate merges the two probe results. A failed primary probe yields the
// Offline defaults no matter what the secondary reported. A successful
// primary with a failed or skipped secondary is a partial success: Online,
// with the primary's document count and an inactive temp store.
func Aggregate(primary Probe[PrimaryStatus], secondary Probe[TempStoreStatus]) Snapshot {
	if !primary.OK() {
		return Default()
	}

	snap := Snapshot{
		API:               Online,
		PermanentDocCount: nonNegative(primary.Value.DocumentsLoaded),
	}
	if secondary.OK() {
		snap.TempStore = TempStore{
			Active:       secondary.Value.IsActive,
			ChunkCount:   nonNegative(secondary.Value.ChunkCount),
			DocumentName: secondary.Value.DocumentName,
		}
	}
	return snap
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// Cache holds the most recent snapshot for a session.
type Cache struct {
	mu   sync.RWMutex
	snap Snapshot
	at   time.Time
	ok   bool
}

// NewCache creates a cache holding the Offline defaults.
func NewCache() *Cache {
	return &Cache{snap: Default()}
}

// Store replaces the cached snapshot.
func (c *Cache) Store(s Snapshot, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap, c.at, c.ok = s, at, true
}

// Load returns the cached snapshot, when it was stored, and whether any
// refresh has completed yet.
func (c *Cache) Load() (Snapshot, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap, c.at, c.ok
}
