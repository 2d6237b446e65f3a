// Package metacache holds resolved video metadata between resolution and
// download. Entries are keyed by video id and overwritten on re-resolution;
// each write bumps the entry's generation so a job can detect that the
// variant ids it holds were invalidated underneath it.
package metacache

import (
	"errors"
	"sync"

	"github.com/dlpal/dlpal/internal/model"
)

// ErrStaleSelection is returned when a job's captured generation no longer
// matches the cached entry, i.e. the video was re-resolved mid-queue.
var ErrStaleSelection = errors.New("metacache: selection refers to a superseded resolution")

// Entry pairs cached metadata with the generation of the write that
// produced it.
type Entry struct {
	Meta       *model.VideoMetadata
	Generation uint64
}

// Store is the shared metadata store. Overwrite-on-set, last writer wins.
type Store interface {
	Get(videoID string) (Entry, bool)
	Set(videoID string, meta *model.VideoMetadata)
	Delete(videoID string)
	Clear()
	Len() int
}

// MemoryStore is the in-process Store implementation.
type MemoryStore struct {
	mu          sync.RWMutex
	entries     map[string]Entry
	generations map[string]uint64
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:     make(map[string]Entry),
		generations: make(map[string]uint64),
	}
}

// Get returns the current entry for a video id.
func (ms *MemoryStore) Get(videoID string) (Entry, bool) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	entry, ok := ms.entries[videoID]
	return entry, ok
}

// Set stores metadata for a video id, replacing any prior entry. The
// per-key generation survives Delete and Clear so stale captures can never
// collide with a later write.
func (ms *MemoryStore) Set(videoID string, meta *model.VideoMetadata) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.generations[videoID]++
	ms.entries[videoID] = Entry{Meta: meta, Generation: ms.generations[videoID]}
}

// Delete removes the entry for a video id.
func (ms *MemoryStore) Delete(videoID string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.entries, videoID)
}

// Clear removes every entry. This is the explicit reset action; entries are
// never evicted by time or use.
func (ms *MemoryStore) Clear() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.entries = make(map[string]Entry)
}

// Len returns the number of cached entries.
func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.entries)
}
