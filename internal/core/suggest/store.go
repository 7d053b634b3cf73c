package suggest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"smoothie-catalog/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// cacheFileVersion is the schema version of the cache documents.
const cacheFileVersion = 1

// Item is one sanitized image search result.
type Item struct {
	URL      string `json:"url"`
	ThumbURL string `json:"thumbUrl,omitempty"`
	Provider string `json:"provider"`
	Author   string `json:"author,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// Entry is one immutable cache entry. A lookup either returns a live entry
// unmodified or the entry is replaced outright; entries are never merged.
type Entry struct {
	Key       string    `json:"key"`
	Query     string    `json:"query"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	Providers []string  `json:"providers"`
	Items     []Item    `json:"items"`
}

// cacheFile is the on-disk document shared by the seed and runtime files.
type cacheFile struct {
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
	Entries   []Entry   `json:"entries"`
}

// Store is the durable image suggestion cache. It loads a read-only seed
// file and a writable runtime file into one in-memory index (runtime wins
// on key collisions) and persists the index back to the runtime file with
// a temp-file-then-rename write. Persist calls are coalesced: a write
// already in flight is shared, never duplicated.
type Store struct {
	path     string
	seedPath string

	mu      sync.RWMutex
	entries map[string]Entry

	persistGroup singleflight.Group
}

// NewStore creates a store and loads both cache layers. Missing or corrupt
// files contribute zero entries and are never an error.
func NewStore(path, seedPath string) *Store {
	s := &Store{
		path:     path,
		seedPath: seedPath,
		entries:  make(map[string]Entry),
	}
	s.loadFile(seedPath, "seed")
	s.loadFile(path, "runtime")

	common.LogInfo("image cache loaded",
		zap.String("path", path),
		zap.String("seed_path", seedPath),
		zap.Int("entries", len(s.entries)),
	)
	return s
}

// loadFile merges one cache layer into the index. Entries failing schema
// validation or already expired are silently discarded.
func (s *Store) loadFile(path, layer string) {
	if path == "" {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			common.LogWarn("failed to read image cache file",
				zap.String("layer", layer),
				zap.String("path", path),
				zap.Error(err),
			)
		}
		return
	}

	var doc cacheFile
	if err := json.Unmarshal(data, &doc); err != nil {
		common.LogWarn("image cache file is corrupt, ignoring",
			zap.String("layer", layer),
			zap.String("path", path),
			zap.Error(err),
		)
		return
	}
	if doc.Version != cacheFileVersion {
		common.LogWarn("image cache file has unknown version, ignoring",
			zap.String("layer", layer),
			zap.Int("version", doc.Version),
		)
		return
	}

	now := time.Now()
	for _, entry := range doc.Entries {
		if entry.Key == "" || entry.Query == "" {
			continue
		}
		if !entry.ExpiresAt.After(now) {
			continue
		}
		s.entries[entry.Key] = entry
	}
}

// Get returns the live entry for key, if any.
func (s *Store) Get(key string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok {
		return Entry{}, false
	}
	if !entry.ExpiresAt.After(time.Now()) {
		return Entry{}, false
	}
	return entry, true
}

// Put replaces the entry for its key. The in-memory index reflects the new
// entry immediately; durability is handled by a separate persist call.
func (s *Store) Put(entry Entry) {
	s.mu.Lock()
	s.entries[entry.Key] = entry
	s.mu.Unlock()
}

// Len returns the number of indexed entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Persist writes the full index to the runtime file. Concurrent callers
// share a single in-flight write.
func (s *Store) Persist() error {
	_, err, _ := s.persistGroup.Do("persist", func() (interface{}, error) {
		return nil, s.writeFile()
	})
	return err
}

// PersistAsync persists in the background. Write failures are logged and
// swallowed; the in-memory index stays authoritative for the process.
func (s *Store) PersistAsync() {
	go func() {
		if err := s.Persist(); err != nil {
			common.LogWarn("image cache persist failed",
				zap.String("path", s.path),
				zap.Error(err),
			)
		}
	}()
}

// writeFile snapshots the index and atomically replaces the runtime file.
func (s *Store) writeFile() error {
	s.mu.RLock()
	doc := cacheFile{
		Version:   cacheFileVersion,
		UpdatedAt: time.Now().UTC(),
		Entries:   make([]Entry, 0, len(s.entries)),
	}
	for _, entry := range s.entries {
		doc.Entries = append(doc.Entries, entry)
	}
	s.mu.RUnlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal image cache: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	// temp file + rename so a crash mid-write cannot corrupt the store
	tmp := fmt.Sprintf("%s.tmp-%s", s.path, common.GenerateUUID())
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp cache file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace cache file: %w", err)
	}
	return nil
}
