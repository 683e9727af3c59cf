// Package memory implements the durable key-value store used to avoid
// re-prompting the operator for previously resolved parameters. Values live
// in an in-process cache mirrored by a single JSON file on disk; the file is
// fully rewritten on every mutation via temp-file-then-rename so a crash can
// never leave a partial write behind.
package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	contractx "github.com/leadpilot-ai/leadpilot/agent/contract"
)

// Source tells a caller where a recalled value came from.
type Source string

const (
	SourceCache   Source = "cache"
	SourceDisk    Source = "disk"
	SourceDefault Source = "default"
)

// Record is the result of a Remember or Recall call.
type Record struct {
	Key    string `json:"key"`
	Value  any    `json:"value"`
	Source Source `json:"source"`
}

// Store is the persistence contract consumed by the interaction gate and
// the lead orchestrator.
type Store interface {
	Remember(key string, value any) (Record, error)
	Recall(key string) (Record, error)
	RecallDefault(key string, def any) (Record, error)
	Clear() error
}

// FileStore is the file-backed Store. Safe for use from a single process;
// concurrent processes sharing one file are out of scope.
type FileStore struct {
	mu    sync.Mutex
	path  string
	cache map[string]any
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store persisting to path. The file and its parent
// directory are created lazily on first write.
func NewFileStore(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: memory file path is empty", contractx.ErrValidation)
	}
	return &FileStore{
		path:  path,
		cache: make(map[string]any, 8),
	}, nil
}

// Remember stores value under key in the cache and rewrites the on-disk
// mapping. The cache write happens first so in-process state stays coherent
// even when persistence fails; a disk failure is still reported so callers
// know durability is not guaranteed.
func (s *FileStore) Remember(key string, value any) (Record, error) {
	if strings.TrimSpace(key) == "" {
		return Record{}, fmt.Errorf("%w: memory key is empty", contractx.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache[key] = value

	disk := s.loadDisk()
	disk[key] = value
	if err := s.writeDisk(disk); err != nil {
		log.Error().Err(err).Str("key", key).Msg("memory: persist failed, value kept in cache only")
		return Record{Key: key, Value: value, Source: SourceCache}, fmt.Errorf("%w: persist %q: %v", contractx.ErrIO, key, err)
	}

	log.Debug().Str("key", key).Msg("memory: value stored")
	return Record{Key: key, Value: value, Source: SourceCache}, nil
}

// Recall looks key up in the cache first, then in the on-disk mapping
// (populating the cache on a disk hit). A total miss returns ErrNotFound.
func (s *FileStore) Recall(key string) (Record, error) {
	if strings.TrimSpace(key) == "" {
		return Record{}, fmt.Errorf("%w: memory key is empty", contractx.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.cache[key]; ok {
		return Record{Key: key, Value: v, Source: SourceCache}, nil
	}

	disk := s.loadDisk()
	if v, ok := disk[key]; ok {
		s.cache[key] = v
		log.Debug().Str("key", key).Msg("memory: value recalled from disk")
		return Record{Key: key, Value: v, Source: SourceDisk}, nil
	}

	return Record{}, fmt.Errorf("%w: %s", contractx.ErrNotFound, key)
}

// RecallDefault is Recall with a fallback value; it never fails on a miss.
func (s *FileStore) RecallDefault(key string, def any) (Record, error) {
	rec, err := s.Recall(key)
	if err == nil {
		return rec, nil
	}
	if errors.Is(err, contractx.ErrNotFound) {
		return Record{Key: key, Value: def, Source: SourceDefault}, nil
	}
	return Record{}, err
}

// Clear resets the cache and overwrites the on-disk file with an empty
// mapping. The cache is cleared even when the disk write fails.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache = make(map[string]any, 8)
	if err := s.writeDisk(map[string]any{}); err != nil {
		return fmt.Errorf("%w: clear memory file: %v", contractx.ErrIO, err)
	}
	log.Info().Msg("memory: cleared")
	return nil
}

// loadDisk reads the full on-disk mapping. Unreadable or corrupt files are
// treated as empty; the next successful write replaces them.
func (s *FileStore) loadDisk() map[string]any {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", s.path).Msg("memory: read failed, treating as empty")
		}
		return map[string]any{}
	}

	disk := map[string]any{}
	if err := json.Unmarshal(raw, &disk); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("memory: corrupt file, treating as empty")
		return map[string]any{}
	}
	return disk
}

func (s *FileStore) writeDisk(disk map[string]any) error {
	payload, err := json.MarshalIndent(disk, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal memory mapping: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create memory dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".memory-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
