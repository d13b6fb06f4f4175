package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// fileExtension is the extension of cache entry files.
const fileExtension = ".json"

// Cache errors.
var (
	ErrNotFound   = errors.New("cache entry not found")
	ErrExpired    = errors.New("cache entry expired")
	ErrInvalidKey = errors.New("cache key cannot be empty")
	ErrDisabled   = errors.New("cache is disabled")
)

// FileStore keeps entries as JSON files in one directory. It is safe for
// concurrent use within a process.
type FileStore struct {
	directory  string
	enabled    bool
	ttlSeconds int

	mu sync.RWMutex
}

// NewFileStore creates a store in directory, creating it when needed. A
// disabled store touches nothing on disk and returns ErrDisabled from
// every operation.
func NewFileStore(directory string, enabled bool, ttlSeconds int) (*FileStore, error) {
	if !enabled {
		return &FileStore{}, nil
	}
	if directory == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if err := os.MkdirAll(directory, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileStore{
		directory:  directory,
		enabled:    true,
		ttlSeconds: ttlSeconds,
	}, nil
}

// GenerateKey hashes parts into a deterministic cache key.
func GenerateKey(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:])
}

// Get returns the entry stored under key. Expired entries are removed and
// reported as ErrExpired.
func (s *FileStore) Get(key string) (*Entry, error) {
	if !s.enabled {
		return nil, ErrDisabled
	}
	if key == "" {
		return nil, ErrInvalidKey
	}

	filePath := s.keyToFilePath(key)
	s.mu.RLock()
	data, err := os.ReadFile(filePath)
	s.mu.RUnlock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var entry Entry
	if err = json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}
	if entry.IsExpired() {
		s.mu.Lock()
		_ = os.Remove(filePath)
		s.mu.Unlock()
		return nil, ErrExpired
	}
	return &entry, nil
}

// Set stores data under key, replacing any previous entry. The file is
// written to a temporary name and renamed into place.
func (s *FileStore) Set(key, source string, data json.RawMessage) error {
	if !s.enabled {
		return ErrDisabled
	}
	if key == "" {
		return ErrInvalidKey
	}

	entryData, err := json.MarshalIndent(NewEntry(key, source, data, s.ttlSeconds), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := s.keyToFilePath(key)
	tempPath := filePath + ".tmp"
	if err = os.WriteFile(tempPath, entryData, 0o600); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err = os.Rename(tempPath, filePath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename cache file: %w", err)
	}
	return nil
}

// Delete removes the entry under key. Deleting a missing entry is not an
// error.
func (s *FileStore) Delete(key string) error {
	if !s.enabled {
		return ErrDisabled
	}
	if key == "" {
		return ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.keyToFilePath(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete cache file: %w", err)
	}
	return nil
}

// Clear removes every entry and returns how many were removed.
func (s *FileStore) Clear() (int, error) {
	return s.removeWhere(func(string) bool { return true })
}

// CleanupExpired removes expired and unreadable entries and returns how
// many were removed.
func (s *FileStore) CleanupExpired() (int, error) {
	return s.removeWhere(func(path string) bool {
		data, err := os.ReadFile(path)
		if err != nil {
			return false
		}
		var entry Entry
		if err = json.Unmarshal(data, &entry); err != nil {
			return true
		}
		return entry.IsExpired()
	})
}

func (s *FileStore) removeWhere(match func(path string) bool) (int, error) {
	if !s.enabled {
		return 0, ErrDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.entryFiles()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, path := range files {
		if !match(path) {
			continue
		}
		if err = os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, fmt.Errorf("failed to remove cache file %s: %w", filepath.Base(path), err)
		}
		removed++
	}
	return removed, nil
}

// Stats describes the contents of a store.
type Stats struct {
	Entries int   `json:"entries"`
	Bytes   int64 `json:"bytes"`
}

// Stats counts entries, expired ones included, and their size on disk.
func (s *FileStore) Stats() (Stats, error) {
	if !s.enabled {
		return Stats{}, ErrDisabled
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.entryFiles()
	if err != nil {
		return Stats{}, err
	}
	var st Stats
	for _, path := range files {
		info, statErr := os.Stat(path)
		if statErr != nil {
			continue
		}
		st.Entries++
		st.Bytes += info.Size()
	}
	return st, nil
}

func (s *FileStore) entryFiles() ([]string, error) {
	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != fileExtension {
			continue
		}
		files = append(files, filepath.Join(s.directory, e.Name()))
	}
	return files, nil
}

// IsEnabled reports whether the store caches anything.
func (s *FileStore) IsEnabled() bool {
	return s.enabled
}

// Directory returns the cache directory.
func (s *FileStore) Directory() string {
	return s.directory
}

// TTL returns the TTL in seconds given to new entries.
func (s *FileStore) TTL() int {
	return s.ttlSeconds
}

// keyToFilePath maps a key to a file name safe on every platform.
func (s *FileStore) keyToFilePath(key string) string {
	safeKey := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(key)
	return filepath.Join(s.directory, safeKey+fileExtension)
}
