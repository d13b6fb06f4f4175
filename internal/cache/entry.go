package cache

import (
	"encoding/json"
	"errors"
	"time"
)

// Entry is one cached value with its expiration metadata.
type Entry struct {
	// Key is the SHA256 key the entry is stored under.
	Key string `json:"key"`

	// Data is the cached value.
	Data json.RawMessage `json:"data"`

	// Source describes what was cached, for humans reading the file.
	Source string `json:"source,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`

	// TTLSeconds is the time-to-live the entry was written with.
	TTLSeconds int `json:"ttl_seconds"`
}

// NewEntry creates an entry expiring ttlSeconds from now.
func NewEntry(key, source string, data json.RawMessage, ttlSeconds int) *Entry {
	now := time.Now()
	return &Entry{
		Key:        key,
		Data:       data,
		Source:     source,
		CreatedAt:  now,
		ExpiresAt:  now.Add(time.Duration(ttlSeconds) * time.Second),
		TTLSeconds: ttlSeconds,
	}
}

// IsExpired reports whether the entry is past its expiration time.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.ExpiresAt)
}

// Age returns the duration since the entry was created.
func (e *Entry) Age() time.Duration {
	return time.Since(e.CreatedAt)
}

// TimeUntilExpiration returns the remaining lifetime, or 0 once expired.
func (e *Entry) TimeUntilExpiration() time.Duration {
	remaining := time.Until(e.ExpiresAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// MarshalJSON writes times as RFC3339.
func (e *Entry) MarshalJSON() ([]byte, error) {
	type Alias Entry
	return json.Marshal(&struct {
		*Alias

		CreatedAt string `json:"created_at"`
		ExpiresAt string `json:"expires_at"`
	}{
		Alias:     (*Alias)(e),
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
		ExpiresAt: e.ExpiresAt.Format(time.RFC3339),
	})
}

// UnmarshalJSON parses RFC3339 times.
func (e *Entry) UnmarshalJSON(data []byte) error {
	if e == nil {
		return errors.New("cannot unmarshal into nil Entry")
	}
	type Alias Entry
	aux := &struct {
		*Alias

		CreatedAt string `json:"created_at"`
		ExpiresAt string `json:"expires_at"`
	}{
		Alias: (*Alias)(e),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	if e.CreatedAt, err = time.Parse(time.RFC3339, aux.CreatedAt); err != nil {
		return err
	}
	e.ExpiresAt, err = time.Parse(time.RFC3339, aux.ExpiresAt)
	return err
}
