package storage

import "errors"

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("key not found")

// ErrNotInitialized is returned by Load when the backing storage was never
// created.
var ErrNotInitialized = errors.New("storage not initialized")

// ErrNotLoaded is returned when a provider is used before Init or Load.
var ErrNotLoaded = errors.New("storage not loaded")

// Provider is a small key-value store holding JSON documents.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Entries
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Keys() ([]string, error)

	// Utils
	GetConfigPath() string
}

// FileBacked is implemented by providers whose data lives in a single local
// file that can be snapshotted, watched and locked.
type FileBacked interface {
	DataFile() string
}
