// Package storage provides the key-value store backing a JSON-RPC
// context's local state (wallet sync cache, seen transactions). Values
// holding secrets go through the Secure wrapper.
package storage

import "errors"

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("key not found")

// DB is the interface for key-value storage.
type DB interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Has(key []byte) (bool, error)
	Close() error
}
