// Package storage provides the persistence port used by the list manager and
// the backends that implement it.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when nothing is stored under a key.
var ErrNotFound = errors.New("storage: key not found")

// Port persists opaque serialized documents under string keys.
type Port interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}

// Backend is a Port that owns resources.
type Backend interface {
	Port
	Close() error
}

// namespaced prefixes every key with a fixed namespace.
type namespaced struct {
	port   Port
	prefix string
}

// Namespace returns a Port that stores keys under "<ns>:<key>" in p.
func Namespace(p Port, ns string) Port {
	return &namespaced{port: p, prefix: ns + ":"}
}

func (n *namespaced) Load(ctx context.Context, key string) ([]byte, error) {
	return n.port.Load(ctx, n.prefix+key)
}

func (n *namespaced) Save(ctx context.Context, key string, value []byte) error {
	return n.port.Save(ctx, n.prefix+key, value)
}

// ProfileNamespace is the key namespace of a profile.
func ProfileNamespace(profileID string) string {
	return "profile:" + profileID
}
