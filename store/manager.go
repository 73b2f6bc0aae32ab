package store

import (
	"sync"

	"github.com/golang/glog"

	"docmapper/errors"
)

// DefaultConnection is the logical name used when an entity type does not
// pick a connection explicitly.
const DefaultConnection = "default"

// Manager is a registry of named connections. It is the one piece of shared
// mutable state in the module and is safe for concurrent use.
type Manager struct {
	mu    sync.RWMutex
	conns map[string]Conn
}

// NewManager returns an empty connection registry.
func NewManager() *Manager {
	return &Manager{conns: map[string]Conn{}}
}

// Register adds (or replaces) the connection under the given logical name.
// An empty name registers the default connection.
func (m *Manager) Register(name string, conn Conn) {
	if name == "" {
		name = DefaultConnection
	}

	m.mu.Lock()
	m.conns[name] = conn
	m.mu.Unlock()

	glog.V(1).Infof("store: registered connection %q", name)
}

// Get resolves a logical connection name, falling back to the default
// connection when the name is empty or unregistered.
func (m *Manager) Get(name string) (Conn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if name != "" {
		if conn, ok := m.conns[name]; ok {
			return conn, nil
		}
	}
	if conn, ok := m.conns[DefaultConnection]; ok {
		return conn, nil
	}

	return nil, errors.Newf(ErrNoConnection, "no connection registered for %q and no default", name)
}

var defaultManager = NewManager()

// DefaultManager returns the process-wide connection registry.
func DefaultManager() *Manager {
	return defaultManager
}
