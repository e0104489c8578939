package services

import (
	"context"
	"sync"
)

// Params are the validated connection parameters of a session. Bucket
// addressing is always path-style.
type Params struct {
	Endpoint  string `json:"endpoint"`
	AccessKey string `json:"accessKey"`
	SecretKey string `json:"secretKey"`
	Region    string `json:"region,omitempty"`
	UseSSL    bool   `json:"useSSL"`
}

// Session pairs connection parameters with a validated client handle. It is
// immutable once created; reconnecting produces a new Session.
type Session struct {
	params Params
	store  StoreClient
	admin  AdminClient // nil when the admin API is unavailable
}

// Params returns the parameters the session was created with.
func (s *Session) Params() Params {
	return s.params
}

// Store returns the client handle. Shared read-only by all components.
func (s *Session) Store() StoreClient {
	return s.store
}

// Admin returns the admin client, or nil when unavailable.
func (s *Session) Admin() AdminClient {
	return s.admin
}

// Connect builds a client for params and validates it with a lightweight
// bucket-listing probe. The probe failure is classified so callers can tell
// an unreachable endpoint from rejected credentials. No retries are
// performed; every retry is a fresh user action.
func Connect(ctx context.Context, factory StoreFactory, params Params) (*Session, error) {
	store, err := factory.NewClient(params)
	if err != nil {
		return nil, wrapErr(KindConnectionNetwork, "invalid connection parameters", err)
	}

	if _, err := store.ListBuckets(ctx); err != nil {
		return nil, classifyConnectionErr(err)
	}

	// Admin access is optional; a plain S3 store simply has none.
	admin, err := factory.NewAdminClient(params)
	if err != nil {
		admin = nil
	}

	return &Session{params: params, store: store, admin: admin}, nil
}

// Manager owns the single live session. Connect replaces the previous
// session wholesale; Disconnect drops the handle. In-flight operations
// holding the old handle run to completion and their results are discarded
// by staleness checks.
type Manager struct {
	mu      sync.Mutex
	current *Session
}

func NewManager() *Manager {
	return &Manager{}
}

// Current returns the live session, or nil when disconnected.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Connect validates params and installs the resulting session as the live
// one, replacing any previous session.
func (m *Manager) Connect(ctx context.Context, factory StoreFactory, params Params) (*Session, error) {
	sess, err := Connect(ctx, factory, params)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.current = sess
	m.mu.Unlock()
	return sess, nil
}

// Disconnect is pure local teardown: the handle is discarded and nothing is
// cancelled.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
}

// IsLive reports whether sess is still the live session. Callers use it to
// discard results that settled after a disconnect or reconnect.
func (m *Manager) IsLive(sess *Session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sess != nil && m.current == sess
}
