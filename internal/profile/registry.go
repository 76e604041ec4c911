package profile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"farmer-portal/internal/models"
	"farmer-portal/internal/store"
	"farmer-portal/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned for unknown or foreign session ids.
var ErrSessionNotFound = errors.New("edit session not found")

// FarmerLoader loads the farmer record a session edits.
type FarmerLoader interface {
	GetFarmerByID(ctx context.Context, id string) (*models.Farmer, error)
}

type entry struct {
	owner    string
	session  *Session
	lastSeen time.Time
}

// Registry holds the open edit sessions.
type Registry struct {
	mu        sync.Mutex
	sessions  map[string]entry
	loader    FarmerLoader
	updater   Updater
	refresher Refresher
	opts      Options
	logger    *zap.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(loader FarmerLoader, updater Updater, refresher Refresher, opts Options) *Registry {
	return &Registry{
		sessions:  make(map[string]entry),
		loader:    loader,
		updater:   updater,
		refresher: refresher,
		opts:      opts,
		logger:    util.GetLogger(),
	}
}

// Open loads the owner's farmer record and starts a session for it. A
// missing record yields a session without identity.
func (r *Registry) Open(ctx context.Context, owner string) (string, *Session, error) {
	var profile *models.FarmerProfile

	farmer, err := r.loader.GetFarmerByID(ctx, owner)
	switch {
	case err == nil:
		p := farmer.Profile()
		profile = &p
	case errors.Is(err, store.ErrNotFound):
		r.logger.Warn("Opening edit session without farmer record", zap.String("owner", owner))
	default:
		return "", nil, fmt.Errorf("failed to load farmer: %w", err)
	}

	id := uuid.New().String()
	session := NewSession(profile, r.updater, r.refresher, r.opts)

	r.mu.Lock()
	r.sessions[id] = entry{owner: owner, session: session, lastSeen: time.Now()}
	r.mu.Unlock()

	return id, session, nil
}

// Get returns the session id if owner opened it.
func (r *Registry) Get(id, owner string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok || e.owner != owner {
		return nil, ErrSessionNotFound
	}
	e.lastSeen = time.Now()
	r.sessions[id] = e
	return e.session, nil
}

// Close discards the session.
func (r *Registry) Close(id, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok || e.owner != owner {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes sessions not touched for longer than maxIdle and returns how
// many were closed.
func (r *Registry) Sweep(now time.Time, maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	closed := 0
	for id, e := range r.sessions {
		if now.Sub(e.lastSeen) > maxIdle {
			delete(r.sessions, id)
			closed++
		}
	}
	if closed > 0 {
		r.logger.Debug("Swept idle edit sessions", zap.Int("count", closed))
	}
	return closed
}
