// Package session resolves returning subscribers to their subscription
// profile and keeps the approval status of active sessions fresh. A session
// is restored from the local cache when possible and otherwise recovered from
// the record store by contact-field match; there is no credential login.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/nyeemonkham-stack/rta-library-webapp/internal/cache"
	"github.com/nyeemonkham-stack/rta-library-webapp/internal/models"
	"github.com/nyeemonkham-stack/rta-library-webapp/internal/repository"
)

// ErrNotFound is the single lookup-failure outcome of ResolveByContact.
// Callers get no signal whether zero or several records matched.
var ErrNotFound = errors.New("no matching subscription")

// ErrNoSession is returned by Restore when nothing is cached.
var ErrNoSession = errors.New("no cached session")

// RecordStore is the remote-store surface the resolver needs.
type RecordStore interface {
	FindByContact(ctx context.Context, email, phone string) (*models.SubscriptionProfile, error)
	LatestByEmail(ctx context.Context, email string) (*models.SubscriptionProfile, error)
}

// ProfileCache is the local-cache surface the resolver needs.
type ProfileCache interface {
	Save(ctx context.Context, p *models.SubscriptionProfile) error
	Load(ctx context.Context, id string) (*models.SubscriptionProfile, error)
	Delete(ctx context.Context, id string) error
	SessionIDs(ctx context.Context) ([]string, error)
}

// Resolver owns the current-session profile lifecycle:
// create on submit/login, mutate on status refresh, clear on logout.
type Resolver struct {
	store RecordStore
	cache ProfileCache
}

func NewResolver(store RecordStore, cache ProfileCache) *Resolver {
	return &Resolver{store: store, cache: cache}
}

// Restore loads the cached profile for an existing session without touching
// the record store.
func (r *Resolver) Restore(ctx context.Context, id string) (*models.SubscriptionProfile, error) {
	p, err := r.cache.Load(ctx, id)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("restore session: %w", err)
	}
	return p, nil
}

// ResolveByContact recovers a subscription for a returning user with no local
// cache. Exactly one record must match both fields; anything else is
// ErrNotFound. On success the profile is cached as the active session.
func (r *Resolver) ResolveByContact(ctx context.Context, email, phone string) (*models.SubscriptionProfile, error) {
	p, err := r.store.FindByContact(ctx, email, phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("resolve by contact: %w", err)
	}

	if err := r.cache.Save(ctx, p); err != nil {
		// the session still works off the resolved profile; the cache copy
		// is only a restart convenience
		log.Printf("[SessionResolver] Failed to cache session %s: %v", p.ID, err)
	}
	return p, nil
}

// RefreshStatus re-reads the subscriber's most recent record and applies its
// approval status to the in-memory profile. Only the status field is
// refreshed. A missing record (submission write not landed yet) is a
// harmless no-op that keeps the last known status.
func (r *Resolver) RefreshStatus(ctx context.Context, p *models.SubscriptionProfile) (string, error) {
	latest, err := r.store.LatestByEmail(ctx, p.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return p.ApprovalStatus, nil
		}
		return p.ApprovalStatus, fmt.Errorf("refresh status: %w", err)
	}

	if latest.ApprovalStatus != p.ApprovalStatus {
		log.Printf("[SessionResolver] Status change for %s: %s -> %s", p.ID, p.ApprovalStatus, latest.ApprovalStatus)
		p.ApprovalStatus = latest.ApprovalStatus
		if err := r.cache.Save(ctx, p); err != nil {
			log.Printf("[SessionResolver] Failed to cache refreshed session %s: %v", p.ID, err)
		}
	}
	return p.ApprovalStatus, nil
}

// Logout clears the cached session. The remote record is untouched.
func (r *Resolver) Logout(ctx context.Context, id string) error {
	if err := r.cache.Delete(ctx, id); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
