// Package session holds the anonymous pre-login cart in a cookie session.
package session

import (
	"context"
	"encoding/gob"
	"net/http"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/config"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/models"
	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const stagedCartKey = "cart"

func init() {
	gob.Register(models.StagedCart{})
}

// NewManager builds the cookie session manager. Session data is kept in Redis
// under cfg.KeyPrefix so staged carts survive restarts and are shared between
// replicas. A nil client falls back to the in-memory store.
func NewManager(cfg config.Session, client *redis.Client) *scs.SessionManager {
	sm := scs.New()
	if client != nil {
		sm.Store = goredisstore.NewWithPrefix(client, cfg.KeyPrefix)
	}
	sm.Lifetime = cfg.Lifetime
	sm.Cookie.Name = cfg.CookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = cfg.Secure

	return sm
}

// StagingCart reads and writes the staged product quantities of the current session.
// The request must have passed through the manager's LoadAndSave middleware.
type StagingCart struct {
	sessions *scs.SessionManager
}

func NewStagingCart(sessions *scs.SessionManager) *StagingCart {
	return &StagingCart{sessions: sessions}
}

// Staged returns a copy of the staged mapping. It is never nil.
func (s *StagingCart) Staged(ctx context.Context) models.StagedCart {
	staged, ok := s.sessions.Get(ctx, stagedCartKey).(models.StagedCart)
	out := make(models.StagedCart, len(staged))

	if ok {
		for id, qty := range staged {
			out[id] = qty
		}
	}

	return out
}

// Add accumulates quantity onto the staged line for productID. The line stops
// growing at models.MaxLineQuantity.
func (s *StagingCart) Add(ctx context.Context, productID uuid.UUID, quantity int) models.StagedCart {
	staged := s.Staged(ctx)

	key := productID.String()
	if quantity > models.MaxLineQuantity-staged[key] {
		staged[key] = models.MaxLineQuantity
	} else {
		staged[key] += quantity
	}

	s.sessions.Put(ctx, stagedCartKey, staged)

	return staged
}

func (s *StagingCart) Remove(ctx context.Context, productID uuid.UUID) {
	staged := s.Staged(ctx)
	if _, ok := staged[productID.String()]; !ok {
		return
	}

	delete(staged, productID.String())

	if len(staged) == 0 {
		s.sessions.Remove(ctx, stagedCartKey)
		return
	}

	s.sessions.Put(ctx, stagedCartKey, staged)
}

// Clear drops the staged mapping. Callers clear only after a successful merge.
func (s *StagingCart) Clear(ctx context.Context) {
	s.sessions.Remove(ctx, stagedCartKey)
}
