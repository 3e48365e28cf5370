package service

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/weftworks/garment-backoffice/internal/repository"
)

// liveTTL bounds how long a positive liveness answer may be served from
// Redis. Revocation deletes the key, so logout is effective immediately;
// the TTL only caps memory held for abandoned sessions.
const liveTTL = 5 * time.Minute

// Sessions answers token liveness questions. The tokens table is the
// authority; Redis fronts it as a cache-aside so hot sessions skip the
// database. RDB may be nil, in which case every check hits the database.
type Sessions struct {
	Tokens *repository.TokenRepo
	RDB    *redis.Client
}

func NewSessions(tokens *repository.TokenRepo, rdb *redis.Client) *Sessions {
	return &Sessions{Tokens: tokens, RDB: rdb}
}

func cacheKey(token string) string { return "session:" + token }

// Issue records a freshly signed token in the ledger.
func (s *Sessions) Issue(ctx context.Context, userID uint64, token string) error {
	return s.Tokens.Insert(ctx, userID, token)
}

// Live reports whether the raw token is still in the ledger.
func (s *Sessions) Live(ctx context.Context, token string) (bool, error) {
	if s.RDB != nil {
		if v, err := s.RDB.Get(ctx, cacheKey(token)).Result(); err == nil && v == "1" {
			return true, nil
		}
		// Cache miss or Redis failure: fall through to the database.
	}
	ok, err := s.Tokens.Exists(ctx, token)
	if err != nil {
		return false, err
	}
	if ok && s.RDB != nil {
		if err := s.RDB.Set(ctx, cacheKey(token), "1", liveTTL).Err(); err != nil {
			log.Printf("sessions: cache set failed: %v", err)
		}
	}
	return ok, nil
}

// Revoke removes the token from the ledger and drops its cache entry. The
// key is deleted on both sides of the row delete: a Live that read the row
// just before the delete can re-populate the cache after the first Del, and
// the second Del clears that. The race is inherent to cache-aside — a stale
// Set can still land after the second Del and hold for up to liveTTL; the
// double delete only narrows the window to Lives already past their DB read.
func (s *Sessions) Revoke(ctx context.Context, token string) error {
	if s.RDB != nil {
		if err := s.RDB.Del(ctx, cacheKey(token)).Err(); err != nil {
			log.Printf("sessions: cache del failed: %v", err)
		}
	}
	if err := s.Tokens.Delete(ctx, token); err != nil {
		return err
	}
	if s.RDB != nil {
		if err := s.RDB.Del(ctx, cacheKey(token)).Err(); err != nil {
			log.Printf("sessions: cache del failed: %v", err)
		}
	}
	return nil
}

// RevokeByID force-revokes a session by ledger row id (admin surface).
func (s *Sessions) RevokeByID(ctx context.Context, id uint64) error {
	t, err := s.Tokens.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.Revoke(ctx, t.Token)
}
