// File: utils/host_session.go
package utils

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const hostSessionPrefix = "hostSession:"

// SessionTTL is how long a dashboard session stays valid without re-signing in.
const SessionTTL = 24 * time.Hour

// SaveHostSession records an active dashboard session keyed by the hashed
// session token, so sign-out can revoke it before the JWT itself expires.
func SaveHostSession(client *redis.Client, tokenHash, hostOID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Set(ctx, hostSessionPrefix+tokenHash, hostOID, SessionTTL).Err()
}

// GetHostSession returns the host OID for an active session, or redis.Nil if
// the session was revoked or expired.
func GetHostSession(client *redis.Client, tokenHash string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Get(ctx, hostSessionPrefix+tokenHash).Result()
}

// DeleteHostSession revokes a session.
func DeleteHostSession(client *redis.Client, tokenHash string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Del(ctx, hostSessionPrefix+tokenHash).Err()
}
