package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Accept lock TTL. If the process crashes mid-accept the lock expires
// on its own; the conditional occupy inside the transaction remains the
// real guard.
const slotLockTTL = 30 * time.Second

// Lua script for safe lock release: delete only if we still own it.
const releaseLockScript = `
if redis.call('GET', KEYS[1]) == ARGV[1] then
    return redis.call('DEL', KEYS[1])
end
return 0
`

// acquireSlotLock takes a best-effort exclusive lock for accepting a
// request on the given key. Returns the owner token and whether the
// lock was acquired. A Redis error yields ("", false, err); callers fall
// through rather than failing the accept.
func acquireSlotLock(ctx context.Context, client *redis.Client, key string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := client.SetNX(ctx, key, token, slotLockTTL).Result()
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

// releaseSlotLock releases the lock if the token still owns it.
func releaseSlotLock(ctx context.Context, client *redis.Client, key, token string) error {
	return client.Eval(ctx, releaseLockScript, []string{key}, token).Err()
}
