// Package redisclient provides Redis key pattern definitions for the mall directory API.
package redisclient

import "fmt"

// RedisPrefix is the prefix for all Redis keys in the mall directory API
const RedisPrefix = "mall:"

// FloorSlotsKey returns the Redis key for the cached slot list of a floor
func FloorSlotsKey(etageID string) string {
	return fmt.Sprintf("%setage:%s:emplacements", RedisPrefix, etageID)
}

// SlotLockKey returns the Redis key for the accept lock on a slot
func SlotLockKey(emplacementID string) string {
	return fmt.Sprintf("%slock:emplacement:%s", RedisPrefix, emplacementID)
}
