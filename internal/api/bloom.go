package api

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/redis/go-redis/v9"
)

// bloomPositions derives k bit positions from the data via FNV64a with an
// index perturbation byte. m should be a power of two for even spread; m and
// k trade false-positive rate against write cost for the dedup window.
func bloomPositions(data []byte, m uint32, k int) []int64 {
	pos := make([]int64, k)
	for i := 0; i < k; i++ {
		h := fnv.New64a()
		h.Write([]byte{byte(i)})
		h.Write(data)
		v := h.Sum64()
		p := uint32(v % uint64(m))
		pos[i] = int64(p)
	}
	return pos
}

// bloomCheckAndSet tests the bitmap and marks the value seen. Returns true
// for first-seen (bits written), false when all bits were already set. A nil
// client or a redis error degrades to "first seen" so the main flow is never
// blocked by the dedup path.
func bloomCheckAndSet(ctx context.Context, rc *redis.Client, key string, positions []int64, ttl time.Duration) (bool, error) {
	if rc == nil {
		return true, nil
	}
	seen := true
	for _, p := range positions {
		b, err := rc.GetBit(ctx, key, p).Result()
		if err != nil {
			return true, err
		}
		if b == 0 {
			seen = false
		}
	}
	if !seen {
		for _, p := range positions {
			_, _ = rc.SetBit(ctx, key, p, 1).Result()
		}
		_ = rc.Expire(ctx, key, ttl).Err()
		return true, nil
	}
	return false, nil
}
