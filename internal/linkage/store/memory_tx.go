package store

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"

	"orglink/pkg/platform/tx"
)

// numShards spreads subjects over independent locks so unrelated subjects
// link concurrently.
const numShards = 128

// ShardedTx serializes work per subject over an InMemoryLinkageStore. Writes
// to the keyed subject are staged and become visible to readers in one swap
// when the callback succeeds; a failed callback discards them.
type ShardedTx struct {
	shards  [numShards]sync.Mutex
	store   *InMemoryLinkageStore
	timeout time.Duration
}

// NewShardedTx wraps store.
func NewShardedTx(store *InMemoryLinkageStore) *ShardedTx {
	return &ShardedTx{store: store, timeout: tx.DefaultTimeout}
}

// RunInTx locks the shard for the subject named by tx.ShardKey(ctx). Without
// a subject key, shard 0 is used and writes go straight to the store.
func (t *ShardedTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	key := tx.ShardKey(ctx)
	mu := &t.shards[shardFor(key)]
	mu.Lock()
	defer mu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}

	subjectID, parseErr := uuid.Parse(key)
	if parseErr != nil {
		return fn(ctx)
	}
	stagedCtx, staged := t.store.stage(ctx, subjectID)
	if err := fn(stagedCtx); err != nil {
		return err
	}
	t.store.publish(staged)
	return nil
}

func shardFor(key string) int {
	if key == "" {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % numShards)
}
