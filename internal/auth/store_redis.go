// Copyright (c) 2026 Push-It. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pushit/pushit/internal/platform/constants"
)

// RedisResetTokenConsumer implements ResetTokenConsumer using Redis.
//
// The reset token itself is a signed, self-contained claim; Redis only holds
// a small consumption marker per token id so a token cannot be replayed
// within its validity window. The marker carries a TTL and cleans itself up.
type RedisResetTokenConsumer struct {
	client *redis.Client
}

// NewResetTokenConsumer creates a new Redis-backed ResetTokenConsumer.
func NewResetTokenConsumer(client *redis.Client) *RedisResetTokenConsumer {
	return &RedisResetTokenConsumer{client: client}
}

/*
Consume marks the token issuance as used.

Description: SETNX semantics; the first caller wins, every later caller for
the same token id observes "already used".

Parameters:
  - context: context.Context
  - tokenID: the jti claim of the reset token
  - ttl: how long to remember the marker

Returns:
  - bool: true if this call spent the token
  - error: Storage failures
*/
func (consumer *RedisResetTokenConsumer) Consume(context context.Context, tokenID string, ttl time.Duration) (bool, error) {
	key := constants.RedisPrefixResetUsed + tokenID

	wasSet, err := consumer.client.SetNX(context, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis_reset_consume_failed: %w", err)
	}

	return wasSet, nil
}
