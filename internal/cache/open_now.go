// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// openNowKey holds the ids of visible listings open right now.
const openNowKey = "open_now"

// OpenNowIndex is the Valkey set of currently open listings, rebuilt by the
// open-now worker every minute.
type OpenNowIndex struct {
	client *redis.Client
}

// NewOpenNowIndex returns an index backed by client.
func NewOpenNowIndex(client *redis.Client) *OpenNowIndex {
	return &OpenNowIndex{client: client}
}

// Replace swaps the set contents for ids in one MULTI, so readers never see
// a half-built index.
func (ix *OpenNowIndex) Replace(ctx context.Context, ids []uuid.UUID) error {
	members := make([]any, 0, len(ids))
	for _, id := range ids {
		members = append(members, id.String())
	}
	_, err := ix.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, openNowKey)
		if len(members) > 0 {
			pipe.SAdd(ctx, openNowKey, members...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace open-now index: %w", err)
	}
	return nil
}

// Members returns the ids in the index.
func (ix *OpenNowIndex) Members(ctx context.Context) (map[uuid.UUID]bool, error) {
	raw, err := ix.client.SMembers(ctx, openNowKey).Result()
	if err != nil {
		return nil, fmt.Errorf("read open-now index: %w", err)
	}
	out := make(map[uuid.UUID]bool, len(raw))
	for _, s := range raw {
		if id, err := uuid.Parse(s); err == nil {
			out[id] = true
		}
	}
	return out, nil
}

// Contains reports whether id is in the index.
func (ix *OpenNowIndex) Contains(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := ix.client.SIsMember(ctx, openNowKey, id.String()).Result()
	if err != nil {
		return false, fmt.Errorf("check open-now index: %w", err)
	}
	return ok, nil
}
