package services

import (
	"billkhata-backend/database"
	"billkhata-backend/settlement"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

const settlementCacheTTL = 10 * time.Minute

// SettlementCacheKey builds the cache key for one computed settlement.
// Member filter is part of the key so "All Members" and single-member
// views cache independently.
func SettlementCacheKey(khataID uuid.UUID, period settlement.Period, member uuid.UUID) string {
	return fmt.Sprintf("settlement:%s:%d:%d:%s", khataID, period.Start.Unix(), period.End.Unix(), member)
}

func khataKeySet(khataID uuid.UUID) string {
	return "settlement_keys:" + khataID.String()
}

// GetCachedSettlement returns a previously computed settlement, if any.
func GetCachedSettlement(key string) (*settlement.Result, bool) {
	if database.Redis == nil {
		return nil, false
	}

	data, err := database.Redis.Get(context.Background(), key).Bytes()
	if err != nil {
		return nil, false
	}

	var result settlement.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false
	}
	return &result, true
}

// CacheSettlement stores a computed settlement and remembers its key so
// the whole khata can be invalidated on any relevant write.
func CacheSettlement(khataID uuid.UUID, key string, result settlement.Result) {
	if database.Redis == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		return
	}

	ctx := context.Background()
	database.Redis.Set(ctx, key, data, settlementCacheTTL)
	database.Redis.SAdd(ctx, khataKeySet(khataID), key)
	database.Redis.Expire(ctx, khataKeySet(khataID), settlementCacheTTL)
}

// InvalidateSettlementCache drops every cached settlement for a khata.
// Called after any bill, meal, expense or deposit write.
func InvalidateSettlementCache(khataID uuid.UUID) {
	if database.Redis == nil {
		return
	}

	ctx := context.Background()
	keys, err := database.Redis.SMembers(ctx, khataKeySet(khataID)).Result()
	if err != nil {
		log.Printf("⚠️  Failed to list settlement cache keys: %v", err)
		return
	}

	if len(keys) > 0 {
		database.Redis.Del(ctx, keys...)
	}
	database.Redis.Del(ctx, khataKeySet(khataID))
}
