package statcache

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func summaryKey(collection string) string {
	return "ordermate:stats:" + collection
}

const allCollectionsKey = "ordermate:collections"

func (r *RedisStore) SetSummary(ctx context.Context, s *Summary) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	pipe := r.client.Pipeline()
	pipe.Set(ctx, summaryKey(s.Collection), data, 0)
	pipe.SAdd(ctx, allCollectionsKey, s.Collection)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisStore) GetSummary(ctx context.Context, collection string) (*Summary, error) {
	data, err := r.client.Get(ctx, summaryKey(collection)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s Summary
	return &s, json.Unmarshal(data, &s)
}

func (r *RedisStore) GetAllCollections(ctx context.Context) ([]string, error) {
	return r.client.SMembers(ctx, allCollectionsKey).Result()
}

func (r *RedisStore) RemoveCollection(ctx context.Context, collection string) error {
	pipe := r.client.Pipeline()
	pipe.Del(ctx, summaryKey(collection))
	pipe.SRem(ctx, allCollectionsKey, collection)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisStore) FlushAll(ctx context.Context) error {
	collections, err := r.GetAllCollections(ctx)
	if err != nil {
		return err
	}
	for _, c := range collections {
		r.RemoveCollection(ctx, c)
	}
	return r.client.Del(ctx, allCollectionsKey).Err()
}
