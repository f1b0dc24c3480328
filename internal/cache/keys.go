package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	userKeyPrefix       = "user:%d"
	postKeyPrefix       = "post:%s"
	speciesListKey      = "species:all"
	breedsBySpeciesKey  = "breeds:%s"
	blogKeyPrefix       = "blog:%s"
	dashboardStatsKey   = "admin:dashboard:stats"
)

const (
	UserTTL           = 5 * time.Minute
	PostTTL           = 10 * time.Minute
	TaxonomyTTL       = 30 * time.Minute
	BlogTTL           = 15 * time.Minute
	DashboardStatsTTL = time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

func PostKey(slug string) string {
	return fmt.Sprintf(postKeyPrefix, slug)
}

func SpeciesListKey() string {
	return speciesListKey
}

func BreedsKey(speciesSlug string) string {
	return fmt.Sprintf(breedsBySpeciesKey, speciesSlug)
}

func BlogKey(slug string) string {
	return fmt.Sprintf(blogKeyPrefix, slug)
}

func DashboardStatsKey() string {
	return dashboardStatsKey
}

// GetJSON loads a cached value into out. Returns false on miss, cache
// disabled, or decode failure.
func GetJSON(ctx context.Context, key string, out interface{}) bool {
	if client == nil {
		return false
	}
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

// SetJSON stores a value under key with the given TTL. Failures are ignored;
// the cache is best-effort.
func SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	client.Set(ctx, key, raw, ttl)
}

// Aside implements the cache-aside pattern: serve from cache on hit, otherwise
// run load and populate the cache with the result.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, load func() error) error {
	if GetJSON(ctx, key, dest) {
		return nil
	}
	if err := load(); err != nil {
		return err
	}
	SetJSON(ctx, key, dest, ttl)
	return nil
}

func Invalidate(ctx context.Context, keys ...string) {
	if client == nil {
		return
	}
	for _, key := range keys {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, slug string) {
	Invalidate(ctx, PostKey(slug))
}

func InvalidateTaxonomy(ctx context.Context, speciesSlug string) {
	Invalidate(ctx, SpeciesListKey(), BreedsKey(speciesSlug))
}
