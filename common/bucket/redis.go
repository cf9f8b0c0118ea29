package bucket

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	rediscommon "github.com/juicelabs/juice-content/common/redis"
)

const (
	redisDataPrefix = "blob:data:"
	redisMetaPrefix = "blob:meta:"
)

// RedisBucket stores blobs in Redis. Content lives in a string at
// blob:data:<key>, metadata in a hash at blob:meta:<key>. Intended for
// ephemeral and preview deployments, not durable production storage.
type RedisBucket struct {
	client *rediscommon.Client
}

// NewRedisBucket creates a Redis-backed bucket.
func NewRedisBucket(client *rediscommon.Client) *RedisBucket {
	return &RedisBucket{client: client}
}

// List scans metadata hashes under prefix and returns objects in key order.
func (b *RedisBucket) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	metaKeys, err := b.client.ScanKeys(ctx, redisMetaPrefix+prefix+"*")
	if err != nil {
		return nil, fmt.Errorf("list blobs under %q: %w", prefix, err)
	}

	infos := make([]ObjectInfo, 0, len(metaKeys))
	for _, metaKey := range metaKeys {
		fields, err := b.client.HGetAllMap(ctx, metaKey)
		if err != nil {
			return nil, fmt.Errorf("read blob metadata %q: %w", metaKey, err)
		}
		if len(fields) == 0 {
			continue
		}

		key := keyFromURL(metaKey, redisMetaPrefix)
		size, _ := strconv.ParseInt(fields["size"], 10, 64)
		uploadedAt, _ := time.Parse(time.RFC3339Nano, fields["uploaded_at"])

		infos = append(infos, ObjectInfo{
			Key:        key,
			URL:        "redis://" + key,
			Size:       size,
			UploadedAt: uploadedAt,
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

// Put stores content and metadata under key.
func (b *RedisBucket) Put(ctx context.Context, key string, body []byte, opts PutOptions) (*ObjectInfo, error) {
	if !opts.AllowOverwrite {
		exists, err := b.client.Exists(ctx, redisDataPrefix+key)
		if err != nil {
			return nil, fmt.Errorf("check blob %q: %w", key, err)
		}
		if exists {
			return nil, ErrKeyExists
		}
	}

	now := time.Now().UTC()
	if err := b.client.SetBytes(ctx, redisDataPrefix+key, body); err != nil {
		return nil, fmt.Errorf("store blob %q: %w", key, err)
	}

	contentType := opts.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	meta := map[string]interface{}{
		"content_type": contentType,
		"size":         strconv.FormatInt(int64(len(body)), 10),
		"uploaded_at":  now.Format(time.RFC3339Nano),
	}
	if err := b.client.HSetMap(ctx, redisMetaPrefix+key, meta); err != nil {
		return nil, fmt.Errorf("store blob metadata %q: %w", key, err)
	}

	return &ObjectInfo{
		Key:        key,
		URL:        "redis://" + key,
		Size:       int64(len(body)),
		UploadedAt: now,
	}, nil
}

// Delete removes content and metadata for the object behind url.
func (b *RedisBucket) Delete(ctx context.Context, url string) error {
	key := keyFromURL(url, "redis://")

	removed, err := b.client.Delete(ctx, redisDataPrefix+key, redisMetaPrefix+key)
	if err != nil {
		return fmt.Errorf("delete blob %q: %w", key, err)
	}
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}

// Fetch retrieves the content behind url.
func (b *RedisBucket) Fetch(ctx context.Context, url string) ([]byte, error) {
	key := keyFromURL(url, "redis://")

	data, found, err := b.client.GetBytes(ctx, redisDataPrefix+key)
	if err != nil {
		return nil, fmt.Errorf("fetch blob %q: %w", key, err)
	}
	if !found {
		return nil, ErrNotFound
	}
	return data, nil
}
