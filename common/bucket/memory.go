package bucket

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryBucket is an in-process Bucket used by tests and local development.
type MemoryBucket struct {
	mu      sync.RWMutex
	objects map[string]*memoryObject
}

type memoryObject struct {
	body []byte
	info ObjectInfo
}

// NewMemoryBucket creates an empty in-memory bucket.
func NewMemoryBucket() *MemoryBucket {
	return &MemoryBucket{
		objects: make(map[string]*memoryObject),
	}
}

// List returns objects under prefix in key order.
func (b *MemoryBucket) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var infos []ObjectInfo
	for key, obj := range b.objects {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			infos = append(infos, obj.info)
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

// Put stores body under key.
func (b *MemoryBucket) Put(ctx context.Context, key string, body []byte, opts PutOptions) (*ObjectInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[key]; exists && !opts.AllowOverwrite {
		return nil, ErrKeyExists
	}

	buf := make([]byte, len(body))
	copy(buf, body)

	info := ObjectInfo{
		Key:        key,
		URL:        "mem://" + key,
		Size:       int64(len(body)),
		UploadedAt: time.Now().UTC(),
	}
	b.objects[key] = &memoryObject{body: buf, info: info}
	return &info, nil
}

// Delete removes the object behind url.
func (b *MemoryBucket) Delete(ctx context.Context, url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := keyFromURL(url, "mem://")
	if _, exists := b.objects[key]; !exists {
		return ErrNotFound
	}
	delete(b.objects, key)
	return nil
}

// Fetch returns a copy of the content behind url.
func (b *MemoryBucket) Fetch(ctx context.Context, url string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	key := keyFromURL(url, "mem://")
	obj, exists := b.objects[key]
	if !exists {
		return nil, ErrNotFound
	}
	buf := make([]byte, len(obj.body))
	copy(buf, obj.body)
	return buf, nil
}
