package bucket

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBucketPutFetch(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBucket()

	info, err := b.Put(ctx, "blog/post.md", []byte("hello"), PutOptions{ContentType: "text/markdown"})
	require.NoError(t, err)
	assert.Equal(t, "blog/post.md", info.Key)
	assert.Equal(t, "mem://blog/post.md", info.URL)
	assert.Equal(t, int64(5), info.Size)

	data, err := b.Fetch(ctx, info.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
}

func TestMemoryBucketRefusesSilentOverwrite(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBucket()

	_, err := b.Put(ctx, "blog/post.md", []byte("v1"), PutOptions{})
	require.NoError(t, err)

	_, err = b.Put(ctx, "blog/post.md", []byte("v2"), PutOptions{})
	assert.ErrorIs(t, err, ErrKeyExists)

	info, err := b.Put(ctx, "blog/post.md", []byte("v2"), PutOptions{AllowOverwrite: true})
	require.NoError(t, err)

	data, err := b.Fetch(ctx, info.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), data)
}

func TestMemoryBucketListByPrefix(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBucket()

	for _, key := range []string{"blog/b.md", "blog/a.md", "interviews/c.md", "blog/cover.png"} {
		_, err := b.Put(ctx, key, []byte("x"), PutOptions{})
		require.NoError(t, err)
	}

	infos, err := b.List(ctx, "blog/")
	require.NoError(t, err)
	require.Len(t, infos, 3)
	// Stable key order so slug-collision tie-breaks are deterministic.
	assert.Equal(t, "blog/a.md", infos[0].Key)
	assert.Equal(t, "blog/b.md", infos[1].Key)
	assert.Equal(t, "blog/cover.png", infos[2].Key)
}

func TestMemoryBucketDelete(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBucket()

	info, err := b.Put(ctx, "blog/post.md", []byte("x"), PutOptions{})
	require.NoError(t, err)

	require.NoError(t, b.Delete(ctx, info.URL))
	assert.ErrorIs(t, b.Delete(ctx, info.URL), ErrNotFound)

	_, err = b.Fetch(ctx, info.URL)
	assert.ErrorIs(t, err, ErrNotFound)
}
