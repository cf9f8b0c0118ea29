package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juicelabs/juice-content/common/bucket"
	"github.com/juicelabs/juice-content/common/config"
	"github.com/juicelabs/juice-content/common/logger"
)

func testStoreOver(t *testing.T, b bucket.Bucket) *ContentStore {
	t.Helper()
	cfg := &config.Config{
		Content: config.ContentConfig{
			Prefixes:    []string{"blog/", "interviews/"},
			SiteBaseURL: "https://juice.fitness",
			RingLogSize: 10,
		},
	}
	log := logger.FromHandler(slog.NewTextHandler(io.Discard, nil))
	return NewContentStore(b, cfg, log)
}

func testStore(t *testing.T) (*ContentStore, *bucket.MemoryBucket) {
	t.Helper()
	mem := bucket.NewMemoryBucket()
	return testStoreOver(t, mem), mem
}

func mustPut(t *testing.T, b *bucket.MemoryBucket, key, content string) {
	t.Helper()
	_, err := b.Put(context.Background(), key, []byte(content), bucket.PutOptions{})
	require.NoError(t, err)
}

const greatPost = `---
title: My Great Post
category: General
---
# Hello
World`

func TestUploadListFindFetch(t *testing.T) {
	ctx := context.Background()
	store, _ := testStore(t)

	_, err := store.Upsert(ctx, "blog/My-Great-Post-.md", []byte(greatPost), false)
	require.NoError(t, err)

	summaries, err := store.List(ctx, "blog/")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "my-great-post", summaries[0].Slug)
	assert.Equal(t, "My Great Post", summaries[0].Title)
	assert.Equal(t, "General", summaries[0].Category)
	assert.Equal(t, "https://juice.fitness/blog/my-great-post", summaries[0].URL)

	doc, err := store.FindBySlug(ctx, "my-great-post", "blog/")
	require.NoError(t, err)
	assert.Equal(t, "blog/My-Great-Post-.md", doc.Key)

	content, err := store.FetchContent(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, greatPost, content)
}

func TestListSkipsNonDocumentKeys(t *testing.T) {
	ctx := context.Background()
	store, mem := testStore(t)

	mustPut(t, mem, "blog/post.md", "---\ntitle: T\n---\nbody")
	mustPut(t, mem, "blog/post.jpg", "binary")
	mustPut(t, mem, "blog/cover.png", "binary")

	summaries, err := store.List(ctx, "blog/")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "blog/post.md", summaries[0].Key)
}

func TestListTitleFallbacks(t *testing.T) {
	ctx := context.Background()
	store, mem := testStore(t)

	mustPut(t, mem, "blog/cool-workout-tips.md", "---\ncategory: General\n---\n# 5 Cool Tips\nBody text")
	mustPut(t, mem, "blog/just-a-name.md", "no heading\nno frontmatter")

	summaries, err := store.List(ctx, "blog/")
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byKey := map[string]string{}
	for _, s := range summaries {
		byKey[s.Key] = s.Title
	}
	assert.Equal(t, "5 Cool Tips", byKey["blog/cool-workout-tips.md"])
	assert.Equal(t, "Just A Name", byKey["blog/just-a-name.md"])
}

func TestFindBySlugNotFound(t *testing.T) {
	ctx := context.Background()
	store, mem := testStore(t)
	mustPut(t, mem, "blog/existing.md", "body")

	_, err := store.FindBySlug(ctx, "missing", "blog/")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindBySlugRejectsEmpty(t *testing.T) {
	store, _ := testStore(t)
	_, err := store.FindBySlug(context.Background(), "", "blog/")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFindBySlugCollisionIsDeterministic(t *testing.T) {
	ctx := context.Background()
	store, mem := testStore(t)

	// Both keys normalize to "foo"; the first in listing order wins.
	mustPut(t, mem, "blog/-foo-.md", "first")
	mustPut(t, mem, "blog/foo.md", "second")

	first, err := store.FindBySlug(ctx, "foo", "blog/")
	require.NoError(t, err)
	second, err := store.FindBySlug(ctx, "foo", "blog/")
	require.NoError(t, err)

	assert.Equal(t, first.Key, second.Key)
}

func TestUpsertRefusesSilentOverwrite(t *testing.T) {
	ctx := context.Background()
	store, _ := testStore(t)

	_, err := store.Upsert(ctx, "blog/post.md", []byte("v1"), false)
	require.NoError(t, err)

	_, err = store.Upsert(ctx, "blog/post.md", []byte("v2"), false)
	assert.ErrorIs(t, err, bucket.ErrKeyExists)

	_, err = store.Upsert(ctx, "blog/post.md", []byte("v2"), true)
	assert.NoError(t, err)
}

func TestUpsertProtectedSlug(t *testing.T) {
	ctx := context.Background()
	store, _ := testStore(t)

	key := "blog/fundamentals-of-weightlifting-guide-to-building-real-strength.md"
	for _, overwrite := range []bool{false, true} {
		_, err := store.Upsert(ctx, key, []byte("anything"), overwrite)
		assert.ErrorIs(t, err, ErrProtected, "overwrite=%v", overwrite)
	}
}

func TestDeleteProtectedSlug(t *testing.T) {
	store, _ := testStore(t)

	_, err := store.DeleteBySlugOrSimilar(context.Background(),
		"fundamentals-of-weightlifting-guide-to-building-real-strength", "blog/", false)
	assert.ErrorIs(t, err, ErrProtected)
}

func TestDeleteBySlugOrSimilar(t *testing.T) {
	ctx := context.Background()
	store, mem := testStore(t)

	mustPut(t, mem, "blog/my-post.md", "doc")
	mustPut(t, mem, "blog/my-post2.md", "near duplicate from a re-upload")
	mustPut(t, mem, "blog/my-post.jpg", "cover image")
	mustPut(t, mem, "blog/other.md", "unrelated")

	result, err := store.DeleteBySlugOrSimilar(ctx, "my-post", "blog/", false)
	require.NoError(t, err)
	require.NotEmpty(t, result.OperationID)
	assert.False(t, result.DryRun)
	assert.ElementsMatch(t,
		[]string{"blog/my-post.md", "blog/my-post2.md", "blog/my-post.jpg"},
		result.Deleted)

	infos, err := mem.List(ctx, "blog/")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "blog/other.md", infos[0].Key)
}

func TestDeleteDryRunLeavesBucketIntact(t *testing.T) {
	ctx := context.Background()
	store, mem := testStore(t)

	mustPut(t, mem, "blog/my-post.md", "doc")
	mustPut(t, mem, "blog/my-post.png", "image")

	result, err := store.DeleteBySlugOrSimilar(ctx, "my-post", "blog/", true)
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.ElementsMatch(t, []string{"blog/my-post.md", "blog/my-post.png"}, result.Deleted)

	infos, err := mem.List(ctx, "blog/")
	require.NoError(t, err)
	assert.Len(t, infos, 2)
}

func TestDeleteRejectsEmptySlug(t *testing.T) {
	store, _ := testStore(t)
	_, err := store.DeleteBySlugOrSimilar(context.Background(), "", "blog/", false)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDocExtensionIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	store, mem := testStore(t)

	mustPut(t, mem, "blog/Shouting-Post.MD", "---\ntitle: Shouting Post\n---\nbody")

	summaries, err := store.List(ctx, "blog/")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "shouting-post", summaries[0].Slug)

	doc, err := store.FindBySlug(ctx, "shouting-post", "blog/")
	require.NoError(t, err)
	assert.Equal(t, "blog/Shouting-Post.MD", doc.Key)

	result, err := store.DeleteBySlugOrSimilar(ctx, "shouting-post", "blog/", false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"blog/Shouting-Post.MD"}, result.Deleted)
}

// brokenBucket fails every operation, for exercising the error taxonomy.
type brokenBucket struct {
	err error
}

func (b *brokenBucket) List(ctx context.Context, prefix string) ([]bucket.ObjectInfo, error) {
	return nil, b.err
}

func (b *brokenBucket) Put(ctx context.Context, key string, body []byte, opts bucket.PutOptions) (*bucket.ObjectInfo, error) {
	return nil, b.err
}

func (b *brokenBucket) Delete(ctx context.Context, url string) error {
	return b.err
}

func (b *brokenBucket) Fetch(ctx context.Context, url string) ([]byte, error) {
	return nil, b.err
}

// fetchlessBucket lists and stores normally but cannot serve content bytes.
type fetchlessBucket struct {
	*bucket.MemoryBucket
}

func (b *fetchlessBucket) Fetch(ctx context.Context, url string) ([]byte, error) {
	return nil, errors.New("blob storage timeout")
}

func TestListingFailuresAreBucketUnavailable(t *testing.T) {
	ctx := context.Background()
	store := testStoreOver(t, &brokenBucket{err: errors.New("connection refused")})

	_, err := store.List(ctx, "blog/")
	assert.ErrorIs(t, err, ErrBucketUnavailable)

	_, err = store.FindBySlug(ctx, "my-post", "blog/")
	assert.ErrorIs(t, err, ErrBucketUnavailable)

	_, err = store.DeleteBySlugOrSimilar(ctx, "my-post", "blog/", false)
	assert.ErrorIs(t, err, ErrBucketUnavailable)

	_, err = store.Upsert(ctx, "blog/my-post.md", []byte("body"), false)
	assert.ErrorIs(t, err, ErrBucketUnavailable)
}

func TestFetchContentUnreachableIsContentFetch(t *testing.T) {
	ctx := context.Background()
	mem := bucket.NewMemoryBucket()
	mustPut(t, mem, "blog/my-post.md", "body")
	store := testStoreOver(t, &fetchlessBucket{MemoryBucket: mem})

	doc, err := store.FindBySlug(ctx, "my-post", "blog/")
	require.NoError(t, err)

	_, err = store.FetchContent(ctx, doc)
	assert.ErrorIs(t, err, ErrContentFetch)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestListDegradesWhenContentUnreachable(t *testing.T) {
	ctx := context.Background()
	mem := bucket.NewMemoryBucket()
	mustPut(t, mem, "blog/cool-workout-tips.md", "---\ntitle: Real Title\n---\nbody")
	store := testStoreOver(t, &fetchlessBucket{MemoryBucket: mem})

	summaries, err := store.List(ctx, "blog/")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	// Frontmatter is unreachable, so the title falls back to the filename.
	assert.Equal(t, "Cool Workout Tips", summaries[0].Title)
	assert.Empty(t, summaries[0].Category)
}
