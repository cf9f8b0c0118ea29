package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `---
title: My Great Post
category: General
published: true
weight: 42
rating: 4.5
tags:
    - strength
    - beginners
---
# Hello
World`

func TestParseTypedValues(t *testing.T) {
	meta, body := Parse(sampleDoc)

	assert.Equal(t, "# Hello\nWorld", body)
	assert.Equal(t, 6, meta.Len())
	assert.Equal(t, []string{"title", "category", "published", "weight", "rating", "tags"}, meta.Names())

	assert.Equal(t, "My Great Post", meta.GetString("title"))
	assert.Equal(t, "General", meta.GetString("category"))

	published, ok := meta.Get("published")
	require.True(t, ok)
	assert.Equal(t, KindBool, published.Kind)
	assert.True(t, published.Bool)

	weight, ok := meta.Get("weight")
	require.True(t, ok)
	assert.Equal(t, KindNumber, weight.Kind)
	assert.Equal(t, 42.0, weight.Num)

	rating, ok := meta.Get("rating")
	require.True(t, ok)
	assert.Equal(t, KindNumber, rating.Kind)
	assert.Equal(t, 4.5, rating.Num)

	tags, ok := meta.Get("tags")
	require.True(t, ok)
	assert.Equal(t, KindList, tags.Kind)
	assert.Equal(t, []string{"strength", "beginners"}, tags.List)
}

func TestParseNoDelimiter(t *testing.T) {
	raw := "# Just a heading\nand some text"
	meta, body := Parse(raw)

	assert.Equal(t, 0, meta.Len())
	assert.Equal(t, raw, body)
}

func TestParseUnclosedBlock(t *testing.T) {
	raw := "---\ntitle: Broken"
	meta, body := Parse(raw)

	assert.Equal(t, 0, meta.Len())
	assert.Equal(t, raw, body)
}

func TestRoundTripPreservesUntouchedFields(t *testing.T) {
	meta, body := Parse(sampleDoc)
	meta.Set("title", String("Renamed Post"))

	reparsed, rebody := Parse(Serialize(meta, body))

	assert.Equal(t, body, rebody)
	assert.Equal(t, meta.Names(), reparsed.Names(), "field order must survive the round trip")

	assert.Equal(t, "Renamed Post", reparsed.GetString("title"))
	assert.Equal(t, "General", reparsed.GetString("category"))

	published, _ := reparsed.Get("published")
	assert.True(t, published.Bool)
	weight, _ := reparsed.Get("weight")
	assert.Equal(t, 42.0, weight.Num)
	rating, _ := reparsed.Get("rating")
	assert.Equal(t, 4.5, rating.Num)
	tags, _ := reparsed.Get("tags")
	assert.Equal(t, []string{"strength", "beginners"}, tags.List)
}

func TestSerializeEmptyMetadata(t *testing.T) {
	assert.Equal(t, "body only", Serialize(&Metadata{}, "body only"))
	assert.Equal(t, "body only", Serialize(nil, "body only"))
}

func TestSetPreservesPosition(t *testing.T) {
	meta := &Metadata{}
	meta.Set("a", String("1"))
	meta.Set("b", String("2"))
	meta.Set("c", String("3"))

	meta.Set("b", Number(7))

	assert.Equal(t, []string{"a", "b", "c"}, meta.Names())
	v, _ := meta.Get("b")
	assert.Equal(t, KindNumber, v.Kind)
}

func TestTitleFallbackChain(t *testing.T) {
	// Explicit title wins
	meta, body := Parse("---\ntitle: Stated Title\n---\n# Heading\ntext")
	assert.Equal(t, "Stated Title", Title(meta, body, "blog/some-file.md"))

	// First heading when title absent
	meta, body = Parse("---\ncategory: General\n---\n# 5 Cool Tips\nBody text")
	assert.Equal(t, "5 Cool Tips", Title(meta, body, "blog/cool-workout-tips.md"))

	// Humanized filename when no heading either
	meta, body = Parse("no heading here\njust text")
	assert.Equal(t, "Just A Name", Title(meta, body, "blog/just-a-name.md"))

	// Literal fallback when nothing usable remains
	meta, body = Parse("plain text")
	assert.Equal(t, "Untitled", Title(meta, body, "---"))
}
