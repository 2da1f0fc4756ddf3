package service

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateEmbeddingDeterministic(t *testing.T) {
	svc := NewEmbeddingService(10)

	first, err := svc.GenerateEmbedding("tomato soup")
	require.NoError(t, err)
	second, err := svc.GenerateEmbedding("tomato soup")
	require.NoError(t, err)

	assert.Equal(t, first.Slice(), second.Slice())
	assert.Len(t, first.Slice(), embeddingDims)
}

func TestGenerateEmbeddingNormalized(t *testing.T) {
	svc := NewEmbeddingService(10)

	vec, err := svc.GenerateEmbedding("a hearty beef stew with root vegetables")
	require.NoError(t, err)

	var norm float64
	for _, v := range vec.Slice() {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, norm, 1e-5)
}

func TestGenerateEmbeddingEmptyInput(t *testing.T) {
	svc := NewEmbeddingService(10)

	_, err := svc.GenerateEmbedding("   ")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindInvalidArgument))
	assert.Equal(t, 0, svc.CacheLen())
}

func TestGenerateEmbeddingCacheKeyCaseInsensitive(t *testing.T) {
	svc := NewEmbeddingService(10)

	_, err := svc.GenerateEmbedding("Tomato Soup")
	require.NoError(t, err)
	_, err = svc.GenerateEmbedding("tomato soup")
	require.NoError(t, err)

	assert.Equal(t, 1, svc.CacheLen())
}

func TestEmbeddingCacheEviction(t *testing.T) {
	svc := NewEmbeddingService(3)

	for i := 0; i < 5; i++ {
		_, err := svc.GenerateEmbedding(fmt.Sprintf("recipe number %d", i))
		require.NoError(t, err)
	}

	assert.Equal(t, 3, svc.CacheLen())
}

func TestEmbeddingCacheEvictsLeastRecentlyUsed(t *testing.T) {
	svc := NewEmbeddingService(2)

	_, err := svc.GenerateEmbedding("first")
	require.NoError(t, err)
	_, err = svc.GenerateEmbedding("second")
	require.NoError(t, err)

	// touch "first" so "second" becomes the eviction candidate
	_, err = svc.GenerateEmbedding("first")
	require.NoError(t, err)
	_, err = svc.GenerateEmbedding("third")
	require.NoError(t, err)

	svc.mu.Lock()
	_, hasFirst := svc.entries["first"]
	_, hasSecond := svc.entries["second"]
	_, hasThird := svc.entries["third"]
	svc.mu.Unlock()

	assert.True(t, hasFirst)
	assert.False(t, hasSecond)
	assert.True(t, hasThird)
}

func TestEmbeddingCacheReset(t *testing.T) {
	svc := NewEmbeddingService(10)

	_, err := svc.GenerateEmbedding("something")
	require.NoError(t, err)
	require.Equal(t, 1, svc.CacheLen())

	svc.Reset()
	assert.Equal(t, 0, svc.CacheLen())

	// still usable after reset
	_, err = svc.GenerateEmbedding("something")
	require.NoError(t, err)
	assert.Equal(t, 1, svc.CacheLen())
}

func TestGenerateEmbeddingConcurrentAccess(t *testing.T) {
	svc := NewEmbeddingService(50)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_, err := svc.GenerateEmbedding(fmt.Sprintf("text %d", (n+j)%30))
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, svc.CacheLen(), 50)
}
