package service

import (
	"container/list"
	"hash/fnv"
	"math"
	"strings"
	"sync"

	pgvector "github.com/pgvector/pgvector-go"
)

// embeddingDims is the dimensionality of recipe embeddings. It must match
// the vector column width on the recipes table.
const embeddingDims = 256

// EmbeddingService produces deterministic text embeddings for similarity
// search and memoizes them in a bounded LRU cache keyed by the exact
// normalized text. Embedding is a pure function of its input, so cached
// and fresh results are interchangeable. The cache has no TTL; entries
// leave only by capacity eviction or an explicit Reset.
type EmbeddingService struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front is most recently used
}

type embeddingEntry struct {
	key string
	vec []float32
}

// NewEmbeddingService creates an embedding service with the given cache
// capacity.
func NewEmbeddingService(capacity int) *EmbeddingService {
	if capacity <= 0 {
		capacity = 1000
	}
	return &EmbeddingService{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// GenerateEmbedding returns the embedding vector for the given text,
// serving repeated inputs from the cache.
func (s *EmbeddingService) GenerateEmbedding(text string) (pgvector.Vector, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return pgvector.Vector{}, newError(KindInvalidArgument, "text cannot be empty")
	}
	key := strings.ToLower(text)

	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.entries[key]; ok {
		s.order.MoveToFront(elem)
		return pgvector.NewVector(elem.Value.(*embeddingEntry).vec), nil
	}

	vec := embedText(key)
	elem := s.order.PushFront(&embeddingEntry{key: key, vec: vec})
	s.entries[key] = elem

	if s.order.Len() > s.capacity {
		oldest := s.order.Back()
		if oldest != nil {
			s.order.Remove(oldest)
			delete(s.entries, oldest.Value.(*embeddingEntry).key)
		}
	}

	return pgvector.NewVector(vec), nil
}

// Reset clears the embedding cache.
func (s *EmbeddingService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*list.Element)
	s.order.Init()
}

// CacheLen returns the number of cached embeddings.
func (s *EmbeddingService) CacheLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

// embedText hashes character trigrams into a fixed-width vector and
// L2-normalizes it. Deterministic and cheap; good enough to give similar
// texts nearby vectors without an external model.
func embedText(text string) []float32 {
	vec := make([]float32, embeddingDims)

	runes := []rune(text)
	if len(runes) < 3 {
		runes = append(runes, ' ', ' ')
	}
	for i := 0; i+3 <= len(runes); i++ {
		h := fnv.New32a()
		h.Write([]byte(string(runes[i : i+3])))
		vec[h.Sum32()%embeddingDims]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return vec
}
