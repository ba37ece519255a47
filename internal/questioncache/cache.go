package questioncache

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"psp.com/trivia-quiz/backend/internal/quiz"
)

// Store is the backing key/value capability. Entries live as long as the store.
type Store interface {
	Get(key string) ([]byte, bool)
	Put(key string, val []byte)
	Remove(key string)
}

// Cache keeps question sets JSON-encoded in a Store. A stored value that no
// longer decodes into a non-empty list of questions is dropped and reported
// as a miss.
type Cache struct {
	store Store
}

func New(store Store) *Cache {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Cache{store: store}
}

var ErrEmpty = errors.New("refusing to cache an empty question set")

func (c *Cache) Get(key string) ([]quiz.Question, bool) {
	raw, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	qs, err := decode(raw)
	if err != nil {
		log.Printf("failed to parse cached trivia data %s: %v", key, err)
		c.store.Remove(key)
		return nil, false
	}
	return qs, true
}

// Put stores qs under key. A set that would not read back through Get is
// rejected. Missing incorrect answers are stored as an empty list.
func (c *Cache) Put(key string, qs []quiz.Question) error {
	if len(qs) == 0 {
		return ErrEmpty
	}
	norm := make([]quiz.Question, len(qs))
	for i, q := range qs {
		if q.IncorrectAnswers == nil {
			q.IncorrectAnswers = []string{}
		}
		norm[i] = q
	}
	raw, err := json.Marshal(norm)
	if err != nil {
		return err
	}
	if _, err := decode(raw); err != nil {
		return err
	}
	c.store.Put(key, raw)
	return nil
}

func decode(raw []byte) ([]quiz.Question, error) {
	var qs []quiz.Question
	if err := json.Unmarshal(raw, &qs); err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, ErrEmpty
	}
	for i, q := range qs {
		if !q.Valid() {
			return nil, fmt.Errorf("malformed question at index %d", i)
		}
	}
	return qs, nil
}

// MemoryStore is a process-lifetime Store with no eviction.
type MemoryStore struct {
	mu sync.RWMutex
	m  map[string][]byte
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{m: make(map[string][]byte)} }

func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *MemoryStore) Put(key string, val []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = val
}

func (s *MemoryStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
