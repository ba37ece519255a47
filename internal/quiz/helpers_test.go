package quiz

import (
	"context"
	"fmt"
	"sync"
)

func makeQuestions(prefix string, n int) []Question {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{
			Type:             "multiple",
			Difficulty:       "medium",
			Text:             fmt.Sprintf("%s question %d &quot;quoted&quot;", prefix, i),
			CorrectAnswer:    fmt.Sprintf("%s right %d", prefix, i),
			IncorrectAnswers: []string{prefix + " wrong a", prefix + " wrong b", prefix + " wrong c"},
		}
	}
	return qs
}

func answerIndex(answers []string, s string) int {
	for i, v := range answers {
		if v == s {
			return i
		}
	}
	return -1
}

// stubSource serves fixed question sets by key and counts calls.
type stubSource struct {
	mu    sync.Mutex
	sets  map[string][]Question
	err   error
	calls int
}

func (s *stubSource) Questions(_ context.Context, p Params) ([]Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.sets[p.Key()], nil
}

type mapCache struct {
	m    map[string][]Question
	puts int
}

func newMapCache() *mapCache { return &mapCache{m: map[string][]Question{}} }

func (c *mapCache) Get(key string) ([]Question, bool) {
	qs, ok := c.m[key]
	return qs, ok
}

func (c *mapCache) Put(key string, qs []Question) error {
	c.puts++
	c.m[key] = qs
	return nil
}

// gatedFetcher blocks each Fetch until its key is released, ignoring
// cancellation so stale completions really arrive late.
type gatedFetcher struct {
	mu      sync.Mutex
	sets    map[string][]Question
	gates   map[string]chan struct{}
	started chan string
}

func newGatedFetcher(sets map[string][]Question) *gatedFetcher {
	g := &gatedFetcher{sets: sets, gates: map[string]chan struct{}{}, started: make(chan string, 8)}
	for k := range sets {
		g.gates[k] = make(chan struct{})
	}
	return g
}

func (g *gatedFetcher) Fetch(_ context.Context, p Params) ([]Question, error) {
	g.mu.Lock()
	gate := g.gates[p.Key()]
	g.mu.Unlock()
	g.started <- p.Key()
	<-gate
	return g.sets[p.Key()], nil
}

func (g *gatedFetcher) release(key string) { close(g.gates[key]) }
