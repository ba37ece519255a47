package quiz

import (
	"context"
	"errors"
	"log"
	"math/rand/v2"
	"sync"
)

type Phase string

const (
	Idle      Phase = "idle"
	Loading   Phase = "loading"
	Active    Phase = "active"
	Submitted Phase = "submitted"
)

// QuestionFetcher is satisfied by *Fetcher.
type QuestionFetcher interface {
	Fetch(ctx context.Context, p Params) ([]Question, error)
}

// Session is the quiz state machine: it owns one question set, its shuffled
// answers and the user's selections.
//
// Answers are shuffled exactly once, when a question set is loaded. Once
// Submitted, answers and selections stay frozen until Reset or Start.
type Session struct {
	mu      sync.Mutex
	fetcher QuestionFetcher
	rng     *rand.Rand

	phase      Phase
	params     Params
	questions  []Question
	answers    [][]string
	selections map[int]int
	noResults  bool
	lastErr    error

	// gen is bumped by every Start and Reset; a fetch that completes under
	// an older generation is discarded.
	gen    uint64
	cancel context.CancelFunc

	watchers map[chan Snapshot]struct{}
}

// NewSession returns an Idle session. A nil r shuffles with the global source.
func NewSession(f QuestionFetcher, r *rand.Rand) *Session {
	return &Session{
		fetcher:    f,
		rng:        r,
		phase:      Idle,
		selections: map[int]int{},
		watchers:   map[chan Snapshot]struct{}{},
	}
}

// Start discards the current quiz, fetches a new question set for p and
// shuffles its answers. On ErrNoResults or a transport failure the session
// falls back to Idle and the error is returned. If another Start or Reset
// happens while the fetch is in flight, the result is dropped and Start
// returns ErrSuperseded.
func (s *Session) Start(ctx context.Context, p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	if s.cancel != nil {
		s.cancel()
	}
	fctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.clear()
	s.phase = Loading
	s.params = p
	s.notify()
	s.mu.Unlock()

	qs, err := s.fetcher.Fetch(fctx, p)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return ErrSuperseded
	}
	cancel()
	s.cancel = nil

	switch {
	case err == nil && len(qs) > 0:
		s.questions = copyQuestions(qs)
		s.answers = ShuffleAnswers(s.rng, s.questions)
		s.phase = Active
	case err == nil || errors.Is(err, ErrNoResults):
		log.Printf("no questions found for %s", p.Key())
		s.phase = Idle
		s.noResults = true
		err = ErrNoResults
	default:
		log.Printf("error fetching trivia data for %s: %v", p.Key(), err)
		s.phase = Idle
		s.lastErr = err
	}
	s.notify()
	return err
}

// SelectAnswer records answer a for question q, replacing any earlier choice.
func (s *Session) SelectAnswer(q, a int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != Active {
		return ErrInvalidState
	}
	if q < 0 || q >= len(s.questions) || a < 0 || a >= len(s.answers[q]) {
		return ErrOutOfRange
	}
	if cur, ok := s.selections[q]; ok && cur == a {
		return nil
	}
	s.selections[q] = a
	s.notify()
	return nil
}

// Submit locks the session once every question has a selection.
func (s *Session) Submit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != Active {
		return ErrInvalidState
	}
	for i := range s.questions {
		if _, ok := s.selections[i]; !ok {
			return ErrIncompleteAnswers
		}
	}
	s.phase = Submitted
	s.notify()
	return nil
}

// Reset returns the session to Idle and drops any in-flight fetch.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.clear()
	s.phase = Idle
	s.notify()
}

// Score evaluates the session. It fails with ErrInvalidState unless Submitted.
func (s *Session) Score() (ScoreResult, error) {
	return Evaluate(s.Snapshot())
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Snapshot is a read-only copy of the session state for rendering.
type Snapshot struct {
	Phase      Phase       `json:"phase"`
	Params     Params      `json:"params"`
	Questions  []Question  `json:"questions"`
	Answers    [][]string  `json:"answers"`
	Selections map[int]int `json:"selections"`
	NoResults  bool        `json:"noResults,omitempty"`
	Error      string      `json:"error,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Watch subscribes to state changes. The channel always holds the latest
// snapshot; stale ones are dropped for slow readers. Call stop to unsubscribe.
func (s *Session) Watch() (updates <-chan Snapshot, stop func()) {
	ch := make(chan Snapshot, 1)
	s.mu.Lock()
	s.watchers[ch] = struct{}{}
	ch <- s.snapshot()
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers, ch)
			close(ch)
			s.mu.Unlock()
		})
	}
}

func (s *Session) clear() {
	s.questions = nil
	s.answers = nil
	s.selections = map[int]int{}
	s.noResults = false
	s.lastErr = nil
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{
		Phase:      s.phase,
		Params:     s.params,
		Questions:  copyQuestions(s.questions),
		Answers:    copyAnswers(s.answers),
		Selections: make(map[int]int, len(s.selections)),
		NoResults:  s.noResults,
	}
	for k, v := range s.selections {
		snap.Selections[k] = v
	}
	if s.lastErr != nil {
		snap.Error = s.lastErr.Error()
	}
	return snap
}

func copyQuestions(qs []Question) []Question {
	if qs == nil {
		return nil
	}
	out := make([]Question, len(qs))
	for i, q := range qs {
		q.IncorrectAnswers = append([]string{}, q.IncorrectAnswers...)
		out[i] = q
	}
	return out
}

func copyAnswers(answers [][]string) [][]string {
	if answers == nil {
		return nil
	}
	out := make([][]string, len(answers))
	for i, a := range answers {
		out[i] = append([]string(nil), a...)
	}
	return out
}

// notify must be called with s.mu held.
func (s *Session) notify() {
	if len(s.watchers) == 0 {
		return
	}
	for ch := range s.watchers {
		snap := s.snapshot()
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}
