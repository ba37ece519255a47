package opentdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"psp.com/trivia-quiz/backend/internal/quiz"
)

const questionsJSON = `{"response_code":0,"results":[
 {"type":"multiple","difficulty":"medium","category":"Entertainment: Books",
  "question":"Who wrote &quot;Dune&quot;?","correct_answer":"Frank Herbert",
  "incorrect_answers":["Isaac Asimov","Arthur C. Clarke","Ursula K. Le Guin"]},
 {"type":"boolean","difficulty":"medium","category":"Science &amp; Nature",
  "question":"Water boils at 100&deg;C at sea level.","correct_answer":"True","incorrect_answers":["False"]}]}`

func TestQuestions(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api.php" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		w.Write([]byte(questionsJSON))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ts.Client(), time.Hour)
	qs, err := c.Questions(context.Background(), quiz.Params{Difficulty: quiz.Medium, Amount: 2, CategoryID: 10})
	if err != nil {
		t.Fatalf("Questions: %v", err)
	}
	if gotQuery != "amount=2&category=10&difficulty=medium" {
		t.Errorf("query = %q", gotQuery)
	}
	if len(qs) != 2 {
		t.Fatalf("got %d questions", len(qs))
	}
	if qs[0].Text != "Who wrote &quot;Dune&quot;?" || qs[0].CorrectAnswer != "Frank Herbert" || len(qs[0].IncorrectAnswers) != 3 {
		t.Errorf("question not decoded verbatim: %+v", qs[0])
	}
}

func TestQuestionsOmitsAnyCategory(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(questionsJSON))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ts.Client(), time.Hour)
	if _, err := c.Questions(context.Background(), quiz.Params{Difficulty: quiz.Easy, Amount: 5}); err != nil {
		t.Fatalf("Questions: %v", err)
	}
	if gotQuery != "amount=5&difficulty=easy" {
		t.Errorf("query = %q", gotQuery)
	}
}

func TestQuestionsErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		noResults bool
	}{
		{"no results code", 200, `{"response_code":1,"results":[]}`, true},
		{"empty results", 200, `{"response_code":0,"results":[]}`, true},
		{"rate limited", 200, `{"response_code":5,"results":[]}`, false},
		{"invalid parameter", 200, `{"response_code":2,"results":[]}`, false},
		{"server error", 500, `oops`, false},
		{"bad json", 200, `<html>`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			c := NewClient(ts.URL, ts.Client(), time.Hour)
			_, err := c.Questions(context.Background(), quiz.DefaultParams())
			if tt.noResults {
				if !errors.Is(err, quiz.ErrNoResults) {
					t.Errorf("expected ErrNoResults, got %v", err)
				}
				return
			}
			if !quiz.IsTransport(err) {
				t.Errorf("expected transport error, got %v", err)
			}
		})
	}
}

func TestQuestionsUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := NewClient(url, nil, time.Hour)
	if _, err := c.Questions(context.Background(), quiz.DefaultParams()); !quiz.IsTransport(err) {
		t.Errorf("expected transport error, got %v", err)
	}
}

func TestCategories(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api_category.php" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`{"trivia_categories":[{"id":9,"name":"General Knowledge"},{"id":10,"name":"Entertainment: Books"}]}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ts.Client(), time.Hour)
	for i := 0; i < 3; i++ {
		cats, err := c.Categories(context.Background())
		if err != nil {
			t.Fatalf("Categories: %v", err)
		}
		if len(cats) != 2 || cats[1].Slug != "entertainment-books" {
			t.Fatalf("categories = %+v", cats)
		}
	}
	if hits != 1 {
		t.Errorf("category endpoint hit %d times, want 1", hits)
	}
	if name, ok := c.CategoryName(9); !ok || name != "General Knowledge" {
		t.Errorf("CategoryName(9) = %q, %v", name, ok)
	}
	if _, ok := c.CategoryName(99); ok {
		t.Error("CategoryName(99) found")
	}
}

func TestCategoriesEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"trivia_categories":[]}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ts.Client(), time.Hour)
	if _, err := c.Categories(context.Background()); err == nil {
		t.Error("expected error for empty category list")
	}
}

func TestFetcherWithClient(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(questionsJSON))
	}))
	defer ts.Close()

	cache := map[string][]quiz.Question{}
	f := quiz.NewFetcher(NewClient(ts.URL, ts.Client(), time.Hour), mapCache(cache))
	p := quiz.Params{Difficulty: quiz.Medium, Amount: 2}
	for i := 0; i < 2; i++ {
		if _, err := f.Fetch(context.Background(), p); err != nil {
			t.Fatalf("Fetch: %v", err)
		}
	}
	if hits != 1 {
		t.Errorf("source hit %d times, want 1", hits)
	}
}

type mapCache map[string][]quiz.Question

func (m mapCache) Get(k string) ([]quiz.Question, bool) {
	qs, ok := m[k]
	return qs, ok
}

func (m mapCache) Put(k string, qs []quiz.Question) error {
	m[k] = qs
	return nil
}

func TestCategoriesReturnsCopy(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"trivia_categories":[{"id":9,"name":"General Knowledge"}]}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ts.Client(), time.Hour)
	cats, err := c.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	cats[0].Name = "changed"
	again, err := c.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if again[0].Name != "General Knowledge" {
		t.Errorf("cached list mutated through returned slice: %+v", again)
	}
	if name, _ := c.CategoryName(9); name != "General Knowledge" {
		t.Errorf("CategoryName(9) = %q", name)
	}
}

func TestCategoryNameNotBlockedByRefresh(t *testing.T) {
	release := make(chan struct{})
	requested := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(requested)
		<-release
		w.Write([]byte(`{"trivia_categories":[{"id":9,"name":"General Knowledge"}]}`))
	}))
	defer ts.Close()
	defer close(release)

	c := NewClient(ts.URL, ts.Client(), time.Hour)
	go c.Categories(context.Background())
	<-requested

	done := make(chan struct{})
	go func() {
		c.CategoryName(9)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("CategoryName blocked while categories were being fetched")
	}
}
