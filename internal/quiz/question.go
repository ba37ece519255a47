package quiz

import (
	"fmt"
	"strconv"
)

// Question is one trivia question as returned by the question source.
// Text and answers may carry HTML entities or markup and are kept verbatim.
type Question struct {
	Category         string   `json:"category,omitempty"`
	Type             string   `json:"type,omitempty"`
	Difficulty       string   `json:"difficulty,omitempty"`
	Text             string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// Candidates returns the incorrect answers followed by the correct one.
func (q Question) Candidates() []string {
	out := make([]string, 0, len(q.IncorrectAnswers)+1)
	out = append(out, q.IncorrectAnswers...)
	return append(out, q.CorrectAnswer)
}

// Valid reports whether q has the shape of a question.
func (q Question) Valid() bool {
	return q.Text != "" && q.CorrectAnswer != "" && q.IncorrectAnswers != nil
}

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	}
	return false
}

const (
	MinAmount     = 1
	MaxAmount     = 50
	DefaultAmount = 10
)

// Params selects a question set. CategoryID 0 means any category.
type Params struct {
	Difficulty Difficulty `json:"difficulty"`
	Amount     int        `json:"amount"`
	CategoryID int        `json:"category,omitempty"`
}

func DefaultParams() Params { return Params{Difficulty: Medium, Amount: DefaultAmount} }

func (p Params) Validate() error {
	if !p.Difficulty.Valid() {
		return fmt.Errorf("%w: difficulty %q", ErrInvalidParams, p.Difficulty)
	}
	if p.Amount < MinAmount || p.Amount > MaxAmount {
		return fmt.Errorf("%w: amount %d not in [%d,%d]", ErrInvalidParams, p.Amount, MinAmount, MaxAmount)
	}
	if p.CategoryID < 0 {
		return fmt.Errorf("%w: category %d", ErrInvalidParams, p.CategoryID)
	}
	return nil
}

// Key derives the cache key for p. Two Params are equal iff their keys are.
func (p Params) Key() string {
	cat := "any"
	if p.CategoryID > 0 {
		cat = strconv.Itoa(p.CategoryID)
	}
	return "triviaData-" + string(p.Difficulty) + "-" + strconv.Itoa(p.Amount) + "-" + cat
}
