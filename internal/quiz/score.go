package quiz

import "math"

// Review is the outcome of one question.
type Review struct {
	Question      string `json:"question"`
	ChosenAnswer  string `json:"chosenAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
}

type ScoreResult struct {
	CorrectCount int      `json:"correctCount"`
	Total        int      `json:"total"`
	PerQuestion  []Review `json:"perQuestion"`
}

// Evaluate scores a submitted snapshot. Answers are compared with the raw
// stored correct answer, markup included.
func Evaluate(s Snapshot) (ScoreResult, error) {
	if s.Phase != Submitted || len(s.Answers) != len(s.Questions) {
		return ScoreResult{}, ErrInvalidState
	}
	res := ScoreResult{Total: len(s.Questions), PerQuestion: make([]Review, len(s.Questions))}
	for i, q := range s.Questions {
		sel, ok := s.Selections[i]
		if !ok || sel < 0 || sel >= len(s.Answers[i]) {
			return ScoreResult{}, ErrInvalidState
		}
		chosen := s.Answers[i][sel]
		r := Review{
			Question:      q.Text,
			ChosenAnswer:  chosen,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     chosen == q.CorrectAnswer,
		}
		if r.IsCorrect {
			res.CorrectCount++
		}
		res.PerQuestion[i] = r
	}
	return res, nil
}

func (r ScoreResult) Percent() int { return Percent(r.CorrectCount, r.Total) }

func (r ScoreResult) Band() Band { return Classify(r.CorrectCount, r.Total) }

// Percent is correct/total*100 rounded to the nearest integer.
func Percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct*100) / float64(total)))
}

type Band string

const (
	BandLow    Band = "low"
	BandMedium Band = "medium"
	BandHigh   Band = "high"
)

// Classify buckets a score: up to 69% is low, up to 89% medium, above that high.
func Classify(correct, total int) Band {
	switch pct := Percent(correct, total); {
	case pct <= 69:
		return BandLow
	case pct <= 89:
		return BandMedium
	default:
		return BandHigh
	}
}
