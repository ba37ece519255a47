package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"psp.com/trivia-quiz/backend/internal/markup"
	"psp.com/trivia-quiz/backend/internal/quiz"
)

type Data struct {
	SessionID  string
	Difficulty string
	Category   string
	Date       time.Time
	Result     quiz.ScoreResult
}

var bandColor = map[quiz.Band][3]int{
	quiz.BandLow:    {200, 30, 30},
	quiz.BandMedium: {230, 120, 0},
	quiz.BandHigh:   {30, 150, 60},
}

// GeneratePDF renders the score and per-question review.
func GeneratePDF(data Data) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 14, "Trivia Quiz Results", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8,
		tr(fmt.Sprintf("Difficulty: %s | Category: %s | Date: %s",
			data.Difficulty, firstNonEmpty(data.Category, "Any Category"), data.Date.Format("2006-01-02"))),
		"", 1, "C", false, 0, "")

	pdf.Ln(4)
	c := bandColor[data.Result.Band()]
	pdf.SetTextColor(c[0], c[1], c[2])
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12,
		fmt.Sprintf("Your Score: %d / %d (%d%%)", data.Result.CorrectCount, data.Result.Total, data.Result.Percent()),
		"", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	pdf.Ln(4)
	for i, r := range data.Result.PerQuestion {
		mark := "CORRECT"
		if !r.IsCorrect {
			mark = "WRONG"
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d. [%s] %s", i+1, mark, markup.PlainText(r.Question))), "", "L", false)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr("Your answer: "+markup.PlainText(r.ChosenAnswer)), "", "L", false)
		pdf.MultiCell(0, 5, tr("Correct answer: "+markup.PlainText(r.CorrectAnswer)), "", "L", false)
		pdf.Ln(2)
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 8)
	pdf.MultiCell(0, 4,
		"Questions provided by the Open Trivia Database (https://opentdb.com), "+
			"licensed under Creative Commons Attribution-ShareAlike 4.0 (CC BY-SA 4.0).", "", "C", false)
	pdf.CellFormat(0, 5, "Session ID: "+data.SessionID, "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
