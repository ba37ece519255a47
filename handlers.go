package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"psp.com/trivia-quiz/backend/internal/opentdb"
	"psp.com/trivia-quiz/backend/internal/quiz"
	"psp.com/trivia-quiz/backend/internal/report"
)

type categorySource interface {
	Categories(ctx context.Context) ([]opentdb.Category, error)
	CategoryName(id int) (string, bool)
}

type server struct {
	sessions *sessionRegistry
	cats     categorySource
	origins  []string
}

func (s *server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.cats.Categories(r.Context())
	if err != nil {
		log.Printf("failed to fetch categories: %v", err)
		http.Error(w, "failed to load categories", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

type sessionResp struct {
	ID string `json:"id"`
	quiz.Snapshot
}

func (s *server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, sess := s.sessions.create()
	writeJSON(w, http.StatusCreated, sessionResp{ID: id, Snapshot: sess.Snapshot()})
}

func (s *server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResp{ID: id, Snapshot: sess.Snapshot()})
}

type startReq struct {
	Difficulty string `json:"difficulty"`
	Amount     int    `json:"amount"`
	Category   int    `json:"category"`
}

func (req startReq) params() quiz.Params {
	p := quiz.DefaultParams()
	if req.Difficulty != "" {
		p.Difficulty = quiz.Difficulty(req.Difficulty)
	}
	if req.Amount != 0 {
		p.Amount = req.Amount
	}
	p.CategoryID = req.Category
	return p
}

func (s *server) handleStart(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req startReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
	}

	err := sess.Start(r.Context(), req.params())
	switch {
	case err == nil, errors.Is(err, quiz.ErrNoResults):
		writeJSON(w, http.StatusOK, sessionResp{ID: id, Snapshot: sess.Snapshot()})
	case errors.Is(err, quiz.ErrInvalidParams):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, quiz.ErrSuperseded):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "failed to fetch questions", http.StatusBadGateway)
	}
}

type selectReq struct {
	Question int `json:"question"`
	Answer   int `json:"answer"`
}

func (s *server) handleSelect(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req selectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if err := sess.SelectAnswer(req.Question, req.Answer); err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResp{ID: id, Snapshot: sess.Snapshot()})
}

type scoreResp struct {
	quiz.ScoreResult
	Percent int       `json:"percent"`
	Band    quiz.Band `json:"band"`
}

func newScoreResp(res quiz.ScoreResult) scoreResp {
	return scoreResp{ScoreResult: res, Percent: res.Percent(), Band: res.Band()}
}

func (s *server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.Submit(); err != nil {
		writeSessionError(w, err)
		return
	}
	res, err := sess.Score()
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newScoreResp(res))
}

func (s *server) handleReset(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.Reset()
	writeJSON(w, http.StatusOK, sessionResp{ID: id, Snapshot: sess.Snapshot()})
}

func (s *server) handleScore(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	res, err := sess.Score()
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newScoreResp(res))
}

func (s *server) handleReport(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	snap := sess.Snapshot()
	res, err := quiz.Evaluate(snap)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	catName := "Any Category"
	if snap.Params.CategoryID > 0 {
		if name, ok := s.cats.CategoryName(snap.Params.CategoryID); ok {
			catName = name
		}
	}
	pdfBytes, err := report.GeneratePDF(report.Data{
		SessionID:  id,
		Difficulty: string(snap.Params.Difficulty),
		Category:   catName,
		Date:       s.sessions.now(),
		Result:     res,
	})
	if err != nil {
		log.Printf("report %s: %v", id, err)
		http.Error(w, "failed to generate report", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=trivia-"+slug.Make(catName)+"-"+id+".pdf")
	w.Write(pdfBytes)
}

// session resolves the {id} URL parameter, writing an error response when it fails.
func (s *server) session(w http.ResponseWriter, r *http.Request) (string, *quiz.Session, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return "", nil, false
	}
	sess, ok := s.sessions.get(id)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return "", nil, false
	}
	return id, sess, true
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrIncompleteAnswers):
		http.Error(w, "Please answer all questions before submitting!", http.StatusUnprocessableEntity)
	case errors.Is(err, quiz.ErrOutOfRange):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, quiz.ErrInvalidState):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
