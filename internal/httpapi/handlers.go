package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ascendprep/ascend/internal/assessment"
	"github.com/ascendprep/ascend/internal/practice"
	"github.com/ascendprep/ascend/internal/question"
	"github.com/ascendprep/ascend/internal/recovery"
	"github.com/ascendprep/ascend/internal/sampling"
	"github.com/ascendprep/ascend/internal/sequence"
	"github.com/ascendprep/ascend/internal/store"
	"github.com/ascendprep/ascend/internal/unlock"
)

func views(qs []question.Question) []question.View {
	out := make([]question.View, len(qs))
	for i, q := range qs {
		out[i] = question.ViewOf(q)
	}
	return out
}

func questionIDs(qs []question.Question) []string {
	ids := make([]string, len(qs))
	for i, q := range qs {
		ids[i] = q.ID
	}
	return ids
}

// startAssessment builds the learner's deterministic 30-item diagnostic
// sequence and records it as a session.
func (s *Server) startAssessment(c *gin.Context) {
	learner := learnerID(c)

	pool, err := s.bank()
	if err != nil {
		s.log.Error("load question bank", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "question bank unavailable"})
		return
	}

	seq, err := sequence.Build(pool, learner, s.log)
	if err != nil {
		var poolErr *sequence.InsufficientPoolError
		if errors.As(err, &poolErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": poolErr.Error()})
			return
		}
		s.log.Error("build assessment sequence", "learner_id", learner, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build assessment"})
		return
	}

	session := store.Session{
		ID:          uuid.NewString(),
		LearnerID:   learner,
		Kind:        store.SessionAssessment,
		QuestionIDs: questionIDs(seq),
		CreatedAt:   s.now(),
	}
	if err := s.learners.SaveSession(c.Request.Context(), session); err != nil {
		s.log.Error("save assessment session", "learner_id", learner, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": session.ID,
		"questions":  views(seq),
	})
}

type submittedAnswer struct {
	QuestionID string `json:"question_id" binding:"required"`
	Answer     string `json:"answer"`
	TimeMillis int64  `json:"time_ms"`
}

type submitAssessmentRequest struct {
	SessionID string            `json:"session_id" binding:"required"`
	Answers   []submittedAnswer `json:"answers" binding:"required"`
}

// submitAssessment verifies the answers against the stored session's
// question list, checks them against the bank's answer keys, processes the
// attempt, and persists the proficiency snapshot.
func (s *Server) submitAssessment(c *gin.Context) {
	learner := learnerID(c)

	var req submitAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	session, err := s.learners.Session(c.Request.Context(), learner, req.SessionID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}
	if err != nil {
		s.log.Error("load session", "learner_id", learner, "session_id", req.SessionID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load session"})
		return
	}
	if session.Kind != store.SessionAssessment {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session is not an assessment"})
		return
	}

	// Answers must cover the session's question list exactly: no foreign
	// questions, and duplicate submissions of the same question collapse to
	// the first occurrence.
	issued := make(map[string]bool, len(session.QuestionIDs))
	for _, id := range session.QuestionIDs {
		issued[id] = true
	}
	seen := make(map[string]bool, len(req.Answers))
	answers := make([]submittedAnswer, 0, len(session.QuestionIDs))
	for _, ans := range req.Answers {
		if !issued[ans.QuestionID] {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("question %q is not part of this session", ans.QuestionID)})
			return
		}
		if seen[ans.QuestionID] {
			s.log.Warn("duplicate answer dropped", "learner_id", learner, "session_id", session.ID, "question_id", ans.QuestionID)
			continue
		}
		seen[ans.QuestionID] = true
		answers = append(answers, ans)
	}
	if len(answers) != len(session.QuestionIDs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("answered %d of %d session questions", len(answers), len(session.QuestionIDs))})
		return
	}

	pool, err := s.bank()
	if err != nil {
		s.log.Error("load question bank", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "question bank unavailable"})
		return
	}
	byID := make(map[string]*question.Question, len(pool))
	for i := range pool {
		byID[pool[i].ID] = &pool[i]
	}

	now := s.now()
	responses := make([]assessment.Response, 0, len(answers))
	for _, ans := range answers {
		resp := assessment.Response{
			QuestionID: ans.QuestionID,
			TimeTaken:  time.Duration(ans.TimeMillis) * time.Millisecond,
			AnsweredAt: now,
		}
		if q, ok := byID[ans.QuestionID]; ok {
			resp.Subject = q.Subject
			resp.ChapterKey = q.ChapterKey
			correct, err := question.CheckAnswer(q, ans.Answer)
			if err != nil {
				s.log.Warn("uncheckable answer", "question_id", ans.QuestionID, "error", err)
			}
			resp.Correct = correct
		}
		// Session questions that have since left the bank go through with
		// empty subject/chapter and are rejected per-item by the processor,
		// with the reason logged.
		responses = append(responses, resp)
	}

	result, err := s.assess.Finalize(c.Request.Context(), learner, responses, now)
	if err != nil {
		if errors.Is(err, assessment.ErrAllRejected) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		var capErr *store.CapacityError
		if errors.As(err, &capErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": capErr.Error()})
			return
		}
		s.log.Error("finalize assessment", "learner_id", learner, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// practiceQuestions serves a focused practice set for one chapter, gated
// on the unlock timeline.
func (s *Server) practiceQuestions(c *gin.Context) {
	learner := learnerID(c)
	chapterKey := c.Param("chapterKey")

	target := s.cfg.PracticeTarget
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "count must be a positive integer"})
			return
		}
		target = n
	}

	ctx := c.Request.Context()
	if exam, err := s.learners.ExamTarget(ctx, learner); err == nil {
		state, err := s.learners.UnlockState(ctx, learner)
		if err != nil {
			s.log.Error("load unlock state", "learner_id", learner, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load unlock state"})
			return
		}
		if !unlock.IsUnlocked(chapterKey, exam, state, s.now()) {
			c.JSON(http.StatusForbidden, gin.H{"error": "chapter is not unlocked yet"})
			return
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		s.log.Error("load exam target", "learner_id", learner, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load exam target"})
		return
	}

	pool, err := s.bank()
	if err != nil {
		s.log.Error("load question bank", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "question bank unavailable"})
		return
	}
	var chapterPool []question.Question
	for _, q := range pool {
		if q.ChapterKey == chapterKey {
			chapterPool = append(chapterPool, q)
		}
	}
	if len(chapterPool) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no questions for chapter"})
		return
	}

	history, err := s.learners.ResponseHistory(ctx, learner)
	if err != nil {
		s.log.Error("load response history", "learner_id", learner, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load history"})
		return
	}

	selected := practice.Select(chapterPool, history, target)

	session := store.Session{
		ID:          uuid.NewString(),
		LearnerID:   learner,
		Kind:        store.SessionPractice,
		ChapterKey:  chapterKey,
		QuestionIDs: questionIDs(selected),
		CreatedAt:   s.now(),
	}
	if err := s.learners.SaveSession(ctx, session); err != nil {
		s.log.Error("save practice session", "learner_id", learner, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": session.ID,
		"questions":  views(selected),
	})
}

// reviewCandidates picks the pool questions whose most recent recorded
// answer was wrong, ordered by answer time ascending so the oldest open
// mistakes come up for review first.
func reviewCandidates(pool []question.Question, responses []assessment.Response) []question.Question {
	latest := make(map[string]assessment.Response, len(responses))
	for _, resp := range responses {
		if prev, ok := latest[resp.QuestionID]; !ok || resp.AnsweredAt.After(prev.AnsweredAt) {
			latest[resp.QuestionID] = resp
		}
	}

	var out []question.Question
	for _, q := range pool {
		if resp, ok := latest[q.ID]; ok && !resp.Correct {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := latest[out[i].ID], latest[out[j].ID]
		if !a.AnsweredAt.Equal(b.AnsweredAt) {
			return a.AnsweredAt.Before(b.AnsweredAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// recoveryQuiz serves the confidence-rebuilding quiz once the circuit
// breaker is active.
func (s *Server) recoveryQuiz(c *gin.Context) {
	learner := learnerID(c)
	ctx := c.Request.Context()

	state, err := s.learners.FailureState(ctx, learner)
	if err != nil {
		s.log.Error("load failure state", "learner_id", learner, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load failure state"})
		return
	}
	if !state.CircuitBreakerActive {
		c.JSON(http.StatusConflict, gin.H{"error": "circuit breaker is not active"})
		return
	}

	pool, err := s.bank()
	if err != nil {
		s.log.Error("load question bank", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "question bank unavailable"})
		return
	}

	snapshot, err := s.learners.Proficiency(ctx, learner)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.log.Error("load proficiency", "learner_id", learner, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load proficiency"})
		return
	}

	// Spaced review: questions whose latest recorded answer was wrong, the
	// longest-unreviewed mistakes first.
	responses, err := s.learners.Responses(ctx, learner)
	if err != nil {
		s.log.Error("load response history", "learner_id", learner, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load history"})
		return
	}
	review := reviewCandidates(pool, responses)

	g := sampling.NewGenerator(sampling.SeedFromIdentity(learner))
	quiz, err := recovery.BuildQuiz(pool, snapshot.ChapterEstimates, review, g, s.log)
	if err != nil {
		if errors.Is(err, recovery.ErrNoQuestions) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		s.log.Error("build recovery quiz", "learner_id", learner, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build recovery quiz"})
		return
	}

	session := store.Session{
		ID:          uuid.NewString(),
		LearnerID:   learner,
		Kind:        store.SessionRecovery,
		QuestionIDs: questionIDs(quiz),
		CreatedAt:   s.now(),
	}
	if err := s.learners.SaveSession(ctx, session); err != nil {
		s.log.Error("save recovery session", "learner_id", learner, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": session.ID,
		"questions":  views(quiz),
	})
}

type quizResultRequest struct {
	Correct int `json:"correct" binding:"min=0"`
	Total   int `json:"total" binding:"required,min=1"`
}

// submitQuizResult applies one quiz outcome to the failure streak.
func (s *Server) submitQuizResult(c *gin.Context) {
	learner := learnerID(c)

	var req quizResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Correct > req.Total {
		c.JSON(http.StatusBadRequest, gin.H{"error": "correct cannot exceed total"})
		return
	}

	accuracy := float64(req.Correct) / float64(req.Total)
	state, tripped, err := s.learners.RecordQuizOutcome(c.Request.Context(), learner, accuracy)
	if err != nil {
		s.log.Error("record quiz outcome", "learner_id", learner, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record quiz outcome"})
		return
	}
	if tripped {
		s.log.Info("circuit breaker tripped", "learner_id", learner)
	}

	c.JSON(http.StatusOK, gin.H{
		"accuracy":          accuracy,
		"failure_state":     state,
		"recovery_required": state.CircuitBreakerActive,
	})
}

// proficiencyReport returns the current snapshot alongside the frozen
// baseline for delta reporting.
func (s *Server) proficiencyReport(c *gin.Context) {
	learner := learnerID(c)
	ctx := c.Request.Context()

	snapshot, err := s.learners.Proficiency(ctx, learner)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no assessment on record"})
		return
	}
	if err != nil {
		s.log.Error("load proficiency", "learner_id", learner, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load proficiency"})
		return
	}

	out := gin.H{"current": snapshot}
	if baseline, err := s.learners.Baseline(ctx, learner); err == nil {
		out["baseline"] = baseline
		out["percentile_delta"] = snapshot.OverallPercentile - baseline.OverallPercentile
	}
	c.JSON(http.StatusOK, out)
}

// unlockedChapters advances the high-water mark for the current countdown
// position and returns the cumulative unlocked set.
func (s *Server) unlockedChapters(c *gin.Context) {
	learner := learnerID(c)
	ctx := c.Request.Context()

	exam, err := s.learners.ExamTarget(ctx, learner)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no exam target set"})
		return
	}
	if err != nil {
		s.log.Error("load exam target", "learner_id", learner, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load exam target"})
		return
	}

	now := s.now()
	monthsUntil := exam.MonthsUntil(now)
	state, err := s.learners.AdvanceHighWaterMark(ctx, learner, monthsUntil)
	if err != nil {
		s.log.Error("advance high-water mark", "learner_id", learner, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update unlock state"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"countdown_position": unlock.CountdownPosition(monthsUntil),
		"high_water_mark":    state.HighWaterMark,
		"post_exam":          monthsUntil <= 0,
		"chapters":           unlock.UnlockedChapters(exam, state, now),
	})
}

type examTargetRequest struct {
	Year  int `json:"year" binding:"required,min=2000,max=2100"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

// setExamTarget stores the learner's target exam month.
func (s *Server) setExamTarget(c *gin.Context) {
	learner := learnerID(c)

	var req examTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid exam target"})
		return
	}

	exam := unlock.ExamTarget{Year: req.Year, Month: time.Month(req.Month)}
	if err := s.learners.SetExamTarget(c.Request.Context(), learner, exam); err != nil {
		s.log.Error("set exam target", "learner_id", learner, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store exam target"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exam_target": exam})
}
