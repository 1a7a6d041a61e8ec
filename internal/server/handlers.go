package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/codetrain/internal/mastery"
	"github.com/abhisek/codetrain/internal/report"
	"github.com/abhisek/codetrain/internal/session"
	"github.com/abhisek/codetrain/internal/skills"
)

type taskRequest struct {
	TaskID int64  `json:"task_id" binding:"required"`
	Code   string `json:"code"`
}

func (s *Server) listSkills(c *gin.Context) {
	all := skills.All()
	out := make([]skillView, len(all))
	for i, sk := range all {
		out[i] = newSkillView(sk)
	}
	c.JSON(http.StatusOK, gin.H{"skills": out})
}

func (s *Server) startSession(c *gin.Context) {
	learnerID := c.Param("learner")
	ctx := c.Request.Context()

	if _, err := s.deps.Learners.Ensure(ctx, learnerID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register learner", "details": err.Error()})
		return
	}

	sess, err := s.deps.Sessions.Start(ctx, learnerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session", "details": err.Error()})
		return
	}

	s.add(sess)

	c.JSON(http.StatusCreated, gin.H{
		"session_id": sess.ID(),
		"learner_id": learnerID,
		"progress":   newProgressView(sess.Progress()),
	})
}

// withSession resolves the :id parameter or answers 404.
func (s *Server) withSession(c *gin.Context) (*session.Session, bool) {
	sess, ok := s.session(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil, false
	}
	return sess, true
}

// sessionError maps session errors to responses. Skipped cycles answer 503
// so clients can call next again.
func sessionError(c *gin.Context, sess *session.Session, err error) {
	switch {
	case session.IsSkippable(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":    err.Error(),
			"skipped":  true,
			"progress": newProgressView(sess.Progress()),
		})
	case errors.Is(err, session.ErrHintLimit):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrUnknownTask):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrSessionComplete):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "done": true})
	case errors.Is(err, session.ErrSessionClosed):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (s *Server) sessionProgress(c *gin.Context) {
	sess, ok := s.withSession(c)
	if !ok {
		return
	}
	resp := gin.H{
		"session_id": sess.ID(),
		"learner_id": sess.LearnerID(),
		"progress":   newProgressView(sess.Progress()),
	}
	if cur := sess.Current(); cur != nil {
		resp["current"] = newCycleView(cur)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) nextTask(c *gin.Context) {
	sess, ok := s.withSession(c)
	if !ok {
		return
	}
	cycle, err := sess.Next(c.Request.Context())
	if err != nil {
		s.releaseIfDone(c, sess)
		sessionError(c, sess, err)
		return
	}
	c.JSON(http.StatusOK, newCycleView(cycle))
}

func (s *Server) requestHint(c *gin.Context) {
	sess, ok := s.withSession(c)
	if !ok {
		return
	}
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	hint, err := sess.Hint(c.Request.Context(), req.TaskID, req.Code)
	if err != nil {
		sessionError(c, sess, err)
		return
	}
	resp := gin.H{"hint": hint}
	if cur := sess.Current(); cur != nil {
		resp["hints_left"] = cur.HintsLeft
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) submit(c *gin.Context) {
	sess, ok := s.withSession(c)
	if !ok {
		return
	}
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	res, err := sess.Submit(c.Request.Context(), req.TaskID, req.Code)
	if err != nil {
		s.releaseIfDone(c, sess)
		sessionError(c, sess, err)
		return
	}
	view := newResultView(res)
	if res.Done {
		sum, _, err := s.release(c.Request.Context(), sess.ID())
		if sum != nil {
			v := newSummaryView(sum)
			view.Summary = &v
		}
		if err != nil {
			if view.Warning != "" {
				view.Warning += "; "
			}
			view.Warning += err.Error()
		}
	}
	c.JSON(http.StatusOK, view)
}

// releaseIfDone closes a session whose last cycle was just skipped.
func (s *Server) releaseIfDone(c *gin.Context, sess *session.Session) {
	if !sess.Done() {
		return
	}
	if _, _, err := s.release(c.Request.Context(), sess.ID()); err != nil {
		fmt.Fprintf(os.Stderr, "warning: close finished session %s: %v\n", sess.ID(), err)
	}
}

func (s *Server) endSession(c *gin.Context) {
	sum, ok, err := s.release(c.Request.Context(), c.Param("id"))
	if !ok || (err != nil && sum == nil) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	resp := gin.H{"summary": newSummaryView(sum)}
	if err != nil {
		resp["warning"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) loadLevels(c *gin.Context, learnerID string) ([]mastery.SkillLevel, bool) {
	m, err := s.deps.Mastery.Load(c.Request.Context(), learnerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load mastery", "details": err.Error()})
		return nil, false
	}
	return m.Levels(), true
}

func (s *Server) learnerMastery(c *gin.Context) {
	learnerID := c.Param("learner")
	levels, ok := s.loadLevels(c, learnerID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"learner_id": learnerID, "levels": newLevelViews(levels)})
}

func (s *Server) learnerReport(c *gin.Context) {
	learnerID := c.Param("learner")
	levels, ok := s.loadLevels(c, learnerID)
	if !ok {
		return
	}
	stats, err := s.deps.Attempts.Stats(c.Request.Context(), learnerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load attempts", "details": err.Error()})
		return
	}

	r := report.Aggregate(report.FromStats(learnerID, stats, levels))
	noLLM, _ := strconv.ParseBool(c.DefaultQuery("no_llm", "false"))
	if !noLLM && s.deps.Renderer != nil {
		r.HumanFeedback = s.deps.Renderer.Render(c.Request.Context(), r)
	}
	c.JSON(http.StatusOK, r)
}
