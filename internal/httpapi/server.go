// Package httpapi exposes the learner-facing HTTP surface. Question
// payloads returned here are always answer-key-free views; answer checking
// happens server-side only.
package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ascendprep/ascend/internal/assessment"
	"github.com/ascendprep/ascend/internal/config"
	"github.com/ascendprep/ascend/internal/logging"
	"github.com/ascendprep/ascend/internal/question"
	"github.com/ascendprep/ascend/internal/store"
)

// Server carries the handler dependencies.
type Server struct {
	cfg      *config.Config
	log      *logging.Logger
	learners *store.LearnerRepo
	assess   *assessment.Service
	bank     func() ([]question.Question, error)

	now func() time.Time
}

// New builds a Server. bank is the (cached) question bank loader.
func New(cfg *config.Config, log *logging.Logger, learners *store.LearnerRepo, assess *assessment.Service, bank func() ([]question.Question, error)) *Server {
	return &Server{
		cfg:      cfg,
		log:      log,
		learners: learners,
		assess:   assess,
		bank:     bank,
		now:      time.Now,
	}
}

// Router assembles the gin engine with middleware and routes.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(s.cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1", authMiddleware(s.cfg.JWTSigningKey, s.cfg.JWTIssuer))
	{
		api.POST("/assessment/start", s.startAssessment)
		api.POST("/assessment/submit", s.submitAssessment)
		api.GET("/practice/:chapterKey", s.practiceQuestions)
		api.GET("/recovery/quiz", s.recoveryQuiz)
		api.POST("/quiz/result", s.submitQuizResult)
		api.GET("/proficiency", s.proficiencyReport)
		api.GET("/chapters/unlocked", s.unlockedChapters)
		api.PUT("/exam-target", s.setExamTarget)
	}

	return r
}
