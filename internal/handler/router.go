package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sanjeev23oct/moodle-augment-2/internal/adapter"
	"github.com/sanjeev23oct/moodle-augment-2/internal/apperr"
	"github.com/sanjeev23oct/moodle-augment-2/internal/config"
	"github.com/sanjeev23oct/moodle-augment-2/internal/domain"
	"github.com/sanjeev23oct/moodle-augment-2/internal/metrics"
	"github.com/sanjeev23oct/moodle-augment-2/internal/question"
)

// Service name labels shared by logs and metrics.
const (
	ChatServiceName     = "chat-server"
	QuestionServiceName = "question-server"
)

// NewChatRouter assembles the chat service router: middleware chain, chat
// dispatch, health, and metrics exposition.
func NewChatRouter(cfg *config.Configuration, logger *slog.Logger, providers map[domain.ProviderType]adapter.ChatProvider) *gin.Engine {
	metrics.Register()

	router := newRouter(cfg, logger, ChatServiceName)

	chatHandler := NewChatHandler(providers, logger)
	healthHandler := NewHealthHandler(cfg, domain.ChatProviders)

	router.POST("/chat/:provider", chatHandler.HandleChat)
	router.GET("/health", healthHandler.HandleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// NewQuestionRouter assembles the question service router.
func NewQuestionRouter(
	cfg *config.Configuration,
	logger *slog.Logger,
	providers map[domain.ProviderType]adapter.QuestionProvider,
	service *question.Service,
) *gin.Engine {
	metrics.Register()

	router := newRouter(cfg, logger, QuestionServiceName)

	questionHandler := NewQuestionHandler(providers, service, cfg.Upload.MaxFileSize, logger)
	healthHandler := NewHealthHandler(cfg, domain.QuestionProviders)

	router.POST("/generate-questions/:provider", questionHandler.HandleGenerateQuestions)
	router.POST("/generate-questions/:provider/json", questionHandler.HandleGenerateQuestionsJSON)
	router.GET("/health", healthHandler.HandleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// newRouter builds the engine and middleware chain both services share.
func newRouter(cfg *config.Configuration, logger *slog.Logger, service string) *gin.Engine {
	router := gin.New()

	router.Use(RecoveryMiddleware(logger))
	router.Use(CORSMiddleware(cfg.CORS.OriginList()))
	router.Use(RequestIDMiddleware())
	router.Use(LoggingMiddleware(logger))
	router.Use(MetricsMiddleware(service))

	// Unmatched routes answer with the shared envelope instead of gin's
	// plain-text default.
	router.NoRoute(func(c *gin.Context) {
		writeError(c, apperr.NotFound("Not Found"))
	})

	return router
}
