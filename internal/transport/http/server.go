package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"chemebot/internal/ai"
	"chemebot/internal/app"
	"chemebot/internal/bootstrap"
	"chemebot/internal/cache"
	"chemebot/internal/platform/rabbitmq"
	"chemebot/internal/search"
	"chemebot/internal/transport/http/handler"
)

// NewRouter assembles the question pipeline from the resources the
// bootstrap opened and mounts the HTTP surface on a gin engine.
func NewRouter(application *bootstrap.App) *gin.Engine {
	cfg := application.Config
	gin.SetMode(cfg.App.GinMode)

	searchTimeout := time.Duration(cfg.Search.TimeoutSeconds) * time.Second
	retriever := search.NewRetriever(
		[]search.Provider{
			search.NewWikipediaProvider(cfg.Search.WikipediaBaseURL, cfg.Search.UserAgent, searchTimeout),
			search.NewCuratedProvider(),
		},
		search.DefaultScorer,
		search.NewPageExtractor(cfg.Search.UserAgent, searchTimeout),
		searchTimeout,
		application.Logger,
	)

	generator := ai.NewOpenAICompatibleClient(time.Duration(cfg.LLM.TimeoutSeconds) * time.Second)
	chatCfg := ai.ChatConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	}

	var publisher app.InteractionPublisher
	if application.MQConn != nil {
		publisher = rabbitmq.NewInteractionPublisher(application.MQConn, cfg.RabbitMQ.InteractionQueue)
	}

	var answerCache app.AnswerCache
	if application.Redis != nil {
		answerCache = cache.NewAnswerCache(application.Redis, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
	}

	answerService := app.NewAnswerService(
		retriever,
		generator,
		publisher,
		answerCache,
		chatCfg,
		cfg.Search.MaxResults,
		application.Logger,
	)

	var statsSource app.StatsSource
	if application.InteractionRepo != nil {
		statsSource = application.InteractionRepo
	}
	statsService := app.NewStatsService(statsSource)

	answerHandler := handler.NewAnswerHandler(answerService)
	statsHandler := handler.NewStatsHandler(statsService)
	healthHandler := handler.NewHealthHandler(application)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/healthz", healthHandler.Check)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/answers", answerHandler.Ask)
		v1.POST("/answers/stream", answerHandler.Stream)
		v1.GET("/stats", statsHandler.Usage)
	}

	return router
}
