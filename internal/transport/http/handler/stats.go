package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chemebot/internal/app"
	"chemebot/internal/transport/http/response"
)

type StatsHandler struct {
	statsService *app.StatsService
}

func NewStatsHandler(statsService *app.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

func (h *StatsHandler) Usage(c *gin.Context) {
	stats, err := h.statsService.Usage(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "load usage stats failed")
		return
	}
	response.OK(c, stats)
}
