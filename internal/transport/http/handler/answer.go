package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chemebot/internal/app"
	"chemebot/internal/model"
	"chemebot/internal/transport/http/response"
)

type AnswerHandler struct {
	answerService *app.AnswerService
}

type AskRequest struct {
	Question    string `json:"question" binding:"required"`
	WebSearch   *bool  `json:"web_search"`
	ShowSources *bool  `json:"show_sources"`
}

type SourceRef struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type AskResponse struct {
	Text          string         `json:"text"`
	Category      model.Category `json:"category"`
	Sources       []SourceRef    `json:"sources,omitempty"`
	RelatedTopics []string       `json:"related_topics,omitempty"`
	WebEnhanced   bool           `json:"web_enhanced"`
	ProcessingMS  int64          `json:"processing_ms"`
}

func NewAnswerHandler(answerService *app.AnswerService) *AnswerHandler {
	return &AnswerHandler{answerService: answerService}
}

func (h *AnswerHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	answer, err := h.answerService.AnswerQuestion(c.Request.Context(), app.AskInput{
		Question:  req.Question,
		WebSearch: boolOrDefault(req.WebSearch, true),
	})
	if err != nil {
		writeAnswerError(c, err)
		return
	}

	response.OK(c, buildAskResponse(answer, boolOrDefault(req.ShowSources, true)))
}

func (h *AnswerHandler) Stream(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "stream not supported")
		return
	}

	answer, err := h.answerService.StreamAnswer(c.Request.Context(), app.AskInput{
		Question:  req.Question,
		WebSearch: boolOrDefault(req.WebSearch, true),
	}, func(chunk string) error {
		if _, writeErr := c.Writer.Write([]byte("data: " + sanitizeSSE(chunk) + "\n\n")); writeErr != nil {
			return writeErr
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		if _, writeErr := c.Writer.Write([]byte("event: error\ndata: " + sseErrorMessage(err) + "\n\n")); writeErr == nil {
			flusher.Flush()
		}
		return
	}

	payload, marshalErr := marshalSSE(buildAskResponse(answer, boolOrDefault(req.ShowSources, true)))
	if marshalErr != nil {
		return
	}
	if _, writeErr := c.Writer.Write([]byte("event: done\ndata: " + payload + "\n\n")); writeErr == nil {
		flusher.Flush()
	}
}

func buildAskResponse(answer *model.Answer, showSources bool) AskResponse {
	resp := AskResponse{
		Text:          answer.Text,
		Category:      answer.Category,
		RelatedTopics: answer.RelatedTopics,
		WebEnhanced:   answer.WebEnhanced,
		ProcessingMS:  answer.ProcessingMS,
	}
	if showSources {
		resp.Sources = make([]SourceRef, 0, len(answer.Sources))
		for _, src := range answer.Sources {
			resp.Sources = append(resp.Sources, SourceRef{Title: src.Title, URL: src.URL})
		}
	}
	return resp
}

// writeAnswerError maps service sentinels to HTTP codes. Generation
// failures get a fixed message so backend error text never reaches
// the client.
func writeAnswerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrQuestionEmpty),
		errors.Is(err, app.ErrQuestionTooShort),
		errors.Is(err, app.ErrQuestionTooLong):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrGeneration):
		response.Error(c, http.StatusBadGateway, response.CodeGenerationFailed, "the answer service is temporarily unavailable, please try again")
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "answer question failed")
	}
}

func sseErrorMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrQuestionEmpty),
		errors.Is(err, app.ErrQuestionTooShort),
		errors.Is(err, app.ErrQuestionTooLong):
		return sanitizeSSE(err.Error())
	default:
		return "the answer service is temporarily unavailable, please try again"
	}
}

func boolOrDefault(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
