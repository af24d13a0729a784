package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"chemebot/internal/ai"
	"chemebot/internal/app"
	"chemebot/internal/model"
	"chemebot/internal/transport/http/response"
)

type stubRetriever struct {
	results []model.SearchResult
	err     error
}

func (r *stubRetriever) Search(ctx context.Context, query string, max int) ([]model.SearchResult, error) {
	return r.results, r.err
}

type stubGenerator struct {
	text string
	err  error
}

func (g *stubGenerator) Complete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage) (string, error) {
	return g.text, g.err
}

func (g *stubGenerator) StreamComplete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage, onChunk func(string) error) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	if err := onChunk(g.text); err != nil {
		return "", err
	}
	return g.text, nil
}

func newTestRouter(t *testing.T, retriever app.SearchRetriever, generator app.Generator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	service := app.NewAnswerService(retriever, generator, nil, nil, ai.ChatConfig{Model: "test"}, 5, zaptest.NewLogger(t))
	h := NewAnswerHandler(service)

	router := gin.New()
	router.POST("/api/v1/answers", h.Ask)
	router.POST("/api/v1/answers/stream", h.Stream)
	return router
}

func doAsk(t *testing.T, router *gin.Engine, body string) (*httptest.ResponseRecorder, response.APIResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/answers", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope response.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func TestAskReturnsAnswerWithSources(t *testing.T) {
	retriever := &stubRetriever{results: []model.SearchResult{
		{Title: "Distillation", Snippet: "separation by volatility", URL: "https://en.wikipedia.org/wiki/Distillation", Source: "wikipedia"},
	}}
	generator := &stubGenerator{text: "Distillation separates by relative volatility [1]."}
	router := newTestRouter(t, retriever, generator)

	rec, envelope := doAsk(t, router, `{"question": "how does a distillation column separate mixtures"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, response.CodeOK, envelope.Code)

	data, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var resp AskResponse
	require.NoError(t, json.Unmarshal(data, &resp))

	assert.Contains(t, resp.Text, "[1]")
	assert.True(t, resp.WebEnhanced)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Distillation", resp.Sources[0].URL)
}

func TestAskHidesSourcesWhenDisabled(t *testing.T) {
	retriever := &stubRetriever{results: []model.SearchResult{
		{Title: "Distillation", Snippet: "separation by volatility", URL: "https://en.wikipedia.org/wiki/Distillation"},
	}}
	generator := &stubGenerator{text: "Distillation separates by relative volatility [1]."}
	router := newTestRouter(t, retriever, generator)

	rec, envelope := doAsk(t, router, `{"question": "how does a distillation column separate mixtures", "show_sources": false}`)

	require.Equal(t, http.StatusOK, rec.Code)
	data, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var resp AskResponse
	require.NoError(t, json.Unmarshal(data, &resp))

	assert.Empty(t, resp.Sources)
	assert.True(t, resp.WebEnhanced)
}

func TestAskRejectsMissingQuestion(t *testing.T) {
	router := newTestRouter(t, &stubRetriever{}, &stubGenerator{text: "ok answer"})

	rec, envelope := doAsk(t, router, `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, response.CodeBadRequest, envelope.Code)
}

func TestAskRejectsTooShortQuestion(t *testing.T) {
	router := newTestRouter(t, &stubRetriever{}, &stubGenerator{text: "ok answer"})

	rec, envelope := doAsk(t, router, `{"question": "pH"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, response.CodeBadRequest, envelope.Code)
}

func TestAskDegradesWhenRetrievalFails(t *testing.T) {
	retriever := &stubRetriever{err: errors.New("upstream unavailable")}
	generator := &stubGenerator{text: "An azeotrope is a constant boiling mixture."}
	router := newTestRouter(t, retriever, generator)

	rec, envelope := doAsk(t, router, `{"question": "what is an azeotrope"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	data, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var resp AskResponse
	require.NoError(t, json.Unmarshal(data, &resp))

	assert.False(t, resp.WebEnhanced)
	assert.Empty(t, resp.Sources)
	assert.NotEmpty(t, resp.Text)
}

func TestAskGenerationFailureIsSanitized(t *testing.T) {
	generator := &stubGenerator{err: errors.New("api key sk-secret rejected")}
	router := newTestRouter(t, &stubRetriever{}, generator)

	rec, envelope := doAsk(t, router, `{"question": "what is an azeotrope"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, response.CodeGenerationFailed, envelope.Code)
	assert.NotContains(t, envelope.Message, "sk-secret")
}

func TestStreamWritesChunksAndDoneEvent(t *testing.T) {
	generator := &stubGenerator{text: "Use PPE when handling benzene."}
	router := newTestRouter(t, &stubRetriever{}, generator)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/answers/stream", bytes.NewBufferString(`{"question": "is benzene safe to handle"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, "data: Use PPE when handling benzene.")
	assert.Contains(t, body, "event: done")
}

func TestStreamErrorEventHidesBackendDetail(t *testing.T) {
	generator := &stubGenerator{err: errors.New("dial tcp 10.0.0.5: connection refused")}
	router := newTestRouter(t, &stubRetriever{}, generator)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/answers/stream", bytes.NewBufferString(`{"question": "is benzene safe to handle"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, "event: error")
	assert.NotContains(t, body, "10.0.0.5")
}
