package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"finance-coach/domain"
	"finance-coach/engine"
	"finance-coach/repository"
	"finance-coach/service"
)

type stubRecognizer struct {
	lines []domain.OCRLine
	err   error
}

func (s *stubRecognizer) IsAvailable() bool { return true }

func (s *stubRecognizer) Recognize(context.Context, []byte) ([]domain.OCRLine, error) {
	return s.lines, s.err
}

type stubTranscriber struct {
	text string
}

func (s *stubTranscriber) IsAvailable() bool { return true }

func (s *stubTranscriber) Transcribe(context.Context, []byte, string) (domain.Transcription, error) {
	return domain.Transcription{Text: s.text, Language: "pt"}, nil
}

type testServer struct {
	router       *mux.Router
	registry     *prometheus.Registry
	transactions *service.TransactionService
	limiter      *RateLimiter
}

type serverOptions struct {
	recognizer  service.TextRecognizer
	transcriber service.Transcriber
	capacity    int
	maxBody     int64
}

func newTestServer(t *testing.T, opts serverOptions) *testServer {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	reg := prometheus.NewRegistry()

	finance := service.NewFinanceService(repository.NewMemoryCache(time.Hour), log, service.NewMetrics(reg),
		engine.DefaultScorePolicy(), service.DefaultMonthlyRate)
	transactions := service.NewTransactionService(repository.NewTransactionRepositoryMemory(), finance, log)
	chat := service.NewChatService(service.NewClassifier(nil, log), service.NewCoachService(nil, "openai", log), finance, log)

	capacity := opts.capacity
	if capacity == 0 {
		capacity = 1000
	}
	maxBody := opts.maxBody
	if maxBody == 0 {
		maxBody = 1 << 20
	}
	limiter := NewRateLimiter(capacity, time.Minute)
	t.Cleanup(limiter.Stop)

	chatHandler := NewChatHandler(chat, transactions, log)
	router := NewRouter(Handlers{
		Finance:      NewFinanceHandler(finance, log),
		Transactions: NewTransactionHandler(transactions, log),
		Chat:         chatHandler,
		Voice:        NewVoiceHandler(service.NewVoiceService(opts.transcriber, chat, log), chatHandler, log),
		Receipts:     NewReceiptHandler(service.NewReceiptService(opts.recognizer, finance, log), transactions, log),
	}, RouterOptions{
		Logger:       log,
		Limiter:      limiter,
		Metrics:      NewHTTPMetrics(reg),
		Gatherer:     reg,
		MaxBodyBytes: maxBody,
	})

	return &testServer{router: router, registry: reg, transactions: transactions, limiter: limiter}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) upload(t *testing.T, path, field string, content []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if content != nil {
		fw, err := mw.CreateFormFile(field, "upload.bin")
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
