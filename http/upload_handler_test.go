package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance-coach/domain"
)

var receiptLines = []domain.OCRLine{
	{Text: "SUPERMERCADO BOM PRECO", Confidence: 0.9},
	{Text: "05/03/2024 14:22", Confidence: 0.85},
	{Text: "ARROZ 5KG R$ 25,90", Confidence: 0.9},
	{Text: "FEIJAO 1KG 8,50", Confidence: 0.9},
	{Text: "TOTAL R$ 34,40", Confidence: 0.95},
}

func TestReceiptHandler_ScanStoresExpense(t *testing.T) {
	s := newTestServer(t, serverOptions{recognizer: &stubRecognizer{lines: receiptLines}})

	w := s.upload(t, "/receipts/scan", "image", []byte("jpeg"), map[string]string{
		"user_id":         "u1",
		"total_debt":      "5000",
		"monthly_payment": "500",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	tx, ok := body["transaction"].(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, tx["id"])
	assert.Equal(t, "34.4", tx["amount"])
	assert.Equal(t, "food", tx["category"])
	assert.Equal(t, "ocr", tx["source"])
	assert.NotNil(t, body["impact"])

	list, err := s.transactions.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2024-03-05", list[0].Date.Format("2006-01-02"))
}

func TestReceiptHandler_ScanWithoutTotal(t *testing.T) {
	s := newTestServer(t, serverOptions{recognizer: &stubRecognizer{lines: []domain.OCRLine{{Text: "blurry", Confidence: 0.2}}}})

	w := s.upload(t, "/receipts/scan", "image", []byte("jpeg"), map[string]string{"user_id": "u1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, decodeBody(t, w), "transaction")

	list, err := s.transactions.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestReceiptHandler_ScanTooLarge(t *testing.T) {
	s := newTestServer(t, serverOptions{recognizer: &stubRecognizer{lines: receiptLines}, maxBody: 1024})

	w := s.upload(t, "/receipts/scan", "image", bytes.Repeat([]byte("j"), 8<<10), nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code, w.Body.String())
	assert.NotEmpty(t, decodeBody(t, w)["error"])

	w = s.upload(t, "/receipts/scan", "image", []byte("jpeg"), nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestReceiptHandler_Errors(t *testing.T) {
	unavailable := newTestServer(t, serverOptions{})
	w := unavailable.upload(t, "/receipts/scan", "image", []byte("jpeg"), nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	s := newTestServer(t, serverOptions{recognizer: &stubRecognizer{lines: receiptLines}})
	w = s.upload(t, "/receipts/scan", "image", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.upload(t, "/receipts/scan", "image", []byte("jpeg"), map[string]string{"total_debt": "lots"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	failing := newTestServer(t, serverOptions{recognizer: &stubRecognizer{err: errors.New("engine crashed")}})
	w = failing.upload(t, "/receipts/scan", "image", []byte("jpeg"), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
}

func TestVoiceHandler_Transcribe(t *testing.T) {
	s := newTestServer(t, serverOptions{transcriber: &stubTranscriber{text: "recebi 3000 de salário"}})

	w := s.upload(t, "/voice/transcribe", "audio", []byte("webm"), map[string]string{
		"format":          "webm",
		"user_id":         "u1",
		"current_balance": "100",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	tr, ok := body["transcription"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "recebi 3000 de salário", tr["text"])

	chat, ok := body["chat"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "income", chat["detected_kind"])

	saved, ok := body["saved_transaction"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "voice", saved["source"])
}

func TestVoiceHandler_Unavailable(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	w := s.upload(t, "/voice/transcribe", "audio", []byte("webm"), nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = s.do(t, http.MethodGet, "/voice/status", "")
	assert.JSONEq(t, `{"available":false}`, w.Body.String())
}
