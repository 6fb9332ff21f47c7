package http

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatHandler_MessageStoresTransaction(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	w := s.do(t, http.MethodPost, "/chat/messages", `{
		"message": "gastei 600 no ifood",
		"user_id": "u1",
		"context": {"current_balance": 100, "total_debt": 5000, "monthly_payment": 500}
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "expense", body["detected_kind"])
	assert.Equal(t, "fallback", body["provider"])
	assert.NotEmpty(t, body["reply"])

	impact, ok := body["impact"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(60), impact["additional_days"])

	saved, ok := body["saved_transaction"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "chat", saved["source"])
	assert.Equal(t, "food", saved["category"])

	list, err := s.transactions.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestChatHandler_MessageWithoutUserIsNotStored(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	w := s.do(t, http.MethodPost, "/chat/messages", `{"message": "gastei 60 no ifood", "context": {"current_balance": 300}}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.NotContains(t, body, "saved_transaction")
	assert.NotContains(t, body, "impact")
}

func TestChatHandler_MessageValidation(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	w := s.do(t, http.MethodPost, "/chat/messages", `{"message": "   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	long := strings.Repeat("a", 2001)
	w = s.do(t, http.MethodPost, "/chat/messages", `{"message": "`+long+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatHandler_Classify(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	w := s.do(t, http.MethodPost, "/chat/classify", `{"message": "recebi 3000 de salário"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "income", body["kind"])
	assert.Equal(t, "salary", body["category"])
	assert.Equal(t, "3000", body["amount"])
}

func TestChatHandler_Status(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	w := s.do(t, http.MethodGet, "/chat/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"online","provider":"fallback","available":true}`, w.Body.String())
}
