package http

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"finance-coach/domain"
	"finance-coach/service"
)

// transactionRecorder stores a detected transaction for a user.
type transactionRecorder interface {
	Record(ctx context.Context, userID string, t domain.Transaction) (domain.Transaction, error)
}

type ChatHandler struct {
	chat         *service.ChatService
	transactions transactionRecorder
	log          *logrus.Logger
}

func NewChatHandler(chat *service.ChatService, transactions *service.TransactionService, logger *logrus.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, transactions: transactions, log: logger}
}

type chatResponse struct {
	domain.ChatReply
	Saved *domain.Transaction `json:"saved_transaction,omitempty"`
}

func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	var input domain.ChatMessageInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	reply, err := h.chat.Send(r.Context(), input.Message, input.Context)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		ChatReply: reply,
		Saved:     h.store(r, input.UserID, reply.Transaction, domain.SourceChat),
	})
}

// store records a detected transaction for userID. Storage failures are
// logged; the reply is still returned.
func (h *ChatHandler) store(r *http.Request, userID string, cl *domain.Classification, source domain.TransactionSource) *domain.Transaction {
	t, ok := h.chat.ToTransaction(userID, cl, source)
	if !ok {
		return nil
	}
	saved, err := h.transactions.Record(r.Context(), userID, t)
	if err != nil {
		requestLogger(h.log, r).WithError(err).Warn("could not store detected transaction")
		return nil
	}
	return &saved
}

type classifyRequest struct {
	Message string `json:"message"`
}

func (h *ChatHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var input classifyRequest
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	cl, err := h.chat.Classify(r.Context(), input.Message)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, cl)
}

func (h *ChatHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.chat.Status(r.Context()))
}
