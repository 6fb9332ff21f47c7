package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"finance-coach/domain"
	"finance-coach/service"
)

type TransactionHandler struct {
	service *service.TransactionService
	log     *logrus.Logger
}

func NewTransactionHandler(service *service.TransactionService, logger *logrus.Logger) *TransactionHandler {
	return &TransactionHandler{service: service, log: logger}
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.Transaction
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	input.ID = ""

	saved, err := h.service.Record(r.Context(), mux.Vars(r)["userID"], input)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

type transactionsResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), mux.Vars(r)["userID"])
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, transactionsResponse{Transactions: list})
}

func (h *TransactionHandler) Score(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Score(r.Context(), mux.Vars(r)["userID"])
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *TransactionHandler) CashFlow(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.CashFlow(r.Context(), mux.Vars(r)["userID"])
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
