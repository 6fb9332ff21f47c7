package http

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"finance-coach/service"
)

type ReceiptHandler struct {
	receipts     *service.ReceiptService
	transactions transactionRecorder
	log          *logrus.Logger
}

func NewReceiptHandler(receipts *service.ReceiptService, transactions *service.TransactionService, logger *logrus.Logger) *ReceiptHandler {
	return &ReceiptHandler{receipts: receipts, transactions: transactions, log: logger}
}

// Scan takes a multipart "image" with optional "user_id" and financial
// context fields. With a user id the detected expense is stored.
func (h *ReceiptHandler) Scan(w http.ResponseWriter, r *http.Request) {
	if !h.receipts.IsAvailable() {
		writeError(w, r, h.log, service.ErrUnavailable)
		return
	}

	image, err := readUpload(r, "image")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	fc, err := formContext(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	result, err := h.receipts.Scan(r.Context(), image, fc)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if userID := r.FormValue("user_id"); userID != "" && result.Transaction != nil {
		saved, err := h.transactions.Record(r.Context(), userID, *result.Transaction)
		if err != nil {
			requestLogger(h.log, r).WithError(err).Warn("could not store receipt expense")
		} else {
			result.Transaction = &saved
		}
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ReceiptHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, availabilityResponse{Available: h.receipts.IsAvailable()})
}
