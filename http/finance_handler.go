package http

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"finance-coach/domain"
	"finance-coach/service"
)

const noDebtMessage = "No active debt to measure this expense against."

type FinanceHandler struct {
	service *service.FinanceService
	log     *logrus.Logger
}

func NewFinanceHandler(service *service.FinanceService, logger *logrus.Logger) *FinanceHandler {
	return &FinanceHandler{service: service, log: logger}
}

type ratesResponse struct {
	DefaultMonthlyRate string                 `json:"default_monthly_rate"`
	Rates              []domain.ReferenceRate `json:"rates"`
}

func (h *FinanceHandler) Rates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ratesResponse{
		DefaultMonthlyRate: h.service.DefaultRate().String(),
		Rates:              h.service.Rates(),
	})
}

func (h *FinanceHandler) Payoff(w http.ResponseWriter, r *http.Request) {
	var input domain.PayoffInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	result, err := h.service.Payoff(r.Context(), input)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *FinanceHandler) Freedom(w http.ResponseWriter, r *http.Request) {
	var input domain.FreedomInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	result, err := h.service.Freedom(r.Context(), input)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *FinanceHandler) Growth(w http.ResponseWriter, r *http.Request) {
	var input domain.GrowthInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	result, err := h.service.Growth(r.Context(), input)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type impactResponse struct {
	Impact  *domain.ImpactReport `json:"impact"`
	Message string               `json:"message,omitempty"`
}

func (h *FinanceHandler) Impact(w http.ResponseWriter, r *http.Request) {
	var input domain.ImpactInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	result, err := h.service.Impact(r.Context(), input)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if result == nil {
		writeJSON(w, http.StatusOK, impactResponse{Message: noDebtMessage})
		return
	}
	writeJSON(w, http.StatusOK, impactResponse{Impact: result, Message: result.CoachMessage})
}

func (h *FinanceHandler) Scenario(w http.ResponseWriter, r *http.Request) {
	var input domain.ScenarioInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	result, err := h.service.Scenario(r.Context(), input)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type scoreRequest struct {
	Transactions []domain.Transaction `json:"transactions"`
}

func (h *FinanceHandler) Score(w http.ResponseWriter, r *http.Request) {
	var input scoreRequest
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, h.service.Score(r.Context(), input.Transactions))
}
