package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type Handlers struct {
	Finance      *FinanceHandler
	Transactions *TransactionHandler
	Chat         *ChatHandler
	Voice        *VoiceHandler
	Receipts     *ReceiptHandler
}

// RouterOptions holds the cross-cutting pieces. Limiter and Metrics may be nil.
type RouterOptions struct {
	Logger       *logrus.Logger
	Limiter      *RateLimiter
	Metrics      *HTTPMetrics
	Gatherer     prometheus.Gatherer
	MaxBodyBytes int64
}

type healthResponse struct {
	Status string `json:"status"`
}

func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func NewRouter(h Handlers, opts RouterOptions) *mux.Router {
	r := mux.NewRouter()

	r.Use(RequestIDMiddleware, LoggingMiddleware(opts.Logger))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	if opts.MaxBodyBytes > 0 {
		r.Use(BodyLimitMiddleware(opts.MaxBodyBytes))
	}

	r.HandleFunc("/health", health).Methods(http.MethodGet)
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	limited := func(prefix string) *mux.Router {
		sr := r.PathPrefix(prefix).Subrouter()
		if opts.Limiter != nil {
			sr.Use(opts.Limiter.Middleware)
		}
		return sr
	}

	finance := limited("/finance")
	finance.HandleFunc("/rates", h.Finance.Rates).Methods(http.MethodGet)
	finance.HandleFunc("/payoff", h.Finance.Payoff).Methods(http.MethodPost)
	finance.HandleFunc("/freedom", h.Finance.Freedom).Methods(http.MethodPost)
	finance.HandleFunc("/growth", h.Finance.Growth).Methods(http.MethodPost)
	finance.HandleFunc("/impact", h.Finance.Impact).Methods(http.MethodPost)
	finance.HandleFunc("/scenario", h.Finance.Scenario).Methods(http.MethodPost)
	finance.HandleFunc("/score", h.Finance.Score).Methods(http.MethodPost)

	users := r.PathPrefix("/users/{userID}").Subrouter()
	users.HandleFunc("/transactions", h.Transactions.Create).Methods(http.MethodPost)
	users.HandleFunc("/transactions", h.Transactions.List).Methods(http.MethodGet)
	users.HandleFunc("/score", h.Transactions.Score).Methods(http.MethodGet)
	users.HandleFunc("/cashflow", h.Transactions.CashFlow).Methods(http.MethodGet)

	chat := limited("/chat")
	chat.HandleFunc("/messages", h.Chat.Messages).Methods(http.MethodPost)
	chat.HandleFunc("/classify", h.Chat.Classify).Methods(http.MethodPost)
	chat.HandleFunc("/status", h.Chat.Status).Methods(http.MethodGet)

	voice := limited("/voice")
	voice.HandleFunc("/transcribe", h.Voice.Transcribe).Methods(http.MethodPost)
	voice.HandleFunc("/status", h.Voice.Status).Methods(http.MethodGet)

	receipts := limited("/receipts")
	receipts.HandleFunc("/scan", h.Receipts.Scan).Methods(http.MethodPost)
	receipts.HandleFunc("/status", h.Receipts.Status).Methods(http.MethodGet)

	return r
}
