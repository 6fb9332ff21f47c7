package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialContext is what the caller knows about the user when chatting.
type FinancialContext struct {
	CurrentBalance decimal.Decimal `json:"current_balance"`
	TotalDebt      decimal.Decimal `json:"total_debt"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
}

// Classification is the structured reading of a free-text message.
type Classification struct {
	Kind        TransactionKind  `json:"kind"`
	Category    string           `json:"category"`
	Amount      *decimal.Decimal `json:"amount"`
	Description string           `json:"description"`
}

type ChatMessageInput struct {
	Message string           `json:"message"`
	UserID  string           `json:"user_id,omitempty"`
	Context FinancialContext `json:"context"`
}

type ChatReply struct {
	Reply        string          `json:"reply"`
	DetectedKind TransactionKind `json:"detected_kind"`
	Transaction  *Classification `json:"transaction,omitempty"`
	Impact       *ImpactReport   `json:"impact,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
	Provider     string          `json:"provider"`
}

type ChatStatus struct {
	Status    string `json:"status"`
	Provider  string `json:"provider"`
	Available bool   `json:"available"`
}

// Transcription is the text recovered from a voice message.
type Transcription struct {
	Text     string  `json:"text"`
	Language string  `json:"language,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

type VoiceReply struct {
	Transcription Transcription `json:"transcription"`
	Chat          ChatReply     `json:"chat"`
}
