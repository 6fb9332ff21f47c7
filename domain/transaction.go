package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	TransactionIncome       TransactionKind = "income"
	TransactionExpense      TransactionKind = "expense"
	TransactionConversation TransactionKind = "conversation"
)

type TransactionSource string

const (
	SourceManual TransactionSource = "manual"
	SourceVoice  TransactionSource = "voice"
	SourceOCR    TransactionSource = "ocr"
	SourceChat   TransactionSource = "chat"
)

type Transaction struct {
	ID          string            `json:"id,omitempty"`
	UserID      string            `json:"user_id,omitempty"`
	Kind        TransactionKind   `json:"kind"`
	Amount      decimal.Decimal   `json:"amount"`
	Category    string            `json:"category"`
	Description string            `json:"description,omitempty"`
	Date        time.Time         `json:"date"`
	Source      TransactionSource `json:"source,omitempty"`
}

// CashFlowSummary aggregates a transaction history.
type CashFlowSummary struct {
	TotalIncome  decimal.Decimal            `json:"total_income"`
	TotalExpense decimal.Decimal            `json:"total_expense"`
	Net          decimal.Decimal            `json:"net"`
	ByCategory   map[string]decimal.Decimal `json:"by_category"`
	Status       string                     `json:"status"`
}
