package service

import "github.com/shopspring/decimal"

const (
	MaxGrowthMonths   = 1200 // 100 years
	MaxMessageLength  = 2000
	DescriptionLength = 50 // stored description for chat-detected transactions

	ProviderFallback = "fallback"

	DefaultOpenAIBaseURL            = "https://api.openai.com/v1"
	DefaultOpenAIModel              = "gpt-4o-mini"
	DefaultOpenAITranscriptionModel = "whisper-1"

	// Receipt values outside (0, MaxReceiptTotal) are treated as OCR noise.
	MaxReceiptTotal = 100_000
	MaxReceiptItem  = 10_000
)

// DefaultMonthlyRate is used when a request carries no rate.
var DefaultMonthlyRate = decimal.RequireFromString("0.05")
