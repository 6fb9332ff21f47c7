package domain

import "github.com/shopspring/decimal"

// OCRLine is one recognized line of text with the recognizer's confidence.
type OCRLine struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

type ReceiptItem struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Confidence  float64         `json:"confidence"`
}

// Receipt is the structured data extracted from a photographed receipt.
type Receipt struct {
	Merchant   string           `json:"merchant,omitempty"`
	Total      *decimal.Decimal `json:"total,omitempty"`
	Date       string           `json:"date,omitempty"`
	Items      []ReceiptItem    `json:"items"`
	FullText   string           `json:"full_text"`
	Confidence float64          `json:"confidence"`
}

type ReceiptScanResult struct {
	Receipt     Receipt       `json:"receipt"`
	Transaction *Transaction  `json:"transaction,omitempty"`
	Impact      *ImpactReport `json:"impact,omitempty"`
}
