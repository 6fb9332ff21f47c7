package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance-coach/domain"
)

var sampleReceipt = []domain.OCRLine{
	{Text: "SUPERMERCADO BOM PRECO", Confidence: 0.9},
	{Text: "CNPJ 12.345.678/0001-90", Confidence: 0.8},
	{Text: "05/03/2024 14:22", Confidence: 0.85},
	{Text: "ARROZ 5KG R$ 25,90", Confidence: 0.9},
	{Text: "FEIJAO 1KG 8,50", Confidence: 0.9},
	{Text: "TOTAL R$ 34,40", Confidence: 0.95},
}

func TestParseReceipt(t *testing.T) {
	r := ParseReceipt(sampleReceipt)

	assert.Equal(t, "SUPERMERCADO BOM PRECO", r.Merchant)
	require.NotNil(t, r.Total)
	assert.True(t, r.Total.Equal(d("34.40")), "total %s", r.Total)
	assert.Equal(t, "2024-03-05", r.Date)
	assert.InDelta(t, 0.8833, r.Confidence, 0.001)
	assert.Contains(t, r.FullText, "FEIJAO 1KG 8,50")

	require.Len(t, r.Items, 2)
	assert.Equal(t, "ARROZ 5KG", r.Items[0].Description)
	assert.True(t, r.Items[0].Amount.Equal(d("25.90")))
	assert.Equal(t, "FEIJAO 1KG", r.Items[1].Description)
	assert.True(t, r.Items[1].Amount.Equal(d("8.5")))
}

func TestParseReceipt_Empty(t *testing.T) {
	r := ParseReceipt(nil)
	assert.Nil(t, r.Total)
	assert.Empty(t, r.Merchant)
	assert.NotNil(t, r.Items)
	assert.Zero(t, r.Confidence)
}

func TestParseReceipt_MerchantSkipsNumericLines(t *testing.T) {
	r := ParseReceipt([]domain.OCRLine{{Text: "123 456"}, {Text: "ab"}, {Text: "Padaria Central"}, {Text: "Later Line"}})
	assert.Equal(t, "Padaria Central", r.Merchant)

	r = ParseReceipt([]domain.OCRLine{{Text: "1"}, {Text: "2"}, {Text: "3"}, {Text: "Too Late"}})
	assert.Empty(t, r.Merchant)
}

func TestExtractTotal(t *testing.T) {
	cases := map[string]string{
		"subtotal: 10,00\ntotal: 12,50": "12.5",
		"valor total r$ 1.234,56":       "1234.56",
		"A PAGAR 99,99":                 "99.99",
		"Pizza R$ 45,00\nRefri R$ 8,00": "45",
		"TOTAL 150.000,00\nVALOR 20,00": "20",
		"Total: 7":                      "7",
		"TOTAL R$ 45.90":                "45.9",
		"TOTAL 1.234":                   "1234",
		"TOTAL: 18,75.":                 "18.75",
	}
	for text, want := range cases {
		got := extractTotal(text)
		require.NotNil(t, got, text)
		assert.True(t, got.Equal(d(want)), "%q: got %s", text, got)
	}

	assert.Nil(t, extractTotal("no amounts here"))
	assert.Nil(t, extractTotal("TOTAL 0,00"))
}

func TestExtractDate(t *testing.T) {
	cases := map[string]string{
		"emitido 05/03/2024":         "2024-03-05",
		"31/12/23 10:00":             "2023-12-31",
		"data 01-02-2024":            "2024-02-01",
		"15-08-22":                   "2022-08-15",
		"45/13/2024 then 02/01/2025": "2025-01-02",
		"no date":                    "",
	}
	for text, want := range cases {
		assert.Equal(t, want, extractDate(text), text)
	}
}

func TestParseReceipt_DotDecimals(t *testing.T) {
	r := ParseReceipt([]domain.OCRLine{
		{Text: "PADARIA CENTRAL", Confidence: 0.9},
		{Text: "PAO FRANCES 12.40", Confidence: 0.9},
		{Text: "CAFE 33.50", Confidence: 0.9},
		{Text: "TOTAL R$ 45.90", Confidence: 0.9},
	})

	require.NotNil(t, r.Total)
	assert.True(t, r.Total.Equal(d("45.90")), "total %s", r.Total)
	require.Len(t, r.Items, 2)
	assert.True(t, r.Items[0].Amount.Equal(d("12.40")))
	assert.True(t, r.Items[1].Amount.Equal(d("33.50")))

	tx, ok := ToExpense(r, fixedNow)
	require.True(t, ok)
	assert.Equal(t, "45.90", tx.Amount.StringFixed(2))
}

func TestInferCategory(t *testing.T) {
	cases := map[string]string{
		"SUPERMERCADO BOM PRECO": CategoryFood,
		"Posto Shell":            CategoryTransport,
		"Drogasil":               "pharmacy",
		"Netflix.com":            CategoryLeisure,
		"Sabesp":                 CategoryHousing,
		"Loja Qualquer":          CategoryOther,
		"":                       CategoryOther,
	}
	for merchant, want := range cases {
		assert.Equal(t, want, InferCategory(merchant), merchant)
	}
}

func TestToExpense(t *testing.T) {
	tx, ok := ToExpense(ParseReceipt(sampleReceipt), fixedNow)
	require.True(t, ok)
	assert.Equal(t, domain.TransactionExpense, tx.Kind)
	assert.Equal(t, domain.SourceOCR, tx.Source)
	assert.Equal(t, CategoryFood, tx.Category)
	assert.Equal(t, "SUPERMERCADO BOM PRECO", tx.Description)
	assert.True(t, tx.Amount.Equal(d("34.4")))
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), tx.Date)

	tx, ok = ToExpense(domain.Receipt{Total: dp("10")}, fixedNow)
	require.True(t, ok)
	assert.Equal(t, "Purchase", tx.Description)
	assert.Equal(t, fixedNow, tx.Date)

	_, ok = ToExpense(domain.Receipt{Merchant: "x"}, fixedNow)
	assert.False(t, ok)
}

func newTestReceipts(t *testing.T, rec TextRecognizer) *ReceiptService {
	t.Helper()
	finance, _, _ := newTestFinance(t)
	s := NewReceiptService(rec, finance, testLogger())
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestReceiptService_Scan(t *testing.T) {
	s := newTestReceipts(t, &StubRecognizer{Available: true, Lines: sampleReceipt})
	fc := domain.FinancialContext{TotalDebt: d("5000"), MonthlyPayment: d("500")}

	r, err := s.Scan(context.Background(), []byte("img"), fc)
	require.NoError(t, err)
	require.NotNil(t, r.Transaction)
	assert.True(t, r.Transaction.Amount.Equal(d("34.4")))
	require.NotNil(t, r.Impact)
	assert.True(t, r.Impact.RealCost.GreaterThan(d("34.4")))
}

func TestReceiptService_ScanWithoutPayment(t *testing.T) {
	s := newTestReceipts(t, &StubRecognizer{Available: true, Lines: sampleReceipt})

	r, err := s.Scan(context.Background(), []byte("img"), domain.FinancialContext{TotalDebt: d("5000")})
	require.NoError(t, err)
	require.NotNil(t, r.Transaction)
	assert.Nil(t, r.Impact)
}

func TestReceiptService_ScanWithoutTotal(t *testing.T) {
	s := newTestReceipts(t, &StubRecognizer{Available: true, Lines: []domain.OCRLine{{Text: "Obrigado!"}}})
	r, err := s.Scan(context.Background(), []byte("img"), domain.FinancialContext{})
	require.NoError(t, err)
	assert.Nil(t, r.Transaction)
	assert.Nil(t, r.Impact)
}

func TestReceiptService_ScanErrors(t *testing.T) {
	_, err := newTestReceipts(t, nil).Scan(context.Background(), []byte("img"), domain.FinancialContext{})
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = newTestReceipts(t, &StubRecognizer{}).Scan(context.Background(), []byte("img"), domain.FinancialContext{})
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = newTestReceipts(t, &StubRecognizer{Available: true}).Scan(context.Background(), nil, domain.FinancialContext{})
	assert.ErrorIs(t, err, ErrEmptyUpload)

	boom := errors.New("engine crashed")
	_, err = newTestReceipts(t, &StubRecognizer{Available: true, Err: boom}).Scan(context.Background(), []byte("img"), domain.FinancialContext{})
	assert.ErrorIs(t, err, boom)
}
