package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"finance-coach/domain"
	"finance-coach/engine"
)

// TextRecognizer extracts text lines from a receipt image.
type TextRecognizer interface {
	IsAvailable() bool
	Recognize(ctx context.Context, image []byte) ([]domain.OCRLine, error)
}

var (
	totalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`TOTAL\s*:?\s*R?\$?\s*([\d.,]+)`),
		regexp.MustCompile(`VALOR\s+TOTAL\s*:?\s*R?\$?\s*([\d.,]+)`),
		regexp.MustCompile(`SUBTOTAL\s*:?\s*R?\$?\s*([\d.,]+)`),
		regexp.MustCompile(`A\s+PAGAR\s*:?\s*R?\$?\s*([\d.,]+)`),
		regexp.MustCompile(`VALOR\s*:?\s*R?\$?\s*([\d.,]+)`),
		regexp.MustCompile(`R\$\s*([\d.,]+)`),
	}

	// Tried in order; two-digit years come after four-digit ones so
	// "05/03/2024" is not read as "05/03/20".
	datePatterns = []struct {
		re     *regexp.Regexp
		layout string
	}{
		{regexp.MustCompile(`(\d{2}/\d{2}/\d{4})`), "02/01/2006"},
		{regexp.MustCompile(`(\d{2}/\d{2}/\d{2})`), "02/01/06"},
		{regexp.MustCompile(`(\d{2}-\d{2}-\d{4})`), "02-01-2006"},
		{regexp.MustCompile(`(\d{2}-\d{2}-\d{2})`), "02-01-06"},
	}

	itemPattern         = regexp.MustCompile(`^(.+?)\s+R?\$?\s*([\d.,]+)$`)
	totalLinePattern    = regexp.MustCompile(`^(TOTAL|SUBTOTAL|VALOR|A\s+PAGAR)\b`)
	numericOnlyPattern  = regexp.MustCompile(`^[\d\s\-/.]+$`)
	maxReceiptTotal     = decimal.NewFromInt(MaxReceiptTotal)
	maxReceiptItemValue = decimal.NewFromInt(MaxReceiptItem)

	merchantCategories = []struct {
		category string
		keywords []string
	}{
		{CategoryFood, []string{"restaurante", "restaurant", "lanchonete", "pizzaria", "ifood", "rappi", "mcdonald", "burger", "subway", "mercado", "supermercado", "market", "padaria", "bakery", "açougue", "hortifruti", "café", "cafe", "bar"}},
		{CategoryTransport, []string{"uber", "99", "posto", "shell", "ipiranga", "petrobras", "estacionamento", "parking", "metro", "ônibus"}},
		{"pharmacy", []string{"farmácia", "farmacia", "pharmacy", "droga", "drogaria", "drogasil", "pacheco"}},
		{CategoryLeisure, []string{"cinema", "teatro", "theater", "show", "netflix", "spotify", "livraria", "games"}},
		{CategoryHousing, []string{"luz", "água", "gás", "enel", "sabesp", "comgás", "aluguel", "condomínio"}},
	}
)

// receiptNumber reads an OCR amount. "1.234,56", "1234,56" and "45.90" all
// parse; dots in groups of three with no cents ("1.234") are thousands.
func receiptNumber(raw string) (decimal.Decimal, bool) {
	s := strings.TrimRight(raw, ".,")
	if thousandsPattern.MatchString(s) {
		s = strings.ReplaceAll(s, ".", "")
	}
	v, err := engine.ParseAmount(s)
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}

// ParseReceipt extracts merchant, total, date and items from recognized lines.
func ParseReceipt(lines []domain.OCRLine) domain.Receipt {
	receipt := domain.Receipt{Items: []domain.ReceiptItem{}}
	if len(lines) == 0 {
		return receipt
	}

	texts := make([]string, len(lines))
	var confidence float64
	for i, l := range lines {
		texts[i] = l.Text
		confidence += l.Confidence
	}
	receipt.FullText = strings.Join(texts, "\n")
	receipt.Confidence = confidence / float64(len(lines))

	for i := 0; i < len(lines) && i < 3; i++ {
		t := strings.TrimSpace(lines[i].Text)
		if len(t) > 3 && !numericOnlyPattern.MatchString(t) {
			receipt.Merchant = t
			break
		}
	}

	receipt.Total = extractTotal(receipt.FullText)
	receipt.Date = extractDate(receipt.FullText)
	receipt.Items = extractItems(lines)
	return receipt
}

// extractTotal returns the largest plausible amount next to a total label.
func extractTotal(text string) *decimal.Decimal {
	upper := strings.ToUpper(text)

	var best *decimal.Decimal
	for _, re := range totalPatterns {
		for _, m := range re.FindAllStringSubmatch(upper, -1) {
			v, ok := receiptNumber(m[1])
			if !ok || !v.IsPositive() || !v.LessThan(maxReceiptTotal) {
				continue
			}
			if best == nil || v.GreaterThan(*best) {
				found := v
				best = &found
			}
		}
	}
	return best
}

// extractDate returns the first valid date in ISO form, or "".
func extractDate(text string) string {
	for _, p := range datePatterns {
		for _, m := range p.re.FindAllString(text, -1) {
			if t, err := time.Parse(p.layout, m); err == nil {
				return t.Format("2006-01-02")
			}
		}
	}
	return ""
}

func extractItems(lines []domain.OCRLine) []domain.ReceiptItem {
	items := []domain.ReceiptItem{}
	for _, l := range lines {
		m := itemPattern.FindStringSubmatch(strings.TrimSpace(l.Text))
		if m == nil {
			continue
		}
		desc := strings.TrimSpace(m[1])
		if totalLinePattern.MatchString(strings.ToUpper(desc)) {
			continue
		}
		v, ok := receiptNumber(m[2])
		if !ok || !v.IsPositive() || !v.LessThan(maxReceiptItemValue) || len(desc) <= 2 {
			continue
		}
		items = append(items, domain.ReceiptItem{Description: desc, Amount: v, Confidence: l.Confidence})
	}
	return items
}

// InferCategory guesses an expense category from the merchant name.
func InferCategory(merchant string) string {
	lower := strings.ToLower(merchant)
	if lower == "" {
		return CategoryOther
	}
	for _, mc := range merchantCategories {
		for _, k := range mc.keywords {
			if strings.Contains(lower, k) {
				return mc.category
			}
		}
	}
	return CategoryOther
}

// ToExpense converts a parsed receipt into an expense, or reports false
// when no total was found. Receipts without a date are dated now.
func ToExpense(r domain.Receipt, now time.Time) (domain.Transaction, bool) {
	if r.Total == nil {
		return domain.Transaction{}, false
	}
	date := now
	if r.Date != "" {
		if t, err := time.Parse("2006-01-02", r.Date); err == nil {
			date = t
		}
	}
	desc := r.Merchant
	if desc == "" {
		desc = "Purchase"
	}
	return domain.Transaction{
		Kind:        domain.TransactionExpense,
		Amount:      engine.RoundMoney(*r.Total),
		Category:    InferCategory(r.Merchant),
		Description: desc,
		Date:        date,
		Source:      domain.SourceOCR,
	}, true
}

type ReceiptService struct {
	recognizer TextRecognizer
	finance    *FinanceService
	log        *logrus.Logger
	now        func() time.Time
}

// NewReceiptService builds the service. recognizer may be nil when no OCR
// backend is configured.
func NewReceiptService(recognizer TextRecognizer, finance *FinanceService, logger *logrus.Logger) *ReceiptService {
	return &ReceiptService{recognizer: recognizer, finance: finance, log: logger, now: time.Now}
}

func (s *ReceiptService) IsAvailable() bool {
	return s.recognizer != nil && s.recognizer.IsAvailable()
}

// Scan recognizes a receipt image and, when a total is found, returns the
// expense it represents priced against the user's debt. The caller stores
// the transaction.
func (s *ReceiptService) Scan(ctx context.Context, image []byte, fc domain.FinancialContext) (domain.ReceiptScanResult, error) {
	if !s.IsAvailable() {
		return domain.ReceiptScanResult{}, fmt.Errorf("receipt recognition: %w", ErrUnavailable)
	}
	if len(image) == 0 {
		return domain.ReceiptScanResult{}, ErrEmptyUpload
	}

	lines, err := s.recognizer.Recognize(ctx, image)
	if err != nil {
		return domain.ReceiptScanResult{}, fmt.Errorf("recognize receipt: %w", err)
	}
	return s.FromLines(ctx, lines, fc), nil
}

// FromLines runs the parsing half of Scan on already recognized text.
func (s *ReceiptService) FromLines(ctx context.Context, lines []domain.OCRLine, fc domain.FinancialContext) domain.ReceiptScanResult {
	result := domain.ReceiptScanResult{Receipt: ParseReceipt(lines)}

	t, ok := ToExpense(result.Receipt, s.now())
	if !ok {
		s.log.WithField("lines", len(lines)).Info("receipt has no recognizable total")
		return result
	}
	result.Transaction = &t
	if !hasActiveDebt(fc) {
		return result
	}

	impact, err := s.finance.Impact(ctx, domain.ImpactInput{
		CurrentDebt:    fc.TotalDebt,
		MonthlyPayment: fc.MonthlyPayment,
		NewExpense:     t.Amount,
	})
	if err != nil {
		s.log.WithError(err).Warn("could not price receipt expense")
		return result
	}
	result.Impact = impact
	return result
}
