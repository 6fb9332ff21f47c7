package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"finance-coach/domain"
	"finance-coach/engine"
)

const classifierSystemPrompt = "You are a transaction classifier. Reply ONLY with valid JSON."

const classifierPromptTemplate = `Read the text below and extract its financial information.

TEXT: %q

Reply ONLY with valid JSON:
{
    "kind": "income" | "expense" | "conversation",
    "category": "food" | "transport" | "housing" | "leisure" | "salary" | "freelance" | "other",
    "amount": number or null,
    "description": "short description"
}

If it is not a financial transaction, use kind="conversation".`

const (
	CategoryFood      = "food"
	CategoryTransport = "transport"
	CategoryHousing   = "housing"
	CategoryLeisure   = "leisure"
	CategorySalary    = "salary"
	CategoryFreelance = "freelance"
	CategoryOther     = "other"
)

var knownCategories = map[string]bool{
	CategoryFood: true, CategoryTransport: true, CategoryHousing: true, CategoryLeisure: true,
	CategorySalary: true, CategoryFreelance: true, CategoryOther: true,
}

var (
	expenseWords = []string{"spent", "paid", "bought", "expense", "bill", "gastei", "paguei", "comprei", "despesa", "conta"}
	incomeWords  = []string{"received", "earned", "paycheck", "salary", "freelance", "recebi", "ganhei", "entrou", "salário"}

	// Matched against whole words, in order; the first hit wins.
	categoryKeywords = []struct {
		keyword  string
		category string
	}{
		{"ifood", CategoryFood}, {"food", CategoryFood}, {"lunch", CategoryFood}, {"dinner", CategoryFood},
		{"pizza", CategoryFood}, {"comida", CategoryFood}, {"almoço", CategoryFood},
		{"uber", CategoryTransport}, {"bus", CategoryTransport}, {"gas", CategoryTransport},
		{"fuel", CategoryTransport}, {"ônibus", CategoryTransport}, {"gasolina", CategoryTransport},
		{"rent", CategoryHousing}, {"electricity", CategoryHousing}, {"water", CategoryHousing},
		{"aluguel", CategoryHousing}, {"luz", CategoryHousing},
		{"netflix", CategoryLeisure}, {"cinema", CategoryLeisure}, {"movie", CategoryLeisure},
		{"game", CategoryLeisure}, {"jogo", CategoryLeisure},
		{"salary", CategorySalary}, {"salário", CategorySalary},
		{"freelance", CategoryFreelance},
	}

	// "1.234,56" style first, then a plain number with optional cents.
	amountPattern    = regexp.MustCompile(`(\d{1,3}(?:\.\d{3})+(?:,\d{1,2})?|\d+(?:[.,]\d{1,2})?)`)
	thousandsPattern = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+$`)
)

// Classifier turns a free-text message into a Classification, asking the
// generator first and falling back to keyword rules.
type Classifier struct {
	generator Generator
	log       *logrus.Logger
}

func NewClassifier(generator Generator, logger *logrus.Logger) *Classifier {
	return &Classifier{generator: generator, log: logger}
}

type llmClassification struct {
	Kind        string           `json:"kind"`
	Category    string           `json:"category"`
	Amount      *decimal.Decimal `json:"amount"`
	Description string           `json:"description"`
}

func (c *Classifier) Classify(ctx context.Context, text string) domain.Classification {
	if c.generator == nil || !c.generator.IsAvailable(ctx) {
		return ClassifyByKeywords(text)
	}

	raw, err := c.generator.Generate(ctx, classifierSystemPrompt, fmt.Sprintf(classifierPromptTemplate, text))
	if err == nil {
		var cl domain.Classification
		cl, err = parseClassification(raw)
		if err == nil {
			return cl
		}
	}
	c.log.WithError(err).Warn("classification failed, using keyword rules")
	return ClassifyByKeywords(text)
}

func parseClassification(raw string) (domain.Classification, error) {
	raw = stripCodeFence(raw)

	var out llmClassification
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return domain.Classification{}, fmt.Errorf("decode classification: %w", err)
	}

	kind := domain.TransactionKind(strings.ToLower(strings.TrimSpace(out.Kind)))
	switch kind {
	case domain.TransactionIncome, domain.TransactionExpense, domain.TransactionConversation:
	default:
		return domain.Classification{}, fmt.Errorf("unknown kind %q", out.Kind)
	}

	category := strings.ToLower(strings.TrimSpace(out.Category))
	if !knownCategories[category] {
		category = CategoryOther
	}

	amount := out.Amount
	if amount != nil {
		abs := amount.Abs()
		amount = &abs
	}

	return domain.Classification{
		Kind:        kind,
		Category:    category,
		Amount:      amount,
		Description: truncate(out.Description, DescriptionLength),
	}, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	if i := strings.Index(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// ClassifyByKeywords is the rule-based classifier used without a generator.
func ClassifyByKeywords(text string) domain.Classification {
	lower := strings.ToLower(text)

	var amount *decimal.Decimal
	if m := amountPattern.FindString(text); m != "" {
		if thousandsPattern.MatchString(m) {
			m = strings.ReplaceAll(m, ".", "")
		}
		if v, err := engine.ParseAmount(m); err == nil {
			amount = &v
		}
	}

	kind := domain.TransactionConversation
	switch {
	case containsAny(lower, expenseWords):
		kind = domain.TransactionExpense
	case containsAny(lower, incomeWords):
		kind = domain.TransactionIncome
	}

	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		words[w] = true
	}
	category := CategoryOther
	for _, ck := range categoryKeywords {
		if words[ck.keyword] {
			category = ck.category
			break
		}
	}

	return domain.Classification{
		Kind:        kind,
		Category:    category,
		Amount:      amount,
		Description: truncate(text, DescriptionLength),
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
