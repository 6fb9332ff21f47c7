package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance-coach/domain"
)

func TestClassifyByKeywords(t *testing.T) {
	cases := []struct {
		text     string
		kind     domain.TransactionKind
		category string
		amount   string
	}{
		{"gastei 60 no ifood", domain.TransactionExpense, CategoryFood, "60"},
		{"I spent R$ 45,90 on uber", domain.TransactionExpense, CategoryTransport, "45.9"},
		{"paid the rent 1.500", domain.TransactionExpense, CategoryHousing, "1500"},
		{"gastei 1.234,56 no cinema", domain.TransactionExpense, CategoryLeisure, "1234.56"},
		{"recebi meu salário de 3000", domain.TransactionIncome, CategorySalary, "3000"},
		{"earned 800 from a freelance job", domain.TransactionIncome, CategoryFreelance, "800"},
		{"spent 12.50 on stuff", domain.TransactionExpense, CategoryOther, "12.5"},
	}
	for _, tc := range cases {
		cl := ClassifyByKeywords(tc.text)
		assert.Equal(t, tc.kind, cl.Kind, tc.text)
		assert.Equal(t, tc.category, cl.Category, tc.text)
		require.NotNil(t, cl.Amount, tc.text)
		assert.True(t, cl.Amount.Equal(d(tc.amount)), "%s: got %s", tc.text, cl.Amount)
	}
}

func TestClassifyByKeywords_Conversation(t *testing.T) {
	cl := ClassifyByKeywords("how am I doing this month?")
	assert.Equal(t, domain.TransactionConversation, cl.Kind)
	assert.Equal(t, CategoryOther, cl.Category)
	assert.Nil(t, cl.Amount)
}

func TestClassifyByKeywords_WholeWordCategories(t *testing.T) {
	// "gastei" must not read as "gas"
	cl := ClassifyByKeywords("gastei 30 no cinema")
	assert.Equal(t, CategoryLeisure, cl.Category)
}

func TestClassifyByKeywords_TruncatesDescription(t *testing.T) {
	cl := ClassifyByKeywords(strings.Repeat("á", 80))
	assert.Equal(t, DescriptionLength, len([]rune(cl.Description)))
}

func TestClassifier_UsesGenerator(t *testing.T) {
	gen := &StubGenerator{
		Available: true,
		Response:  "```json\n{\"kind\": \"Expense\", \"category\": \"food\", \"amount\": 42.5, \"description\": \"pizza\"}\n```",
	}
	cl := NewClassifier(gen, testLogger()).Classify(context.Background(), "pizza 42,50")

	assert.Equal(t, domain.TransactionExpense, cl.Kind)
	assert.Equal(t, CategoryFood, cl.Category)
	require.NotNil(t, cl.Amount)
	assert.True(t, cl.Amount.Equal(d("42.5")))
	assert.Equal(t, "pizza", cl.Description)
	require.Len(t, gen.Prompts, 1)
	assert.Contains(t, gen.Prompts[0], "pizza 42,50")
	assert.Equal(t, classifierSystemPrompt, gen.Systems[0])
}

func TestClassifier_UnknownCategoryBecomesOther(t *testing.T) {
	gen := &StubGenerator{Available: true, Response: `{"kind":"income","category":"lottery","amount":null,"description":"won"}`}
	cl := NewClassifier(gen, testLogger()).Classify(context.Background(), "won something")

	assert.Equal(t, domain.TransactionIncome, cl.Kind)
	assert.Equal(t, CategoryOther, cl.Category)
	assert.Nil(t, cl.Amount)
}

func TestClassifier_FallsBack(t *testing.T) {
	cases := map[string]*StubGenerator{
		"unavailable": {Available: false},
		"error":       {Available: true, Err: errors.New("timeout")},
		"bad json":    {Available: true, Response: "sure! it's an expense"},
		"bad kind":    {Available: true, Response: `{"kind":"transfer","category":"food"}`},
	}
	for name, gen := range cases {
		cl := NewClassifier(gen, testLogger()).Classify(context.Background(), "gastei 60 no ifood")
		assert.Equal(t, domain.TransactionExpense, cl.Kind, name)
		assert.Equal(t, CategoryFood, cl.Category, name)
	}

	cl := NewClassifier(nil, testLogger()).Classify(context.Background(), "recebi 100")
	assert.Equal(t, domain.TransactionIncome, cl.Kind)
}
