package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance-coach/domain"
)

func TestCoachService_UsesGenerator(t *testing.T) {
	gen := &StubGenerator{Available: true, Response: "Bora focar!"}
	coach := NewCoachService(gen, "openai", testLogger())

	impact := &domain.ImpactReport{AdditionalDays: 30, RealCost: d("416.84")}
	reply, provider := coach.Reply(context.Background(), "gastei 200", domain.FinancialContext{TotalDebt: d("5000")}, impact)

	assert.Equal(t, "Bora focar!", reply)
	assert.Equal(t, "openai", provider)
	require.Len(t, gen.Prompts, 1)
	assert.Contains(t, gen.Prompts[0], "in the red")
	assert.Contains(t, gen.Prompts[0], "Additional days of debt: 30")
	assert.Contains(t, gen.Prompts[0], "R$416.84")
	assert.Contains(t, gen.Prompts[0], "gastei 200")
	assert.Equal(t, coachSystemPrompt, gen.Systems[0])
}

func TestCoachService_FallbackOnError(t *testing.T) {
	gen := &StubGenerator{Available: true, Err: errors.New("boom")}
	coach := NewCoachService(gen, "openai", testLogger())

	reply, provider := coach.Reply(context.Background(), "hi", domain.FinancialContext{TotalDebt: d("10")}, nil)
	assert.Equal(t, ProviderFallback, provider)
	assert.Contains(t, inDebtReplies, reply)
}

func TestCoachService_FallbackOnEmptyReply(t *testing.T) {
	coach := NewCoachService(&StubGenerator{Available: true}, "openai", testLogger())
	_, provider := coach.Reply(context.Background(), "hi", domain.FinancialContext{}, nil)
	assert.Equal(t, ProviderFallback, provider)
}

func TestFallbackReply_FollowsSituation(t *testing.T) {
	assert.Contains(t, inDebtReplies, fallbackReply("x", domain.FinancialContext{CurrentBalance: d("-1")}))
	assert.Contains(t, inDebtReplies, fallbackReply("x", domain.FinancialContext{CurrentBalance: d("100"), TotalDebt: d("1")}))
	assert.Contains(t, positiveReplies, fallbackReply("x", domain.FinancialContext{CurrentBalance: d("100")}))
	assert.Contains(t, neutralReplies, fallbackReply("x", domain.FinancialContext{}))
}

func TestFallbackReply_Deterministic(t *testing.T) {
	fc := domain.FinancialContext{CurrentBalance: d("50")}
	assert.Equal(t, fallbackReply("comprei um livro", fc), fallbackReply("comprei um livro", fc))
}

func TestCoachService_Provider(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "groq", NewCoachService(&StubGenerator{Available: true}, "groq", testLogger()).Provider(ctx))
	assert.Equal(t, ProviderFallback, NewCoachService(&StubGenerator{}, "groq", testLogger()).Provider(ctx))
	assert.Equal(t, ProviderFallback, NewCoachService(nil, "groq", testLogger()).Provider(ctx))
}

func TestBuildCoachPrompt_Green(t *testing.T) {
	p := buildCoachPrompt("oi", domain.FinancialContext{CurrentBalance: d("250")}, nil)
	assert.Contains(t, p, "in the green")
	assert.Contains(t, p, "R$250.00")
	assert.NotContains(t, p, "IMPACT OF THE LAST EXPENSE")
}
