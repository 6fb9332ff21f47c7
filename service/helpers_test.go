package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"finance-coach/domain"
	"finance-coach/engine"
	"finance-coach/repository"
)

var fixedNow = time.Date(2025, 1, 1, 15, 30, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type CountingCache struct {
	repository.CacheRepository
	mu       sync.Mutex
	Sets     int
	ForceErr bool
}

func (c *CountingCache) Set(ctx context.Context, key, value string) error {
	c.mu.Lock()
	c.Sets++
	c.mu.Unlock()
	if c.ForceErr {
		return errors.New("cache down")
	}
	return c.CacheRepository.Set(ctx, key, value)
}

func newTestFinance(t *testing.T) (*FinanceService, *CountingCache, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	cache := &CountingCache{CacheRepository: repository.NewMemoryCache(time.Hour)}
	s := NewFinanceService(cache, testLogger(), NewMetrics(reg), engine.DefaultScorePolicy(), DefaultMonthlyRate)
	s.now = func() time.Time { return fixedNow }
	return s, cache, reg
}

// counterValue reads finance_engine_operations_total for the given labels.
func counterValue(t *testing.T, reg *prometheus.Registry, operation, outcome string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() != "finance_engine_operations_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["operation"] == operation && labels["outcome"] == outcome {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

type StubGenerator struct {
	Available bool
	Response  string
	Err       error

	mu      sync.Mutex
	Prompts []string
	Systems []string
}

func (g *StubGenerator) IsAvailable(context.Context) bool { return g.Available }

func (g *StubGenerator) Generate(_ context.Context, system, prompt string) (string, error) {
	g.mu.Lock()
	g.Systems = append(g.Systems, system)
	g.Prompts = append(g.Prompts, prompt)
	g.mu.Unlock()
	return g.Response, g.Err
}

type StubRecognizer struct {
	Available bool
	Lines     []domain.OCRLine
	Err       error
}

func (r *StubRecognizer) IsAvailable() bool { return r.Available }

func (r *StubRecognizer) Recognize(context.Context, []byte) ([]domain.OCRLine, error) {
	return r.Lines, r.Err
}

type StubTranscriber struct {
	Available bool
	Result    domain.Transcription
	Err       error
}

func (s *StubTranscriber) IsAvailable() bool { return s.Available }

func (s *StubTranscriber) Transcribe(context.Context, []byte, string) (domain.Transcription, error) {
	return s.Result, s.Err
}
