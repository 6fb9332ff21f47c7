package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"finance-coach/domain"
	"finance-coach/engine"
	"finance-coach/repository"
)

// TransactionService records a user's income and expenses and evaluates
// the stored history.
type TransactionService struct {
	repo    repository.TransactionRepository
	finance *FinanceService
	log     *logrus.Logger
	now     func() time.Time
}

func NewTransactionService(
	repo repository.TransactionRepository,
	finance *FinanceService,
	logger *logrus.Logger,
) *TransactionService {
	return &TransactionService{repo: repo, finance: finance, log: logger, now: time.Now}
}

// Record validates and normalizes t, then stores it under userID.
func (s *TransactionService) Record(ctx context.Context, userID string, t domain.Transaction) (domain.Transaction, error) {
	if userID != "" {
		t.UserID = userID
	}

	switch t.Kind {
	case domain.TransactionIncome, domain.TransactionExpense:
	default:
		return domain.Transaction{}, fmt.Errorf("%w: kind must be %q or %q, got %q",
			ErrInvalidTransaction, domain.TransactionIncome, domain.TransactionExpense, t.Kind)
	}
	if !t.Amount.IsPositive() {
		return domain.Transaction{}, fmt.Errorf("%w: amount must be greater than zero, got %s",
			ErrInvalidTransaction, t.Amount.String())
	}

	t.Amount = engine.RoundMoney(t.Amount)
	t.Category = strings.ToLower(strings.TrimSpace(t.Category))
	if t.Category == "" {
		t.Category = CategoryOther
	}
	t.Description = truncate(t.Description, MaxMessageLength)
	if t.Date.IsZero() {
		t.Date = s.now()
	}
	if t.Source == "" {
		t.Source = domain.SourceManual
	}

	saved, err := s.repo.Save(ctx, t)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"user_id":  saved.UserID,
		"id":       saved.ID,
		"kind":     saved.Kind,
		"category": saved.Category,
		"source":   saved.Source,
	}).Info("transaction recorded")
	return saved, nil
}

func (s *TransactionService) List(ctx context.Context, userID string) ([]domain.Transaction, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *TransactionService) Score(ctx context.Context, userID string) (domain.ScoreReport, error) {
	history, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return domain.ScoreReport{}, err
	}
	return s.finance.Score(ctx, history), nil
}

func (s *TransactionService) CashFlow(ctx context.Context, userID string) (domain.CashFlowSummary, error) {
	history, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return domain.CashFlowSummary{}, err
	}
	return s.finance.CashFlow(ctx, history), nil
}
