package repository

import (
	"context"
	"errors"

	"finance-coach/domain"
)

var ErrMissingUser = errors.New("transaction has no user id")

type TransactionRepository interface {
	Save(ctx context.Context, t domain.Transaction) (domain.Transaction, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Transaction, error)
}
