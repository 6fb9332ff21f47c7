package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"finance-coach/domain"
)

// TransactionRepositoryMemory is an in-memory implementation of TransactionRepository.
type TransactionRepositoryMemory struct {
	mu     sync.RWMutex
	byUser map[string][]domain.Transaction
}

// NewTransactionRepositoryMemory creates a new in-memory transaction repository.
func NewTransactionRepositoryMemory() *TransactionRepositoryMemory {
	return &TransactionRepositoryMemory{
		byUser: make(map[string][]domain.Transaction),
	}
}

// Save stores the transaction, assigning an id when it has none.
func (r *TransactionRepositoryMemory) Save(_ context.Context, t domain.Transaction) (domain.Transaction, error) {
	if t.UserID == "" {
		return domain.Transaction{}, ErrMissingUser
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	r.mu.Lock()
	r.byUser[t.UserID] = append(r.byUser[t.UserID], t)
	r.mu.Unlock()
	return t, nil
}

// ListByUser returns a copy of the user's transactions in insertion order.
func (r *TransactionRepositoryMemory) ListByUser(_ context.Context, userID string) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.byUser[userID]
	out := make([]domain.Transaction, len(stored))
	copy(out, stored)
	return out, nil
}
