package services

import (
	"context"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/adapters/persistence/repositories"
)

// TransactionService handles member-facing transaction history
type TransactionService struct {
	txRepo *repositories.TransactionRepository
}

// NewTransactionService creates a new transaction service
func NewTransactionService(txRepo *repositories.TransactionRepository) *TransactionService {
	return &TransactionService{txRepo: txRepo}
}

// ListTransactionsOutput represents paginated transaction listing
type ListTransactionsOutput struct {
	Transactions []*models.TransactionResponse `json:"transactions"`
	Total        int64                         `json:"total"`
}

// GetMyTransactions lists a member's transactions, newest first
func (s *TransactionService) GetMyTransactions(ctx context.Context, memberID uint, offset, limit int) (*ListTransactionsOutput, error) {
	txs, total, err := s.txRepo.GetByMemberID(ctx, memberID, offset, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, tx.ToResponse())
	}

	return &ListTransactionsOutput{Transactions: responses, Total: total}, nil
}
