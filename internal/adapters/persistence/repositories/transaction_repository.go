package repositories

import (
	"context"
	"time"

	"saccohub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// TransactionRepository handles transaction data access
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create creates a new transaction
func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// GetByID gets a transaction by ID
func (r *TransactionRepository) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Member").
		First(&tx, id).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// GetByMemberID gets transactions for a member with pagination, newest first
func (r *TransactionRepository) GetByMemberID(ctx context.Context, memberID uint, offset, limit int) ([]*models.Transaction, int64, error) {
	var txs []*models.Transaction
	var total int64

	r.db.WithContext(ctx).Model(&models.Transaction{}).Where("member_id = ?", memberID).Count(&total)

	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&txs).Error

	return txs, total, err
}

// Recent gets the most recent transactions with the member relation loaded
func (r *TransactionRepository) Recent(ctx context.Context, limit int) ([]*models.Transaction, error) {
	var txs []*models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Member").
		Order("created_at DESC").
		Limit(limit).
		Find(&txs).Error
	return txs, err
}

// CountSince counts transactions created after the given time
func (r *TransactionRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}
