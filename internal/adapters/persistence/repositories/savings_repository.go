package repositories

import (
	"context"

	"saccohub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// SavingsRepository handles savings account data access
type SavingsRepository struct {
	db *gorm.DB
}

// NewSavingsRepository creates a new savings repository
func NewSavingsRepository(db *gorm.DB) *SavingsRepository {
	return &SavingsRepository{db: db}
}

// Create creates a new savings account
func (r *SavingsRepository) Create(ctx context.Context, account *models.SavingsAccount) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// GetByID gets a savings account by ID
func (r *SavingsRepository) GetByID(ctx context.Context, id uint) (*models.SavingsAccount, error) {
	var account models.SavingsAccount
	err := r.db.WithContext(ctx).First(&account, id).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByMemberID gets all savings accounts for a member
func (r *SavingsRepository) GetByMemberID(ctx context.Context, memberID uint) ([]*models.SavingsAccount, error) {
	var accounts []*models.SavingsAccount
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("created_at ASC").
		Find(&accounts).Error
	return accounts, err
}

// Update updates a savings account
func (r *SavingsRepository) Update(ctx context.Context, account *models.SavingsAccount) error {
	return r.db.WithContext(ctx).Save(account).Error
}

// ApplyMovement adjusts an account balance and records the transaction in one DB transaction
func (r *SavingsRepository) ApplyMovement(ctx context.Context, account *models.SavingsAccount, tx *models.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		if err := dbtx.Save(account).Error; err != nil {
			return err
		}
		return dbtx.Create(tx).Error
	})
}

// ListActive lists all active accounts (used by the interest accrual job)
func (r *SavingsRepository) ListActive(ctx context.Context) ([]*models.SavingsAccount, error) {
	var accounts []*models.SavingsAccount
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Find(&accounts).Error
	return accounts, err
}

// TotalBalance sums balances across all active accounts
func (r *SavingsRepository) TotalBalance(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.SavingsAccount{}).
		Where("is_active = ?", true).
		Select("COALESCE(SUM(balance), 0)").
		Scan(&total).Error
	return total, err
}
