package repositories

import (
	"context"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/core/domain"

	"gorm.io/gorm"
)

// LoanRepository handles loan data access
type LoanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

// Create creates a new loan
func (r *LoanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

// GetByID gets a loan by ID with the member relation
func (r *LoanRepository) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Preload("Member").
		First(&loan, id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// GetByMemberID gets loans for a member, newest first
func (r *LoanRepository) GetByMemberID(ctx context.Context, memberID uint) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("created_at DESC").
		Find(&loans).Error
	return loans, err
}

// List lists loans with pagination
func (r *LoanRepository) List(ctx context.Context, offset, limit int) ([]*models.Loan, int64, error) {
	var loans []*models.Loan
	var total int64

	r.db.WithContext(ctx).Model(&models.Loan{}).Count(&total)

	err := r.db.WithContext(ctx).
		Preload("Member").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&loans).Error

	return loans, total, err
}

// ListByStatus lists loans in the given status, oldest application first
func (r *LoanRepository) ListByStatus(ctx context.Context, status domain.LoanStatus) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Preload("Member").
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&loans).Error
	return loans, err
}

// Update updates a loan
func (r *LoanRepository) Update(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Save(loan).Error
}

// ApplyMovement persists a loan state change and its money-movement
// transaction in one DB transaction, so neither write lands without the other
func (r *LoanRepository) ApplyMovement(ctx context.Context, loan *models.Loan, tx *models.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		if err := dbtx.Save(loan).Error; err != nil {
			return err
		}
		return dbtx.Create(tx).Error
	})
}

// CountByStatus counts loans with the given status
func (r *LoanRepository) CountByStatus(ctx context.Context, status domain.LoanStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// TotalPrincipalByStatus sums loan principals in the given status
func (r *LoanRepository) TotalPrincipalByStatus(ctx context.Context, status domain.LoanStatus) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("status = ?", status).
		Select("COALESCE(SUM(principal), 0)").
		Scan(&total).Error
	return total, err
}
