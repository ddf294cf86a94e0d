package repositories

import (
	"context"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/core/domain"

	"gorm.io/gorm"
)

// memberRepository implements MemberRepository interface
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

// Create creates a new member
func (r *memberRepository) Create(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// GetByID gets a member by ID
func (r *memberRepository) GetByID(ctx context.Context, id uint) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetByUsername gets a member by username
func (r *memberRepository) GetByUsername(ctx context.Context, username string) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetByEmail gets a member by email
func (r *memberRepository) GetByEmail(ctx context.Context, email string) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetByMemberNo gets a member by member number
func (r *memberRepository) GetByMemberNo(ctx context.Context, memberNo string) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).Where("member_no = ?", memberNo).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Update updates a member
func (r *memberRepository) Update(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}

// List lists members with pagination
func (r *memberRepository) List(ctx context.Context, offset, limit int) ([]*models.Member, int64, error) {
	var members []*models.Member
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Member{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Order("joined_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&members).Error; err != nil {
		return nil, 0, err
	}

	return members, total, nil
}

// ListByStatus lists members by membership status, oldest join first
func (r *memberRepository) ListByStatus(ctx context.Context, status domain.MembershipStatus) ([]*models.Member, error) {
	var members []*models.Member
	err := r.db.WithContext(ctx).
		Where("membership_status = ?", status).
		Order("joined_at ASC").
		Find(&members).Error
	return members, err
}

// ExistsByUsername checks if username exists
func (r *memberRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Member{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// ExistsByEmail checks if email exists
func (r *memberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Member{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// CountByStatus counts members with the given status
func (r *memberRepository) CountByStatus(ctx context.Context, status domain.MembershipStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Member{}).Where("membership_status = ?", status).Count(&count).Error
	return count, err
}
