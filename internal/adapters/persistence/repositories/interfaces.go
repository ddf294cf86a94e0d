package repositories

import (
	"context"

	"saccohub/internal/adapters/persistence/models"
	"saccohub/internal/core/domain"
)

// MemberRepository defines member repository interface
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id uint) (*models.Member, error)
	GetByUsername(ctx context.Context, username string) (*models.Member, error)
	GetByEmail(ctx context.Context, email string) (*models.Member, error)
	GetByMemberNo(ctx context.Context, memberNo string) (*models.Member, error)
	Update(ctx context.Context, member *models.Member) error
	List(ctx context.Context, offset, limit int) ([]*models.Member, int64, error)
	ListByStatus(ctx context.Context, status domain.MembershipStatus) ([]*models.Member, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByStatus(ctx context.Context, status domain.MembershipStatus) (int64, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByMemberID(ctx context.Context, memberID uint) error
	DeleteExpired(ctx context.Context) error
}
